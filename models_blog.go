package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is a blog entry. AuthorID is the owning identity consulted by the
// authorization guard for ownership-gated operations.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AuthorID      uuid.UUID   `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author        *User       `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Title         string      `bun:"title,notnull" json:"title,omitempty"`
	Slug          string      `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Content       string      `bun:"content" json:"content,omitempty"`
	Excerpt       string      `bun:"excerpt" json:"excerpt,omitempty"`
	Published     bool        `bun:"published,notnull,default:false" json:"published"`
	Views         int64       `bun:"views,notnull,default:0" json:"views"`
	Categories    []*Category `bun:"m2m:post_categories,join:Post=Category" json:"categories,omitempty"`
	Tags          []*Tag      `bun:"m2m:post_tags,join:Post=Tag" json:"tags,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Category groups posts by topic.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Tag is a free-form label on posts.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tag"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PostCategory joins posts and categories.
type PostCategory struct {
	bun.BaseModel `bun:"table:post_categories,alias:pc"`
	PostID        uuid.UUID `bun:"post_id,pk,type:uuid"`
	Post          *Post     `bun:"rel:belongs-to,join:post_id=id"`
	CategoryID    uuid.UUID `bun:"category_id,pk,type:uuid"`
	Category      *Category `bun:"rel:belongs-to,join:category_id=id"`
}

// PostTag joins posts and tags.
type PostTag struct {
	bun.BaseModel `bun:"table:post_tags,alias:pt"`
	PostID        uuid.UUID `bun:"post_id,pk,type:uuid"`
	Post          *Post     `bun:"rel:belongs-to,join:post_id=id"`
	TagID         uuid.UUID `bun:"tag_id,pk,type:uuid"`
	Tag           *Tag      `bun:"rel:belongs-to,join:tag_id=id"`
}

// RegisterModels registers the m2m join models with bun. Call once per DB
// handle before running relation queries.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*PostCategory)(nil), (*PostTag)(nil))
}
