package blog

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Posts interface {
	repository.Repository[*Post]

	GetBySlug(ctx context.Context, slug string, criteria ...repository.SelectCriteria) (*Post, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Post, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, record *Post) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var (
	_ Posts                        = (*posts)(nil)
	_ repository.Repository[*Post] = (*posts)(nil)
)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

func (a *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *posts) CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	preparePostDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *posts) GetBySlug(ctx context.Context, slug string, criteria ...repository.SelectCriteria) (*Post, error) {
	record := &Post{}
	q := a.db.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.slug = ?", strings.TrimSpace(slug)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"slug": slug,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *posts) ListPublished(ctx context.Context, limit, offset int) ([]*Post, error) {
	records := []*Post{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.published = ?", true).
		OrderExpr("?TableAlias.created_at DESC").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Scan(ctx)

	return records, err
}

func (a *posts) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Post, error) {
	records := []*Post{}
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID).
		OrderExpr("?TableAlias.created_at DESC").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Scan(ctx)

	return records, err
}

// IncrementViews bumps the view counter in a single statement so concurrent
// reads never lose counts to read-modify-write races.
func (a *posts) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.NewRaw(`
		UPDATE "posts" AS "pst"
		SET "views" = "views" + 1
		WHERE
			("pst".id = ?)
			AND "pst"."deleted_at" IS NULL;
	`, id).Exec(ctx)

	return err
}

// Remove soft deletes the post: bun translates the delete into setting
// deleted_at because of the model's soft_delete tag.
func (a *posts) Remove(ctx context.Context, record *Post) error {
	if record == nil || record.ID == uuid.Nil {
		return ErrNotFound
	}

	_, err := a.db.NewDelete().
		Model(record).
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)

	return err
}

func preparePostDefaults(record *Post) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Slug == "" {
		record.Slug = Slugify(record.Title)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 25
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Slugify lowercases the input and collapses non-alphanumeric runs into
// single dashes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
