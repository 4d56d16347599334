package blog

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Posts() Posts
	Profiles() repository.Repository[*Profile]
	Categories() repository.Repository[*Category]
	Tags() repository.Repository[*Tag]
}

func NewProfilesRepository(db *bun.DB) repository.Repository[*Profile] {
	handlers := repository.ModelHandlers[*Profile]{
		NewRecord: func() *Profile {
			return &Profile{}
		},
		GetID: func(record *Profile) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Profile, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "user_id"
		},
	}
	return repository.NewRepository(db, handlers)
}

func NewCategoriesRepository(db *bun.DB) repository.Repository[*Category] {
	handlers := repository.ModelHandlers[*Category]{
		NewRecord: func() *Category {
			return &Category{}
		},
		GetID: func(record *Category) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Category, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
	}
	return repository.NewRepository(db, handlers)
}

func NewTagsRepository(db *bun.DB) repository.Repository[*Tag] {
	handlers := repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag {
			return &Tag{}
		},
		GetID: func(record *Tag) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Tag, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db         *bun.DB
	users      Users
	posts      Posts
	profiles   repository.Repository[*Profile]
	categories repository.Repository[*Category]
	tags       repository.Repository[*Tag]
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		users:      NewUsersRepository(db),
		posts:      NewPostsRepository(db),
		profiles:   NewProfilesRepository(db),
		categories: NewCategoriesRepository(db),
		tags:       NewTagsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	if m.profiles == nil {
		return errors.New("repository profiles should be initialized")
	}

	if m.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	if m.tags == nil {
		return errors.New("repository tags should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Posts() Posts {
	return m.posts
}

func (m mngr) Profiles() repository.Repository[*Profile] {
	return m.profiles
}

func (m mngr) Categories() repository.Repository[*Category] {
	return m.categories
}

func (m mngr) Tags() repository.Repository[*Tag] {
	return m.tags
}
