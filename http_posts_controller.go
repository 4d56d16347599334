package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// PostsController exposes the blog content endpoints. Every mutating handler
// fetches the target post first and consults the guard with the post's author
// before touching storage.
type PostsController struct {
	Logger       Logger
	Repo         RepositoryManager
	Guard        *Guard
	HTTPAuth     *RouteAuthenticator
	ErrorHandler func(c router.Context, err error) error
}

func NewPostsController(repo RepositoryManager, guard *Guard, httpAuth *RouteAuthenticator) *PostsController {
	if guard == nil {
		guard = NewGuard(nil)
	}

	return &PostsController{
		Logger:       defLogger{},
		Repo:         repo,
		Guard:        guard,
		HTTPAuth:     httpAuth,
		ErrorHandler: RespondError,
	}
}

func (p *PostsController) WithLogger(logger Logger) *PostsController {
	if logger != nil {
		p.Logger = logger
	}
	return p
}

// RegisterRoutes mounts the post endpoints. Reads are open with optional
// identity; writes require authentication.
func (p *PostsController) RegisterRoutes(group RouteRegistrar) {
	optional := p.HTTPAuth.OptionalRoute(nil)
	protected := p.HTTPAuth.ProtectedRoute(nil)

	group.Get("/posts", p.List, optional)
	group.Get("/posts/:slug", p.Show, optional)
	group.Post("/posts", p.Create, protected)
	group.Put("/posts/:id", p.Update, protected)
	group.Delete("/posts/:id", p.Delete, protected)
	group.Get("/users", p.ListUsers, protected)
}

func (p *PostsController) List(ctx router.Context) error {
	limit := ctx.QueryInt("limit", 25)
	offset := ctx.QueryInt("offset", 0)

	records, err := p.Repo.Posts().ListPublished(ctx.Context(), limit, offset)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"posts": records,
	})
}

func (p *PostsController) Show(ctx router.Context) error {
	slug := ctx.Param("slug")

	record, err := p.Repo.Posts().GetBySlug(ctx.Context(), slug)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	identity := p.currentIdentity(ctx)

	if !record.Published {
		// drafts are only visible to their author or an admin
		if err := p.Guard.Authorize(identity, ActionPostUpdate, record.AuthorID.String()); err != nil {
			return p.ErrorHandler(ctx, err)
		}
	} else {
		// view counting is best effort: a failed increment never breaks
		// the read path
		if err := p.Repo.Posts().IncrementViews(ctx.Context(), record.ID); err != nil {
			p.Logger.Debug("failed to increment post views", "post", record.ID, "error", err)
		}
	}

	return ctx.JSON(router.StatusOK, record)
}

// PostPayload is the create/update body.
type PostPayload struct {
	Title     string `form:"title" json:"title"`
	Slug      string `form:"slug" json:"slug"`
	Content   string `form:"content" json:"content"`
	Excerpt   string `form:"excerpt" json:"excerpt"`
	Published bool   `form:"published" json:"published"`
}

// Validate will run validation rules
func (r PostPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Slug, validation.Length(1, 300)),
		validation.Field(&r.Content, validation.Required),
	)
}

func (p *PostsController) Create(ctx router.Context) error {
	identity := p.currentIdentity(ctx)
	if err := p.Guard.Authorize(identity, ActionPostCreate); err != nil {
		return p.ErrorHandler(ctx, err)
	}

	payload := new(PostPayload)
	if err := ctx.Bind(payload); err != nil {
		return p.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse post payload"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"message":    "Invalid post payload",
				"validation": FormatValidationErrorToMap(err),
			},
		})
	}

	authorID, err := uuid.Parse(identity.ID())
	if err != nil {
		return p.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryInternal, "identity has a malformed id"))
	}

	record := &Post{
		AuthorID:  authorID,
		Title:     payload.Title,
		Slug:      payload.Slug,
		Content:   payload.Content,
		Excerpt:   payload.Excerpt,
		Published: payload.Published,
	}

	record, err = p.Repo.Posts().Create(ctx.Context(), record)
	if err != nil {
		if IsConflictError(err) {
			return p.ErrorHandler(ctx, ErrAlreadyExists.Clone().WithMetadata(map[string]any{
				"field": "slug",
			}))
		}
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, record)
}

func (p *PostsController) Update(ctx router.Context) error {
	record, err := p.fetchPost(ctx)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	identity := p.currentIdentity(ctx)
	if err := p.Guard.Authorize(identity, ActionPostUpdate, record.AuthorID.String()); err != nil {
		return p.ErrorHandler(ctx, err)
	}

	payload := new(PostPayload)
	if err := ctx.Bind(payload); err != nil {
		return p.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse post payload"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"message":    "Invalid post payload",
				"validation": FormatValidationErrorToMap(err),
			},
		})
	}

	record.Title = payload.Title
	record.Content = payload.Content
	record.Excerpt = payload.Excerpt
	record.Published = payload.Published
	if payload.Slug != "" {
		record.Slug = payload.Slug
	}

	record, err = p.Repo.Posts().Update(ctx.Context(), record)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

func (p *PostsController) Delete(ctx router.Context) error {
	record, err := p.fetchPost(ctx)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	identity := p.currentIdentity(ctx)
	if err := p.Guard.Authorize(identity, ActionPostDelete, record.AuthorID.String()); err != nil {
		return p.ErrorHandler(ctx, err)
	}

	if err := p.Repo.Posts().Remove(ctx.Context(), record); err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"deleted": record.ID,
	})
}

// ListUsers is role-gated: only admins and moderators may enumerate accounts.
func (p *PostsController) ListUsers(ctx router.Context) error {
	identity := p.currentIdentity(ctx)
	if err := p.Guard.Authorize(identity, ActionUserList); err != nil {
		return p.ErrorHandler(ctx, err)
	}

	users, err := p.Repo.Users().ListPage(ctx.Context(), ctx.QueryInt("limit", 25), ctx.QueryInt("offset", 0))
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"users": users,
	})
}

func (p *PostsController) fetchPost(ctx router.Context) (*Post, error) {
	raw := ctx.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, goerrors.New("invalid post id", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"id": raw})
	}

	return p.Repo.Posts().GetByID(ctx.Context(), id.String())
}

func (p *PostsController) currentIdentity(ctx router.Context) Identity {
	identity, ok := GetRouterIdentity(ctx, IdentityContextKey)
	if !ok || identity == nil {
		return Anonymous()
	}
	return identity
}
