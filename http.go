package blog

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/inkpress/go-blog/middleware/jwtware"
)

// IdentityContextKey is the router locals key holding the resolved Identity.
const IdentityContextKey = "identity"

// RouteAuthenticator wires token validation and identity resolution into
// router middleware for a bearer-token JSON API.
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	resolver     *IdentityResolver
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, resolver *IdentityResolver, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil || resolver == nil {
		return nil, errors.New("http authenticator requires an authenticator and resolver", errors.CategoryBadInput)
	}

	a := &RouteAuthenticator{
		cfg:      cfg,
		auth:     auther,
		resolver: resolver,
		Logger:   defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// ProtectedRoute returns middleware that requires a valid bearer token and a
// live account behind it. The resolved identity lands in locals under
// IdentityContextKey and in the request context.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.MakeAuthErrorHandler(false)
	}
	return jwtware.New(a.middlewareConfig(false, errorHandler))
}

// OptionalRoute returns middleware that resolves an identity when a valid
// token is present but lets anonymous requests through. A token that verifies
// against a deleted account still fails: that case is audit-relevant and must
// not silently downgrade to anonymous.
func (a *RouteAuthenticator) OptionalRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.MakeAuthErrorHandler(true)
	}
	return jwtware.New(a.middlewareConfig(true, errorHandler))
}

func (a *RouteAuthenticator) middlewareConfig(optional bool, errorHandler func(router.Context, error) error) jwtware.Config {
	return jwtware.Config{
		ErrorHandler: errorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(a.cfg.GetSigningKey()),
			JWTAlg: a.cfg.GetSigningMethod(),
		},
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		Optional:       optional,
		TokenValidator: validatorAdapter{a.auth.TokenService()},
		ValidationListeners: []jwtware.ValidationListener{
			a.resolveIdentityListener(),
		},
	}
}

// resolveIdentityListener re-reads the account behind the token subject on
// every request, so role changes and deletions take effect immediately.
func (a *RouteAuthenticator) resolveIdentityListener() jwtware.ValidationListener {
	return func(ctx router.Context, claims jwtware.AuthClaims) error {
		identity, err := a.resolver.ResolveSubject(ctx.Context(), claims.UserID())
		if err != nil {
			return err
		}

		ctx.Locals(IdentityContextKey, identity)
		ctx.SetContext(WithIdentityContext(ctx.Context(), identity))
		return nil
	}
}

// MakeAuthErrorHandler normalizes middleware failures into the auth error
// taxonomy before rendering. When optional is set, failures to present a
// token proceed anonymously; failures of a presented token still error.
func (a *RouteAuthenticator) MakeAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if errors.Is(err, ErrSubjectMissing) {
			richErr = ErrSubjectMissing
		} else if IsMalformedError(err) || err.Error() == jwtware.ErrJWTMissingOrMalformed.Error() {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional && errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return RespondError(c, richErr)
}

// StatusForError maps the error taxonomy onto HTTP status codes. The mapping
// keeps Unauthenticated (no usable credential) and Forbidden (valid identity,
// insufficient rights) distinct.
func StatusForError(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		if richErr.Code >= 400 && richErr.Code < 600 {
			return richErr.Code
		}

		switch richErr.Category {
		case errors.CategoryAuth:
			return http.StatusUnauthorized
		case errors.CategoryAuthz:
			return http.StatusForbidden
		case errors.CategoryConflict:
			return http.StatusConflict
		case errors.CategoryNotFound:
			return http.StatusNotFound
		case errors.CategoryValidation, errors.CategoryBadInput:
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}

	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// RespondError renders err as a JSON error envelope with the mapped status.
func RespondError(ctx router.Context, err error) error {
	status := StatusForError(err)

	body := map[string]any{
		"message": "An unexpected error occurred",
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		body["message"] = richErr.Message
		if richErr.TextCode != "" {
			body["text_code"] = richErr.TextCode
		}
	} else if status < http.StatusInternalServerError {
		body["message"] = err.Error()
	}

	return ctx.JSON(status, map[string]any{
		"error": body,
	})
}

// validatorAdapter bridges the root TokenService to the middleware's local
// TokenValidator mirror.
type validatorAdapter struct {
	service TokenService
}

func (v validatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
