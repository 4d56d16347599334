package blog

import (
	"context"

	"github.com/goliatone/go-errors"
)

// IdentityResolver turns inbound credential material into an authenticated
// identity. The identity is rebuilt from the credential store on every call:
// tokens only prove the subject, they never cache role or email.
type IdentityResolver struct {
	store     CredentialStore
	validator TokenValidator
	logger    Logger
}

// NewIdentityResolver returns a resolver backed by the given store and
// token validator.
func NewIdentityResolver(store CredentialStore, validator TokenValidator) *IdentityResolver {
	return &IdentityResolver{
		store:     store,
		validator: validator,
		logger:    defLogger{},
	}
}

func (r *IdentityResolver) WithLogger(logger Logger) *IdentityResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve is the required-auth path: missing or invalid credential material
// is an error. Use it behind endpoints that declare authentication mandatory.
func (r *IdentityResolver) Resolve(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := r.validator.Validate(raw)
	if err != nil {
		if IsTokenExpiredError(err) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, errors.CategoryAuth, "invalid authentication token").
			WithTextCode(TextCodeTokenMalformed).
			WithCode(errors.CodeUnauthorized)
	}

	return r.lookupSubject(ctx, claims.UserID())
}

// ResolveOptional is the optional-auth path: absent or failed credentials
// resolve to the Anonymous identity rather than an error, so open endpoints
// can proceed. A token that verifies but points at a deleted account still
// fails, to keep "bad token" and "deleted account" distinguishable for audit.
func (r *IdentityResolver) ResolveOptional(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Anonymous(), nil
	}

	claims, err := r.validator.Validate(raw)
	if err != nil {
		r.logger.Debug("optional auth token rejected", "error", err)
		return Anonymous(), nil
	}

	return r.lookupSubject(ctx, claims.UserID())
}

// ResolveSubject loads the identity for an already-verified token subject.
// Middleware that validates tokens upstream uses this to finish resolution.
func (r *IdentityResolver) ResolveSubject(ctx context.Context, subjectID string) (Identity, error) {
	if subjectID == "" {
		return nil, ErrSubjectMissing
	}
	return r.lookupSubject(ctx, subjectID)
}

func (r *IdentityResolver) lookupSubject(ctx context.Context, subjectID string) (Identity, error) {
	identity, err := r.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Warn("token verified but subject missing", "subject", subjectID)
			return nil, ErrSubjectMissing
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load token subject")
	}

	if identity == nil || identity.ID() == "" {
		return nil, ErrSubjectMissing
	}

	return identity, nil
}
