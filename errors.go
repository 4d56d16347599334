package blog

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingSigningKey = "auth_missing_signing_key"
	TextCodeTokenExpired      = "auth_token_expired"
	TextCodeTokenMalformed    = "auth_token_malformed"
	TextCodeSubjectMissing    = "auth_token_subject_missing"
	TextCodeUnauthenticated   = "auth_unauthenticated"
	TextCodeForbidden         = "auth_forbidden"
	TextCodeBadCredentials    = "auth_bad_credentials"
	TextCodeTooManyAttempts   = "auth_too_many_attempts"
	TextCodeAlreadyExists     = "blog_already_exists"
	TextCodeNotFound          = "blog_not_found"
)

// ErrMissingSigningKey is returned when the token service is built without a
// signing secret. It is a fatal configuration error: callers are expected to
// fail startup rather than serve requests that cannot be authenticated.
var ErrMissingSigningKey = errors.New("signing key is not configured", errors.CategoryOperation).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned when a token's signature is valid but its
// expiry has passed.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or shape
// validation.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrSubjectMissing is returned when a token verifies but its subject no
// longer exists in the credential store. Kept distinct from ErrTokenMalformed
// so audit trails can tell a deleted account from a bad token.
var ErrSubjectMissing = errors.New("token valid but subject missing", errors.CategoryAuth).
	WithTextCode(TextCodeSubjectMissing).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when an operation requires an identity and
// none could be resolved.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a resolved identity lacks the rights for the
// requested operation.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrMismatchedHashAndPassword is the generic bad-credentials error for both
// unknown accounts and wrong passwords, so login responses do not leak which
// of the two failed.
var ErrMismatchedHashAndPassword = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is inside its login
// cooldown window.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(errors.CodeUnauthorized)

// ErrAlreadyExists is returned on email/username/slug uniqueness conflicts.
var ErrAlreadyExists = errors.New("record already exists", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyExists).
	WithCode(errors.CodeConflict)

// ErrNotFound is returned when a referenced resource is absent.
var ErrNotFound = errors.New("record not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when a value that must be present is empty.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports whether err represents a uniqueness conflict,
// either one of ours or one bubbled up from the database driver.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
