package blog

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a resolved principal. It is recomputed
// from the request credential on every request and immutable afterwards.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() UserRole
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Impersonate(ctx context.Context, identifier string) (*AuthPayload, error)
	TokenService() TokenService
}

// AuthPayload is the issuance result handed back to clients from login and
// registration operations.
type AuthPayload struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// IdentityProvider ensures we have a store to retrieve auth identities.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// CredentialStore is the external collaborator contract the core consumes
// for credential lookups and account creation. The store owns uniqueness
// constraints on email and username; violations surface as ErrAlreadyExists.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	VerifyPassword(plain, hash string) error
	CreateUser(ctx context.Context, email, username, passwordHash string, role UserRole) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type anonymous struct{}

func (anonymous) ID() string       { return "" }
func (anonymous) Username() string { return "" }
func (anonymous) Email() string    { return "" }
func (anonymous) Role() UserRole   { return "" }

// Anonymous is the absence of a resolved identity. It is only valid for
// operations that explicitly permit unauthenticated access.
func Anonymous() Identity {
	return anonymous{}
}

// IsAnonymous reports whether the identity carries no principal.
func IsAnonymous(identity Identity) bool {
	if identity == nil {
		return true
	}
	return identity.ID() == ""
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BLOG "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] BLOG "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BLOG "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BLOG "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
