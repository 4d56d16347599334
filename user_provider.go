package blog

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserTracker is a store we can use to retrieve users
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider handles users. It implements both IdentityProvider for the
// login path and CredentialStore for per-request identity resolution.
type UserProvider struct {
	store     UserTracker
	Validator func(*User) error
	logger    Logger
}

// MaxLoginAttempts is the maximun number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

var (
	_ IdentityProvider = (*UserProvider)(nil)
	_ CredentialStore  = (*UserProvider)(nil)
)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:     store,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UserProvider) validate(user *User) error {
	if u.Validator != nil {
		return u.Validator(user)
	}
	return defaultValidator(user)
}

// VerifyIdentity will find the user, compare to the password, and return identity
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			// a missing account and a bad password answer identically so
			// callers cannot probe for registered emails
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	//if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		// We have to increment the login_attempts counter and login_attempt_at
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrMismatchedHashAndPassword
	}

	// reset the login_attempts counter and login_attempt_at
	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

// FindByEmail satisfies CredentialStore.
func (u *UserProvider) FindByEmail(ctx context.Context, email string) (Identity, error) {
	return u.FindIdentityByIdentifier(ctx, email)
}

// FindByID satisfies CredentialStore. The role carried by the returned
// identity always reflects storage, never stale token claims.
func (u *UserProvider) FindByID(ctx context.Context, id string) (Identity, error) {
	return u.FindIdentityByIdentifier(ctx, id)
}

// VerifyPassword satisfies CredentialStore.
func (u *UserProvider) VerifyPassword(plain, hash string) error {
	return ComparePasswordAndHash(plain, hash)
}

// CreateUser satisfies CredentialStore. The password hash must already be
// computed; this layer never sees plaintext passwords.
func (u *UserProvider) CreateUser(ctx context.Context, email, username, passwordHash string, role UserRole) (Identity, error) {
	if role == "" {
		role = RoleUser
	}

	if !IsValidRole(role) {
		return nil, errors.New("unknown role for new user", errors.CategoryBadInput).
			WithMetadata(map[string]any{"role": role})
	}

	user, err := u.store.Register(ctx, &User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

// IsOutsideThresholdPeriod reports whether ts is older than the given
// duration string, e.g. "24h".
func IsOutsideThresholdPeriod(ts time.Time, period string) (bool, error) {
	window, err := time.ParseDuration(period)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryBadInput, "invalid threshold period").
			WithMetadata(map[string]any{"period": period})
	}

	return time.Since(ts) > window, nil
}

func defaultValidator(u *User) error {
	switch u.Role {
	case RoleUser, RoleModerator, RoleAdmin:
		return nil
	default:
		return errors.New("user has an unknown or invalid role", errors.CategoryAuth).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": u.Role, "user_id": u.ID.String()})
	}
}
