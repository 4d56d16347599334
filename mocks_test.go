package blog_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-repository-bun"
	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/mock"
)

// TestIdentity is a simple implementation of the Identity interface for testing
type TestIdentity struct {
	id       string
	username string
	email    string
	role     blog.UserRole
}

func (t TestIdentity) ID() string          { return t.id }
func (t TestIdentity) Username() string    { return t.username }
func (t TestIdentity) Email() string       { return t.email }
func (t TestIdentity) Role() blog.UserRole { return t.role }

// MockUserTracker implements blog.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*blog.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*blog.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) Register(ctx context.Context, user *blog.User) (*blog.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*blog.User)
	return created, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *blog.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *blog.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityProvider implements blog.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (blog.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (blog.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

// MockCredentialStore implements blog.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (blog.Identity, error) {
	args := m.Called(ctx, email)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

func (m *MockCredentialStore) FindByID(ctx context.Context, id string) (blog.Identity, error) {
	args := m.Called(ctx, id)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

func (m *MockCredentialStore) VerifyPassword(plain, hash string) error {
	args := m.Called(plain, hash)
	return args.Error(0)
}

func (m *MockCredentialStore) CreateUser(ctx context.Context, email, username, passwordHash string, role blog.UserRole) (blog.Identity, error) {
	args := m.Called(ctx, email, username, passwordHash, role)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

// MockTokenService implements blog.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subjectID string) (string, error) {
	args := m.Called(subjectID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *blog.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (blog.AuthClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(blog.AuthClaims)
	return claims, args.Error(1)
}

// captureSink records activity events so tests can assert on the audit trail
type captureSink struct {
	mu     sync.Mutex
	events []blog.ActivityEvent
}

func (c *captureSink) Record(ctx context.Context, event blog.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureSink) Events() []blog.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]blog.ActivityEvent, len(c.events))
	copy(out, c.events)
	return out
}
