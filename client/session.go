package client

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// WhoAmIFunc asks the server who the given token belongs to. It returns the
// current identity or an error when the token no longer resolves.
type WhoAmIFunc func(ctx context.Context, token string) (*IdentitySnapshot, error)

// Observer receives the identity after every session change. A nil snapshot
// means logged out.
type Observer func(user *IdentitySnapshot)

// Session is the client-side session cell: it owns the current credentials,
// persists them through a TokenStore, and notifies observers on every change.
// All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	store     TokenStore
	creds     *Credentials
	observers map[int]Observer
	nextID    int
}

func NewSession(store TokenStore) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{
		store:     store,
		observers: map[int]Observer{},
	}
}

// Subscribe registers an observer and immediately replays the current state
// to it, so late subscribers never miss the logged-in/logged-out snapshot.
// The returned function unsubscribes.
func (s *Session) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	current := s.snapshotLocked()
	s.mu.Unlock()

	if fn != nil {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// SetCredentials stores a fresh token/identity pair, persists it, and
// notifies observers.
func (s *Session) SetCredentials(creds Credentials) error {
	if creds.Token == "" {
		return errors.New("cannot set empty credentials", errors.CategoryBadInput)
	}

	s.mu.Lock()
	s.creds = &creds
	err := s.store.Save(&creds)
	s.mu.Unlock()

	s.notify()
	return err
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// CurrentUser returns the cached identity snapshot, or nil when logged out.
func (s *Session) CurrentUser() *IdentitySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsAuthenticated reports whether a token is currently held. It says nothing
// about server-side validity; Restore answers that.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Logout clears local state only. No server call is made: the token simply
// stops being presented and ages out server-side.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.creds = nil
	err := s.store.Clear()
	s.mu.Unlock()

	s.notify()
	return err
}

// Restore loads persisted credentials and re-resolves the identity against
// the server. On success observers see the refreshed identity. When the
// stored token no longer resolves the stale state is cleared, leaving the
// session cleanly logged out.
func (s *Session) Restore(ctx context.Context, whoAmI WhoAmIFunc) error {
	s.mu.Lock()
	creds, err := s.store.Load()
	if err != nil {
		s.creds = nil
		s.mu.Unlock()
		s.notify()
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	s.creds = creds
	s.mu.Unlock()

	if whoAmI == nil {
		s.notify()
		return nil
	}

	user, err := whoAmI(ctx, creds.Token)
	if err != nil {
		// expired token, deleted account, revoked secret: all collapse
		// into a clean logged-out state
		s.mu.Lock()
		s.creds = nil
		clearErr := s.store.Clear()
		s.mu.Unlock()
		s.notify()
		if clearErr != nil {
			return clearErr
		}
		return nil
	}

	s.mu.Lock()
	s.creds = &Credentials{Token: creds.Token, User: *user}
	saveErr := s.store.Save(s.creds)
	s.mu.Unlock()

	s.notify()
	return saveErr
}

func (s *Session) snapshotLocked() *IdentitySnapshot {
	if s.creds == nil {
		return nil
	}
	copied := s.creds.User
	return &copied
}

func (s *Session) notify() {
	s.mu.Lock()
	current := s.snapshotLocked()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		if fn != nil {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(current)
	}
}
