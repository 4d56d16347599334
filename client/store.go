package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/goliatone/go-errors"
)

// IdentitySnapshot is the locally cached view of the authenticated user. It
// is a convenience for rendering before the server is consulted; the server
// remains authoritative and the snapshot is replaced on every restore.
type IdentitySnapshot struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Credentials couples the bearer token with the identity snapshot taken when
// the token was issued.
type Credentials struct {
	Token string           `json:"token"`
	User  IdentitySnapshot `json:"user"`
}

// TokenStore persists credentials between process runs.
type TokenStore interface {
	Load() (*Credentials, error)
	Save(creds *Credentials) error
	Clear() error
}

// ErrNoCredentials is returned by Load when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials", errors.CategoryNotFound).
	WithTextCode("client_no_credentials")

// FileStore keeps credentials in a JSON file with owner-only permissions.
type FileStore struct {
	path string
}

var _ TokenStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read credentials file")
	}

	creds := &Credentials{}
	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode credentials file")
	}

	if creds.Token == "" {
		return nil, ErrNoCredentials
	}

	return creds, nil
}

func (s *FileStore) Save(creds *Credentials) error {
	if creds == nil || creds.Token == "" {
		return errors.New("refusing to store empty credentials", errors.CategoryBadInput)
	}

	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode credentials")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create credentials dir")
		}
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write credentials file")
	}

	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove credentials file")
	}
	return nil
}

// MemoryStore keeps credentials in process memory. Useful for tests and
// short-lived tools.
type MemoryStore struct {
	creds *Credentials
}

var _ TokenStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Credentials, error) {
	if s.creds == nil {
		return nil, ErrNoCredentials
	}
	copied := *s.creds
	return &copied, nil
}

func (s *MemoryStore) Save(creds *Credentials) error {
	if creds == nil || creds.Token == "" {
		return errors.New("refusing to store empty credentials", errors.CategoryBadInput)
	}
	copied := *creds
	s.creds = &copied
	return nil
}

func (s *MemoryStore) Clear() error {
	s.creds = nil
	return nil
}
