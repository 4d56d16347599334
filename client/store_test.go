package client_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/inkpress/go-blog/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() client.Credentials {
	return client.Credentials{
		Token: "test-token",
		User: client.IdentitySnapshot{
			ID:       "user-1",
			Username: "testuser",
			Email:    "test@example.com",
			Role:     "user",
		},
	}
}

func TestFileStore(t *testing.T) {
	t.Run("load before save", func(t *testing.T) {
		store := client.NewFileStore(filepath.Join(t.TempDir(), "creds.json"))

		creds, err := store.Load()
		assert.Nil(t, creds)
		assert.ErrorIs(t, err, client.ErrNoCredentials)
	})

	t.Run("save and load round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "creds.json")
		store := client.NewFileStore(path)

		saved := testCredentials()
		require.NoError(t, store.Save(&saved))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, saved, *loaded)
	})

	t.Run("file is owner only", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("posix permissions only")
		}

		path := filepath.Join(t.TempDir(), "creds.json")
		store := client.NewFileStore(path)

		saved := testCredentials()
		require.NoError(t, store.Save(&saved))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("refuses empty credentials", func(t *testing.T) {
		store := client.NewFileStore(filepath.Join(t.TempDir(), "creds.json"))

		assert.Error(t, store.Save(nil))
		assert.Error(t, store.Save(&client.Credentials{}))
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		store := client.NewFileStore(path)

		saved := testCredentials()
		require.NoError(t, store.Save(&saved))
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, err := store.Load()
		assert.ErrorIs(t, err, client.ErrNoCredentials)
	})

	t.Run("corrupt file fails load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := client.NewFileStore(path)
		_, err := store.Load()
		assert.Error(t, err)
		assert.NotErrorIs(t, err, client.ErrNoCredentials)
	})

	t.Run("stored token must be present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"token":"","user":{"id":"u"}}`), 0o600))

		store := client.NewFileStore(path)
		_, err := store.Load()
		assert.ErrorIs(t, err, client.ErrNoCredentials)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := client.NewMemoryStore()

		_, err := store.Load()
		assert.ErrorIs(t, err, client.ErrNoCredentials)

		saved := testCredentials()
		require.NoError(t, store.Save(&saved))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, saved, *loaded)

		require.NoError(t, store.Clear())
		_, err = store.Load()
		assert.ErrorIs(t, err, client.ErrNoCredentials)
	})

	t.Run("load returns a copy", func(t *testing.T) {
		store := client.NewMemoryStore()
		saved := testCredentials()
		require.NoError(t, store.Save(&saved))

		loaded, err := store.Load()
		require.NoError(t, err)
		loaded.Token = "mutated"

		again, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "test-token", again.Token)
	})
}
