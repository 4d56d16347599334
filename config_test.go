package blog_test

import (
	"testing"
	"time"

	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("missing secret refuses to configure", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		cfg, err := blog.NewConfigFromEnv()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, blog.ErrMissingSigningKey)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_ISSUER", "")
		t.Setenv("JWT_AUDIENCE", "")
		t.Setenv("JWT_TOKEN_EXPIRATION", "")
		t.Setenv("JWT_SECRET_PREVIOUS", "")

		cfg, err := blog.NewConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "test-secret", cfg.GetSigningKey())
		assert.Equal(t, "HS256", cfg.GetSigningMethod())
		assert.Equal(t, "user", cfg.GetContextKey())
		assert.Equal(t, blog.DefaultTokenExpiration, cfg.GetTokenExpiration())
		assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
		assert.Equal(t, "Bearer", cfg.GetAuthScheme())
		assert.Empty(t, cfg.GetIssuer())
		assert.Empty(t, cfg.GetAudience())
		assert.Empty(t, cfg.GetPreviousSigningKeys())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_ISSUER", "blog-api")
		t.Setenv("JWT_AUDIENCE", "web, mobile ,")
		t.Setenv("JWT_TOKEN_EXPIRATION", "12h")
		t.Setenv("JWT_SECRET_PREVIOUS", "old-secret, older-secret ,")

		cfg, err := blog.NewConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "blog-api", cfg.GetIssuer())
		assert.Equal(t, []string{"web", "mobile"}, cfg.GetAudience())
		assert.Equal(t, 12*time.Hour, cfg.GetTokenExpiration())
		assert.Equal(t, []string{"old-secret", "older-secret"}, cfg.GetPreviousSigningKeys())
	})

	t.Run("invalid expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_TOKEN_EXPIRATION", "twelve hours")

		cfg, err := blog.NewConfigFromEnv()
		assert.Nil(t, cfg)
		assert.Error(t, err)
	})
}
