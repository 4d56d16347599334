package blog_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, expiration time.Duration) blog.TokenService {
	t.Helper()
	svc, err := blog.NewTokenService(
		[]byte("test-signing-key"),
		expiration,
		"test-issuer",
		[]string{"test:audience"},
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("missing signing key is a configuration error", func(t *testing.T) {
		svc, err := blog.NewTokenService(nil, time.Hour, "iss", nil, nil)

		assert.Nil(t, svc)
		require.Error(t, err)
		assert.ErrorIs(t, err, blog.ErrMissingSigningKey)
	})

	t.Run("zero expiration falls back to the default", func(t *testing.T) {
		svc := newTestTokenService(t, 0)

		token, err := svc.Issue(uuid.NewString())
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)

		expected := time.Now().Add(blog.DefaultTokenExpiration)
		assert.WithinDuration(t, expected, claims.Expires(), time.Minute)
	})
}

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	t.Run("round trip", func(t *testing.T) {
		subject := uuid.NewString()

		token, err := svc.Issue(subject)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, subject, claims.Subject())
		assert.Equal(t, subject, claims.UserID())
		assert.WithinDuration(t, time.Now(), claims.IssuedAt(), time.Minute)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), time.Minute)
	})

	t.Run("issuer and audience are stamped", func(t *testing.T) {
		token, err := svc.Issue(uuid.NewString())
		require.NoError(t, err)

		parsed, err := jwt.ParseWithClaims(token, &blog.JWTClaims{}, func(t *jwt.Token) (any, error) {
			return []byte("test-signing-key"), nil
		})
		require.NoError(t, err)

		claims, ok := parsed.Claims.(*blog.JWTClaims)
		require.True(t, ok)
		assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
		assert.Contains(t, claims.RegisteredClaims.Audience, "test:audience")
		assert.NotEmpty(t, claims.RegisteredClaims.ID)
	})

	t.Run("empty subject rejected", func(t *testing.T) {
		token, err := svc.Issue("")
		assert.Error(t, err)
		assert.Empty(t, token)
	})
}

func TestTokenServiceValidateFailures(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	t.Run("expired token is distinguishable", func(t *testing.T) {
		now := time.Now()
		claims := &blog.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   uuid.NewString(),
				Audience:  jwt.ClaimStrings{"test:audience"},
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			},
		}

		token, err := svc.SignClaims(claims)
		require.NoError(t, err)

		parsed, err := svc.Validate(token)
		assert.Nil(t, parsed)
		require.Error(t, err)
		assert.ErrorIs(t, err, blog.ErrTokenExpired)
		assert.True(t, blog.IsTokenExpiredError(err))
		assert.False(t, blog.IsMalformedError(err))
	})

	t.Run("wrong key is malformed, not expired", func(t *testing.T) {
		other, err := blog.NewTokenService([]byte("another-key"), time.Hour, "test-issuer", []string{"test:audience"}, nil)
		require.NoError(t, err)

		token, err := other.Issue(uuid.NewString())
		require.NoError(t, err)

		parsed, err := svc.Validate(token)
		assert.Nil(t, parsed)
		require.Error(t, err)
		assert.False(t, blog.IsTokenExpiredError(err))
		assert.True(t, blog.IsMalformedError(err))
	})

	t.Run("garbage token is malformed", func(t *testing.T) {
		parsed, err := svc.Validate("not-a-jwt")
		assert.Nil(t, parsed)
		require.Error(t, err)
		assert.True(t, blog.IsMalformedError(err))
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		other, err := blog.NewTokenService([]byte("test-signing-key"), time.Hour, "other-issuer", []string{"test:audience"}, nil)
		require.NoError(t, err)

		token, err := other.Issue(uuid.NewString())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		require.Error(t, err)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, blog.TextCodeTokenMalformed, richErr.TextCode)
	})

	t.Run("unexpected signing algorithm rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer:  "test-issuer",
			Subject: uuid.NewString(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})
}
