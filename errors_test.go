package blog_test

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("categories", func(t *testing.T) {
		assert.Equal(t, errors.CategoryOperation, blog.ErrMissingSigningKey.Category)
		assert.Equal(t, errors.CategoryAuth, blog.ErrTokenExpired.Category)
		assert.Equal(t, errors.CategoryAuth, blog.ErrTokenMalformed.Category)
		assert.Equal(t, errors.CategoryAuth, blog.ErrSubjectMissing.Category)
		assert.Equal(t, errors.CategoryAuth, blog.ErrUnauthenticated.Category)
		assert.Equal(t, errors.CategoryAuthz, blog.ErrForbidden.Category)
		assert.Equal(t, errors.CategoryConflict, blog.ErrAlreadyExists.Category)
		assert.Equal(t, errors.CategoryNotFound, blog.ErrNotFound.Category)
	})

	t.Run("unauthenticated and forbidden stay distinct", func(t *testing.T) {
		assert.NotEqual(t, blog.ErrUnauthenticated.Category, blog.ErrForbidden.Category)
		assert.NotEqual(t, blog.ErrUnauthenticated.TextCode, blog.ErrForbidden.TextCode)
		assert.Equal(t, errors.CodeUnauthorized, blog.ErrUnauthenticated.Code)
		assert.Equal(t, errors.CodeForbidden, blog.ErrForbidden.Code)
	})

	t.Run("expired and malformed stay distinct", func(t *testing.T) {
		assert.NotEqual(t, blog.ErrTokenExpired.TextCode, blog.ErrTokenMalformed.TextCode)
		assert.NotEqual(t, blog.ErrTokenExpired.TextCode, blog.ErrSubjectMissing.TextCode)
	})

	t.Run("bad credentials message does not leak which input failed", func(t *testing.T) {
		msg := blog.ErrMismatchedHashAndPassword.Message
		assert.NotContains(t, msg, "hash")
		assert.NotContains(t, msg, "not found")
	})
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, blog.IsTokenExpiredError(nil))
	assert.True(t, blog.IsTokenExpiredError(blog.ErrTokenExpired))
	assert.True(t, blog.IsTokenExpiredError(fmt.Errorf("parse: token is expired")))
	assert.False(t, blog.IsTokenExpiredError(blog.ErrTokenMalformed))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, blog.IsMalformedError(nil))
	assert.True(t, blog.IsMalformedError(blog.ErrTokenMalformed))
	assert.True(t, blog.IsMalformedError(fmt.Errorf("token is malformed: bad segments")))
	assert.True(t, blog.IsMalformedError(fmt.Errorf("missing or malformed JWT")))
	assert.False(t, blog.IsMalformedError(blog.ErrTokenExpired))
}

func TestIsConflictError(t *testing.T) {
	assert.False(t, blog.IsConflictError(nil))
	assert.True(t, blog.IsConflictError(blog.ErrAlreadyExists))
	assert.True(t, blog.IsConflictError(fmt.Errorf("UNIQUE constraint failed: users.email")))
	assert.True(t, blog.IsConflictError(fmt.Errorf(`duplicate key value violates unique constraint "users_email_key"`)))
	assert.False(t, blog.IsConflictError(fmt.Errorf("connection reset")))
}

func TestErrorCloneCarriesMetadata(t *testing.T) {
	clone := blog.ErrAlreadyExists.Clone()
	require.NotNil(t, clone)

	withMeta := clone.WithMetadata(map[string]any{"field": "email"})
	assert.Equal(t, "email", withMeta.Metadata["field"])

	// the shared sentinel must not pick up per-call metadata
	assert.NotContains(t, blog.ErrAlreadyExists.Metadata, "field")
}
