package blog_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/goliatone/go-errors"
	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"unauthenticated", blog.ErrUnauthenticated, http.StatusUnauthorized},
		{"expired token", blog.ErrTokenExpired, http.StatusUnauthorized},
		{"malformed token", blog.ErrTokenMalformed, http.StatusUnauthorized},
		{"subject missing", blog.ErrSubjectMissing, http.StatusUnauthorized},
		{"bad credentials", blog.ErrMismatchedHashAndPassword, http.StatusUnauthorized},
		{"forbidden", blog.ErrForbidden, http.StatusForbidden},
		{"conflict", blog.ErrAlreadyExists, http.StatusConflict},
		{"not found", blog.ErrNotFound, http.StatusNotFound},
		{"bad input", errors.New("nope", errors.CategoryBadInput), http.StatusBadRequest},
		{"validation", errors.New("nope", errors.CategoryValidation), http.StatusBadRequest},
		{"internal", errors.New("boom", errors.CategoryInternal), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, blog.StatusForError(tc.err))
		})
	}

	t.Run("explicit code wins over category", func(t *testing.T) {
		err := errors.New("gone", errors.CategoryInternal).WithCode(http.StatusGone)
		assert.Equal(t, http.StatusGone, blog.StatusForError(err))
	})

	t.Run("forbidden with metadata keeps its status", func(t *testing.T) {
		guard := blog.NewGuard(nil)
		err := guard.Authorize(TestIdentity{id: "u-1", role: blog.RoleUser}, blog.ActionUserList)
		assert.Equal(t, http.StatusForbidden, blog.StatusForError(err))
	})
}
