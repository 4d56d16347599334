package blog_test

import (
	"testing"

	"github.com/goliatone/go-errors"
	blog "github.com/inkpress/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardAuthorize(t *testing.T) {
	guard := blog.NewGuard(nil)

	owner := TestIdentity{id: "owner-1", role: blog.RoleUser}
	other := TestIdentity{id: "other-2", role: blog.RoleUser}
	moderator := TestIdentity{id: "mod-3", role: blog.RoleModerator}
	admin := TestIdentity{id: "admin-4", role: blog.RoleAdmin}

	t.Run("anonymous identity is unauthenticated", func(t *testing.T) {
		err := guard.Authorize(blog.Anonymous(), blog.ActionUserMe)
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)

		err = guard.Authorize(nil, blog.ActionUserMe)
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})

	t.Run("any authenticated identity passes open actions", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(owner, blog.ActionUserMe))
		assert.NoError(t, guard.Authorize(owner, blog.ActionPostCreate))
	})

	t.Run("role gated action", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(admin, blog.ActionUserList))
		assert.NoError(t, guard.Authorize(moderator, blog.ActionUserList))

		err := guard.Authorize(owner, blog.ActionUserList)
		require.Error(t, err)
		assertForbidden(t, err)
	})

	t.Run("owner gated action", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(owner, blog.ActionPostUpdate, "owner-1"))

		err := guard.Authorize(other, blog.ActionPostUpdate, "owner-1")
		require.Error(t, err)
		assertForbidden(t, err)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(admin, blog.ActionPostDelete, "owner-1"))
	})

	t.Run("missing owner id denies owner gated action", func(t *testing.T) {
		err := guard.Authorize(owner, blog.ActionPostUpdate)
		require.Error(t, err)
		assertForbidden(t, err)

		err = guard.Authorize(owner, blog.ActionPostUpdate, "")
		require.Error(t, err)
		assertForbidden(t, err)
	})

	t.Run("undeclared action is denied", func(t *testing.T) {
		err := guard.Authorize(admin, "post.publish")
		require.Error(t, err)
		assertForbidden(t, err)
	})

	t.Run("identical inputs yield identical decisions", func(t *testing.T) {
		first := guard.Authorize(other, blog.ActionPostUpdate, "owner-1")
		second := guard.Authorize(other, blog.ActionPostUpdate, "owner-1")
		assert.Equal(t, first == nil, second == nil)
		assert.NoError(t, guard.Authorize(owner, blog.ActionPostUpdate, "owner-1"))
		assert.NoError(t, guard.Authorize(owner, blog.ActionPostUpdate, "owner-1"))
	})
}

func TestGuardCan(t *testing.T) {
	guard := blog.NewGuard(nil)
	user := TestIdentity{id: "u-1", role: blog.RoleUser}

	assert.True(t, guard.Can(user, blog.ActionUserMe))
	assert.True(t, guard.Can(user, blog.ActionUserUpdate, "u-1"))
	assert.False(t, guard.Can(user, blog.ActionUserList))
	assert.False(t, guard.Can(blog.Anonymous(), blog.ActionUserMe))
}

func TestGuardCustomRules(t *testing.T) {
	guard := blog.NewGuard(map[string]blog.AccessRule{
		"report.view": {Roles: []blog.UserRole{blog.RoleAdmin}},
	})

	admin := TestIdentity{id: "a-1", role: blog.RoleAdmin}
	user := TestIdentity{id: "u-1", role: blog.RoleUser}

	assert.NoError(t, guard.Authorize(admin, "report.view"))
	assertForbidden(t, guard.Authorize(user, "report.view"))

	// the default table is not consulted once a custom table is supplied
	assertForbidden(t, guard.Authorize(admin, blog.ActionUserMe))
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	var richErr *errors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, errors.CategoryAuthz, richErr.Category)
	assert.Equal(t, blog.TextCodeForbidden, richErr.TextCode)
	assert.NotErrorIs(t, err, blog.ErrUnauthenticated)
}
