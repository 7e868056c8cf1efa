package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleSuperAdmin, ParseRole("SUPER_ADMIN"))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleEditor, ParseRole("EDITOR"))
	assert.Equal(t, RoleAuthor, ParseRole("AUTHOR"))

	// Unknown roles never gain elevated access.
	assert.Equal(t, RoleAdmin, ParseRole("ROOT"))
	assert.Equal(t, RoleAdmin, ParseRole(""))
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, RoleSuperAdmin.IsSuperAdmin())
	assert.False(t, RoleSuperAdmin.TenantScoped())

	for _, r := range []Role{RoleAdmin, RoleEditor, RoleAuthor} {
		assert.False(t, r.IsSuperAdmin(), string(r))
		assert.True(t, r.TenantScoped(), string(r))
	}
}

func TestUnmarshalUser(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		raw, err := MarshalUser(&User{ID: 7, Email: "a@b.c", Role: RoleEditor})
		require.NoError(t, err)

		u := UnmarshalUser(raw)
		require.NotNil(t, u)
		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, RoleEditor, u.Role)
	})

	t.Run("empty input is no user", func(t *testing.T) {
		assert.Nil(t, UnmarshalUser(""))
	})

	t.Run("corrupt input is no user", func(t *testing.T) {
		assert.Nil(t, UnmarshalUser("{oops"))
	})

	t.Run("unknown role normalizes", func(t *testing.T) {
		u := UnmarshalUser(`{"id":1,"role":"OWNER"}`)
		require.NotNil(t, u)
		assert.Equal(t, RoleAdmin, u.Role)
	})
}
