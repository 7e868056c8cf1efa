package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taita-blog/admin-gateway/models"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	t.Run("declares all well-known routes", func(t *testing.T) {
		for _, name := range []string{
			table.WellKnown.Login,
			table.WellKnown.Landing,
			table.WellKnown.TenantSelection,
			table.WellKnown.SuperAdminSelection,
		} {
			assert.NotNil(t, table.Lookup(name), "well-known route %s", name)
		}
	})

	t.Run("lookup returns nil for undeclared names", func(t *testing.T) {
		assert.Nil(t, table.Lookup("not-a-route"))
	})

	t.Run("super admin listing is role restricted", func(t *testing.T) {
		d := table.Lookup("super-admin-blogs")
		require.NotNil(t, d)
		assert.True(t, d.RequiresAuth)
		assert.Equal(t, models.RoleSuperAdmin, d.RequiredRole)
	})

	t.Run("cms views require auth without role restriction", func(t *testing.T) {
		for _, name := range []string{"dashboard", "posts", "settings", "comments"} {
			d := table.Lookup(name)
			require.NotNil(t, d, name)
			assert.True(t, d.RequiresAuth, name)
			assert.Empty(t, d.RequiredRole, name)
		}
	})
}

func TestSelectionRoute(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, "super-admin-blogs", table.SelectionRoute(models.RoleSuperAdmin))
	assert.Equal(t, "blogs", table.SelectionRoute(models.RoleAdmin))
	assert.Equal(t, "blogs", table.SelectionRoute(models.RoleEditor))
	assert.Equal(t, "blogs", table.SelectionRoute(models.RoleAuthor))
}

func writeRouteFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("loads a valid table", func(t *testing.T) {
		path := writeRouteFile(t, `
[[routes]]
name = "login"
path = "/login"

[[routes]]
name = "dashboard"
path = "/cms/dashboard"
requires_auth = true

[[routes]]
name = "blogs"
path = "/blogs"
requires_auth = true

[[routes]]
name = "super-admin-blogs"
path = "/super-admin/blogs"
requires_auth = true
required_role = "SUPER_ADMIN"

[well_known]
login = "login"
landing = "dashboard"
tenant_selection = "blogs"
super_admin_selection = "super-admin-blogs"
`)

		table, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, table.Routes, 4)

		d := table.Lookup("super-admin-blogs")
		require.NotNil(t, d)
		assert.Equal(t, models.RoleSuperAdmin, d.RequiredRole)
	})

	t.Run("rejects duplicate route names", func(t *testing.T) {
		path := writeRouteFile(t, `
[[routes]]
name = "login"
path = "/login"

[[routes]]
name = "login"
path = "/signin"

[well_known]
login = "login"
landing = "login"
tenant_selection = "login"
super_admin_selection = "login"
`)

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate route name")
	})

	t.Run("rejects undeclared well-known routes", func(t *testing.T) {
		path := writeRouteFile(t, `
[[routes]]
name = "login"
path = "/login"

[well_known]
login = "login"
landing = "dashboard"
tenant_selection = "login"
super_admin_selection = "login"
`)

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "well-known route")
	})

	t.Run("rejects paths missing the leading slash", func(t *testing.T) {
		path := writeRouteFile(t, `
[[routes]]
name = "login"
path = "login"

[well_known]
login = "login"
landing = "login"
tenant_selection = "login"
super_admin_selection = "login"
`)

		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})
}
