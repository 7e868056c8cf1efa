// Package routes holds the static route table of the admin front-end and
// the classifier that labels each route for the navigation guard. The table
// is declared once at startup and treated as immutable configuration; path
// prefixes and well-known route names are data, never hardcoded into guard
// logic.
package routes

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/taita-blog/admin-gateway/models"
)

// Descriptor declares one route of the admin front-end.
type Descriptor struct {
	Name         string      `toml:"name" validate:"required"`
	Path         string      `toml:"path" validate:"required,startswith=/"`
	RequiresAuth bool        `toml:"requires_auth"`
	RequiredRole models.Role `toml:"required_role,omitempty"`
}

// WellKnown names the routes the guard redirects to. Each must exist in the
// table.
type WellKnown struct {
	// Login receives unauthenticated navigations to protected routes.
	Login string `toml:"login" validate:"required"`
	// Landing is the default authenticated view (role-mismatch fallback).
	Landing string `toml:"landing" validate:"required"`
	// TenantSelection is where tenant-scoped users pick a blog.
	TenantSelection string `toml:"tenant_selection" validate:"required"`
	// SuperAdminSelection is where SUPER_ADMIN users scope into a blog.
	SuperAdminSelection string `toml:"super_admin_selection" validate:"required"`
}

// Table is the ordered, immutable-after-startup route list.
type Table struct {
	Routes    []Descriptor `toml:"routes" validate:"required,min=1,dive"`
	WellKnown WellKnown    `toml:"well_known"`

	byName map[string]*Descriptor
}

// DefaultTable returns the built-in route table mirroring the CMS route
// tree: a public shell (landing, login, signup, password recovery, about,
// menu), the super-admin blog listing, and the blog-scoped CMS views.
func DefaultTable() *Table {
	t := &Table{
		Routes: []Descriptor{
			{Name: "home", Path: "/"},
			{Name: "login", Path: "/login"},
			{Name: "signup", Path: "/signup"},
			{Name: "forgot-password", Path: "/forgot-password"},
			{Name: "reset-password", Path: "/reset-password"},
			{Name: "about", Path: "/about"},
			{Name: "menu", Path: "/menu"},
			{Name: "blogs", Path: "/blogs", RequiresAuth: true},
			{Name: "super-admin-blogs", Path: "/super-admin/blogs", RequiresAuth: true, RequiredRole: models.RoleSuperAdmin},
			{Name: "dashboard", Path: "/cms/dashboard", RequiresAuth: true},
			{Name: "categories", Path: "/cms/categories", RequiresAuth: true},
			{Name: "posts", Path: "/cms/posts", RequiresAuth: true},
			{Name: "post-form", Path: "/cms/post-form", RequiresAuth: true},
			{Name: "pages", Path: "/cms/pages", RequiresAuth: true},
			{Name: "page-form", Path: "/cms/page-form", RequiresAuth: true},
			{Name: "media", Path: "/cms/media", RequiresAuth: true},
			{Name: "settings", Path: "/cms/settings", RequiresAuth: true},
			{Name: "users", Path: "/cms/users", RequiresAuth: true},
			{Name: "edit-user", Path: "/cms/user/edit/:uuid", RequiresAuth: true},
			{Name: "series", Path: "/cms/series", RequiresAuth: true},
			{Name: "series-form", Path: "/cms/series-form", RequiresAuth: true},
			{Name: "comments", Path: "/cms/comments", RequiresAuth: true},
		},
		WellKnown: WellKnown{
			Login:               "login",
			Landing:             "dashboard",
			TenantSelection:     "blogs",
			SuperAdminSelection: "super-admin-blogs",
		},
	}
	if err := t.Validate(); err != nil {
		// The built-in table is a compile-time artifact; a validation
		// failure here is a programming error.
		panic(fmt.Sprintf("routes: invalid default table: %v", err))
	}
	return t
}

// LoadFile decodes a route table from a TOML file and validates it.
func LoadFile(path string) (*Table, error) {
	var t Table
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("failed to decode route table %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid route table %s: %w", path, err)
	}
	return &t, nil
}

// Validate checks structural constraints, uniqueness of route names, and
// that every well-known route is declared. It also builds the name index.
func (t *Table) Validate() error {
	v := validator.New()
	if err := v.Struct(t); err != nil {
		return err
	}

	byName := make(map[string]*Descriptor, len(t.Routes))
	for i := range t.Routes {
		d := &t.Routes[i]
		if _, dup := byName[d.Name]; dup {
			return fmt.Errorf("duplicate route name %q", d.Name)
		}
		byName[d.Name] = d
	}

	for _, wk := range []struct{ field, name string }{
		{"login", t.WellKnown.Login},
		{"landing", t.WellKnown.Landing},
		{"tenant_selection", t.WellKnown.TenantSelection},
		{"super_admin_selection", t.WellKnown.SuperAdminSelection},
	} {
		if _, ok := byName[wk.name]; !ok {
			return fmt.Errorf("well-known route %s=%q is not declared", wk.field, wk.name)
		}
	}

	t.byName = byName
	return nil
}

// Lookup returns the descriptor for a route name, or nil when undeclared.
func (t *Table) Lookup(name string) *Descriptor {
	return t.byName[name]
}

// SelectionRoute returns the tenant-selection route for a role.
func (t *Table) SelectionRoute(role models.Role) string {
	if role.IsSuperAdmin() {
		return t.WellKnown.SuperAdminSelection
	}
	return t.WellKnown.TenantSelection
}
