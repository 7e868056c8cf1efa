package models

import "encoding/json"

// Role represents the role of a CMS user. Roles other than SUPER_ADMIN are
// tenant-scoped: they must end up with exactly one active blog before any
// blog-scoped route is reachable.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleAuthor     Role = "AUTHOR"
)

// ParseRole normalizes a role string coming from the upstream API. Unknown
// roles are treated as ADMIN-equivalent for the navigation flow.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleAuthor:
		return Role(s)
	default:
		return RoleAdmin
	}
}

// IsSuperAdmin returns true for the cross-tenant SUPER_ADMIN role.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// TenantScoped returns true for roles that operate inside exactly one blog.
func (r Role) TenantScoped() bool {
	return !r.IsSuperAdmin()
}

// User represents the authenticated CMS user as persisted under the
// "authUser" session key.
type User struct {
	ID    int64  `json:"id"`
	UUID  string `json:"uuid,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// UnmarshalUser decodes the JSON stored under the "authUser" session key.
// Any decode failure yields a nil user: the guard treats corrupt session
// state as "no current user".
func UnmarshalUser(raw string) *User {
	if raw == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	u.Role = ParseRole(string(u.Role))
	return &u
}

// MarshalUser encodes a user for the "authUser" session key.
func MarshalUser(u *User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
