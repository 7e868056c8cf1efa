package routes

import "github.com/taita-blog/admin-gateway/models"

// Class labels a route for the navigation guard.
type Class int

const (
	// Public routes are reachable regardless of session state.
	Public Class = iota
	// AuthRequired routes need a current user.
	AuthRequired
	// AuthRequiredWithRole routes additionally need a specific role.
	AuthRequiredWithRole
)

// Classification carries the class and, for role-restricted routes, the
// required role.
type Classification struct {
	Class        Class
	RequiredRole models.Role
}

// Classify labels a route descriptor. It is a pure function over static
// data: no side effects, no failure modes. A nil descriptor (undeclared
// route name) classifies as auth-required, failing closed toward login.
func Classify(d *Descriptor) Classification {
	switch {
	case d == nil:
		return Classification{Class: AuthRequired}
	case !d.RequiresAuth:
		return Classification{Class: Public}
	case d.RequiredRole != "":
		return Classification{Class: AuthRequiredWithRole, RequiredRole: d.RequiredRole}
	default:
		return Classification{Class: AuthRequired}
	}
}
