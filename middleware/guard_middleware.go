package middleware

import (
	"net/http"

	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/routes"
	"github.com/taita-blog/admin-gateway/services/guard"
	"github.com/taita-blog/admin-gateway/utils"
	"go.uber.org/zap"
)

// GuardMiddleware enforces navigation decisions on routes the gateway
// serves directly. This should be called after session attachment.
type GuardMiddleware struct {
	guard  *guard.Guard
	table  *routes.Table
	logger *zap.Logger
}

// NewGuardMiddleware creates a new GuardMiddleware.
func NewGuardMiddleware(g *guard.Guard, table *routes.Table, logger *zap.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		guard:  g,
		table:  table,
		logger: logger,
	}
}

// Require runs the navigation guard against the named route before serving
// the wrapped handler.
func (m *GuardMiddleware) Require(routeName string) func(http.Handler) http.Handler {
	return m.require(func(*http.Request, *models.User) string {
		return routeName
	})
}

// RequireSelection guards a handler behind the requester's own tenant
// selection route: blogs for tenant-scoped roles, the super-admin listing
// for SUPER_ADMIN.
func (m *GuardMiddleware) RequireSelection() func(http.Handler) http.Handler {
	return m.require(func(_ *http.Request, user *models.User) string {
		role := models.RoleAdmin
		if user != nil {
			role = user.Role
		}
		return m.table.SelectionRoute(role)
	})
}

// require builds the enforcement middleware. Redirect decisions become
// HTTP 302 responses toward the redirect target's path; superseded
// decisions end the request with no content, leaving the newer navigation
// in charge.
func (m *GuardMiddleware) require(routeFor func(*http.Request, *models.User) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			sess := GetSessionFromContext(ctx)
			if sess == nil {
				m.logger.Error("session not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Session required")
				return
			}

			user, err := sess.CurrentUser(ctx)
			if err != nil {
				user = nil
			}
			routeName := routeFor(r, user)

			decision := m.guard.Decide(ctx, sess, routeName)
			switch decision.Kind {
			case models.DecisionAllow:
				next.ServeHTTP(w, r)

			case models.DecisionRedirect:
				target := decision.Target
				if d := m.table.Lookup(target); d != nil {
					target = d.Path
				}
				m.logger.Debug("navigation redirected",
					zap.String("request_id", requestID),
					zap.String("route", routeName),
					zap.String("target", decision.Target),
					zap.String("reason", decision.Reason))
				http.Redirect(w, r, target, http.StatusFound)

			default: // models.DecisionSuperseded
				utils.WriteNoContent(w)
			}
		})
	}
}
