// Package guard implements the navigation guard: the gatekeeper run before
// every view change of the admin front-end. For each navigation attempt it
// classifies the target route, checks authentication and role, resolves the
// tenant context, and emits exactly one terminal decision — allow or
// redirect. Errors never escape the guard; every failure path resolves to a
// redirect.
package guard

import (
	"context"
	"sync"

	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/routes"
	"github.com/taita-blog/admin-gateway/session"
	"go.uber.org/zap"
)

// TenantResolver resolves the active tenant for a user. Satisfied by
// tenant.Resolver.
type TenantResolver interface {
	Resolve(ctx context.Context, sess *session.Session, user *models.User, alreadySelected string) models.Resolution
}

// Guard decides the outcome of navigation attempts.
type Guard struct {
	table    *routes.Table
	resolver TenantResolver
	logger   *zap.Logger

	// Per-session navigation generations. When a newer navigation starts
	// while an older one awaits tenant resolution, the older decision is
	// superseded and discarded: the last navigation wins.
	mu   sync.Mutex
	gens map[string]uint64
}

// New creates a navigation guard over the given route table.
func New(table *routes.Table, resolver TenantResolver, logger *zap.Logger) *Guard {
	return &Guard{
		table:    table,
		resolver: resolver,
		logger:   logger,
		gens:     make(map[string]uint64),
	}
}

// Decide runs one navigation attempt targeting the named route. Session
// state is read fresh on every call; the upstream error interceptor may
// have cleared auth keys since the previous navigation.
func (g *Guard) Decide(ctx context.Context, sess *session.Session, target string) models.Decision {
	gen := g.begin(sess.ID())

	desc := g.table.Lookup(target)
	class := routes.Classify(desc)

	// Public routes short-circuit everything, including tenant resolution.
	if class.Class == routes.Public {
		return models.Allow()
	}

	user, err := sess.CurrentUser(ctx)
	if err != nil {
		// Unreadable session state reads as "no current user".
		g.logger.Warn("failed to read session user", zap.Error(err))
		user = nil
	}
	if user == nil {
		g.logger.Debug("unauthenticated navigation",
			zap.String("target", target))
		return models.RedirectTo(g.table.WellKnown.Login, models.ReasonMissingSession)
	}

	if class.Class == routes.AuthRequiredWithRole && user.Role != class.RequiredRole {
		g.logger.Debug("role mismatch",
			zap.String("target", target),
			zap.String("required_role", string(class.RequiredRole)),
			zap.String("user_role", string(user.Role)))
		return models.RedirectTo(g.table.WellKnown.Landing, models.ReasonRoleMismatch)
	}

	alreadySelected, err := sess.ActiveTenant(ctx)
	if err != nil {
		g.logger.Warn("failed to read active tenant", zap.Error(err))
		alreadySelected = ""
	}

	// The only step that can suspend: tenant resolution may call the
	// upstream blog-listing API.
	res := g.resolver.Resolve(ctx, sess, user, alreadySelected)

	if g.current(sess.ID()) != gen {
		g.logger.Debug("navigation superseded",
			zap.String("target", target))
		return models.Superseded()
	}

	switch res.Kind {
	case models.ResolutionUseExisting:
		return models.Allow()

	case models.ResolutionAutoSelected:
		// The tenant just became scoped: allow the original target when it
		// is still reachable, otherwise land on the default view.
		if g.reachable(desc, user) {
			return models.Allow()
		}
		return models.RedirectTo(g.table.WellKnown.Landing, models.ReasonAutoSelected)

	default: // models.ResolutionNeedsSelection
		selection := g.table.SelectionRoute(user.Role)
		if target == selection {
			// Already heading to the selection screen; redirecting again
			// would loop.
			return models.Allow()
		}
		return models.RedirectTo(selection, models.ReasonTenantSelection)
	}
}

// reachable reports whether a declared route passes the user's role check.
func (g *Guard) reachable(d *routes.Descriptor, user *models.User) bool {
	if d == nil {
		return false
	}
	return d.RequiredRole == "" || d.RequiredRole == user.Role
}

func (g *Guard) begin(sessionID string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[sessionID]++
	return g.gens[sessionID]
}

func (g *Guard) current(sessionID string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[sessionID]
}

// Forget drops supersession bookkeeping for a session (logout).
func (g *Guard) Forget(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.gens, sessionID)
}
