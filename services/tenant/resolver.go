// Package tenant resolves the active blog context for an authenticated
// user: reuse an existing selection, auto-select when the user owns exactly
// one blog, or force an explicit choice. The blog lookup is an injected
// capability so the navigation flow can be tested without network timing.
package tenant

import (
	"context"

	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/session"
	"go.uber.org/zap"
)

// Lookup lists the blogs assigned to an admin user. Implementations must
// honor context cancellation and deadlines.
type Lookup interface {
	ListByAdmin(ctx context.Context, adminID int64, bearerToken string) ([]models.Blog, error)
}

// Resolver determines the tenant context for one navigation.
type Resolver struct {
	lookup Lookup
	logger *zap.Logger
}

// NewResolver creates a tenant resolver.
func NewResolver(lookup Lookup, logger *zap.Logger) *Resolver {
	return &Resolver{
		lookup: lookup,
		logger: logger,
	}
}

// Resolve determines the tenant outcome for a user. alreadySelected is the
// persisted active tenant ("" when none). On auto-selection the resolved
// tenant is persisted to the session before the outcome is returned.
//
// Failure semantics are fail-closed: a lookup error, an ambiguous result,
// or a failed persist all resolve to NeedsSelection — never to an unscoped
// tenant view.
func (r *Resolver) Resolve(ctx context.Context, sess *session.Session, user *models.User, alreadySelected string) models.Resolution {
	if alreadySelected != "" {
		return models.Resolution{Kind: models.ResolutionUseExisting, TenantID: alreadySelected}
	}

	// SUPER_ADMIN scoping is explicit: no automatic lookup, the guard
	// routes to the super-admin selection screen.
	if user.Role.IsSuperAdmin() {
		return models.Resolution{Kind: models.ResolutionNeedsSelection}
	}

	bearer, err := sess.Token(ctx)
	if err != nil {
		r.logger.Warn("failed to read auth token for blog lookup", zap.Error(err))
		return models.Resolution{Kind: models.ResolutionNeedsSelection}
	}

	blogs, err := r.lookup.ListByAdmin(ctx, user.ID, bearer)
	if err != nil {
		r.logger.Warn("blog lookup failed",
			zap.Int64("admin_id", user.ID),
			zap.Error(err))
		return models.Resolution{Kind: models.ResolutionNeedsSelection}
	}

	if len(blogs) != 1 {
		r.logger.Debug("blog lookup ambiguous",
			zap.Int64("admin_id", user.ID),
			zap.Int("count", len(blogs)))
		return models.Resolution{Kind: models.ResolutionNeedsSelection}
	}

	tenantID := blogs[0].UUID.String()
	if err := sess.SetActiveTenant(ctx, tenantID); err != nil {
		r.logger.Warn("failed to persist auto-selected blog",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return models.Resolution{Kind: models.ResolutionNeedsSelection}
	}

	r.logger.Info("blog auto-selected",
		zap.Int64("admin_id", user.ID),
		zap.String("tenant_id", tenantID))
	return models.Resolution{Kind: models.ResolutionAutoSelected, TenantID: tenantID}
}
