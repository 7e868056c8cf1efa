package handlers

import (
	"net/http"

	"github.com/taita-blog/admin-gateway/middleware"
	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/routes"
	"github.com/taita-blog/admin-gateway/services/guard"
	"github.com/taita-blog/admin-gateway/utils"
	"go.uber.org/zap"
)

// DecisionResponse is the navigation decision returned to the SPA. For
// redirects it carries both the route name and its path.
type DecisionResponse struct {
	Decision   models.DecisionKind `json:"decision"`
	Target     string              `json:"target,omitempty"`
	TargetPath string              `json:"targetPath,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

// NavigationHandler runs the guard for SPA-initiated navigations.
type NavigationHandler struct {
	guard  *guard.Guard
	table  *routes.Table
	logger *zap.Logger
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(g *guard.Guard, table *routes.Table, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{
		guard:  g,
		table:  table,
		logger: logger,
	}
}

// HandleDecision handles GET /api/navigation/decision?to={route}. The SPA
// calls this before committing a view change; the response is terminal for
// that navigation attempt.
func (h *NavigationHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	target := r.URL.Query().Get("to")
	if target == "" {
		_ = utils.WriteBadRequest(w, "Query parameter 'to' is required", nil)
		return
	}

	sess := middleware.GetSessionFromContext(ctx)
	if sess == nil {
		h.logger.Error("session not found in context",
			zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, "Session required")
		return
	}

	decision := h.guard.Decide(ctx, sess, target)

	resp := DecisionResponse{
		Decision: decision.Kind,
		Target:   decision.Target,
		Reason:   decision.Reason,
	}
	if decision.Kind == models.DecisionRedirect {
		if d := h.table.Lookup(decision.Target); d != nil {
			resp.TargetPath = d.Path
		}
	}

	h.logger.Debug("navigation decided",
		zap.String("request_id", requestID),
		zap.String("to", target),
		zap.String("decision", string(decision.Kind)),
		zap.String("redirect", decision.Target))

	_ = utils.WriteOK(w, resp)
}
