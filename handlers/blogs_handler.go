package handlers

import (
	"errors"
	"net/http"

	"github.com/taita-blog/admin-gateway/apiclient"
	"github.com/taita-blog/admin-gateway/middleware"
	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/services/tenant"
	"github.com/taita-blog/admin-gateway/utils"
	"go.uber.org/zap"
)

// BlogsHandler proxies the upstream blog listing for the selection screens.
type BlogsHandler struct {
	client *apiclient.Client
	lookup tenant.Lookup
	logger *zap.Logger
}

// NewBlogsHandler creates a new BlogsHandler.
func NewBlogsHandler(client *apiclient.Client, lookup tenant.Lookup, logger *zap.Logger) *BlogsHandler {
	return &BlogsHandler{
		client: client,
		lookup: lookup,
		logger: logger,
	}
}

// HandleList handles GET /api/blogs. SUPER_ADMIN users see every blog;
// tenant-scoped users see only blogs assigned to them.
func (h *BlogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	sess := middleware.GetSessionFromContext(ctx)
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Session required")
		return
	}

	user, err := sess.CurrentUser(ctx)
	if err != nil || user == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}
	bearer, err := sess.Token(ctx)
	if err != nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var blogs []models.Blog
	if user.Role.IsSuperAdmin() {
		err = h.client.GetJSON(ctx, "/api/blogs", bearer, &blogs)
	} else {
		blogs, err = h.lookup.ListByAdmin(ctx, user.ID, bearer)
	}
	if err != nil {
		if errors.Is(err, apiclient.ErrAuthRejected) {
			// The interceptor already cleared auth state; the next
			// navigation redirects to login.
			_ = utils.WriteUnauthorized(w, "Session no longer valid")
			return
		}
		h.logger.Error("blog listing failed",
			zap.String("request_id", requestID),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		_ = utils.WriteBadGateway(w, "Blog listing unavailable")
		return
	}

	_ = utils.WriteOK(w, blogs)
}
