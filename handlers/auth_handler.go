package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taita-blog/admin-gateway/apiclient"
	"github.com/taita-blog/admin-gateway/middleware"
	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/services/captcha"
	"github.com/taita-blog/admin-gateway/services/guard"
	"github.com/taita-blog/admin-gateway/utils"
	"go.uber.org/zap"
)

// LoginRequest is the login payload forwarded to the upstream auth endpoint.
type LoginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=1"`
	CaptchaID     string `json:"captchaId,omitempty"`
	CaptchaAnswer string `json:"captchaAnswer,omitempty"`
}

// SelectTenantRequest is the explicit tenant selection payload.
type SelectTenantRequest struct {
	UUID string `json:"uuid" validate:"required,uuid4"`
}

// loginUpstreamResponse is the upstream auth response shape.
type loginUpstreamResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SessionResponse is the current-session snapshot returned to the SPA.
type SessionResponse struct {
	User         *models.User `json:"user"`
	ActiveTenant string       `json:"activeTenant,omitempty"`
}

// AuthHandler handles login, logout, and session inspection.
type AuthHandler struct {
	client         *apiclient.Client
	captcha        *captcha.Service
	captchaEnabled bool
	guard          *guard.Guard
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *apiclient.Client, captchaSvc *captcha.Service, captchaEnabled bool, g *guard.Guard, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		client:         client,
		captcha:        captchaSvc,
		captchaEnabled: captchaEnabled,
		guard:          g,
		validate:       validator.New(),
		logger:         logger,
	}
}

// HandleLogin handles POST /api/session/login. Credentials are proxied to
// the upstream auth endpoint; on success the user and token are persisted
// under the session's authUser/authToken keys.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	sess := middleware.GetSessionFromContext(ctx)
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Session required")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		_ = utils.WriteBadRequest(w, "Validation failed", map[string]interface{}{
			"validation": err.Error(),
		})
		return
	}

	if h.captchaEnabled {
		ok, err := h.captcha.Validate(req.CaptchaID, req.CaptchaAnswer)
		if err != nil || !ok {
			h.logger.Warn("captcha validation failed",
				zap.String("request_id", requestID))
			_ = utils.WriteBadRequest(w, "CAPTCHA validation failed", nil)
			return
		}
	}

	var upstream loginUpstreamResponse
	err := h.client.PostJSON(ctx, "/api/auth/login", "", map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, &upstream)
	if err != nil {
		if errors.Is(err, apiclient.ErrAuthRejected) {
			_ = utils.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("upstream login failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadGateway(w, "Login unavailable")
		return
	}

	upstream.User.Role = models.ParseRole(string(upstream.User.Role))
	if err := sess.SetUser(ctx, &upstream.User); err != nil {
		h.logger.Error("failed to persist session user",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to persist session")
		return
	}
	if err := sess.SetToken(ctx, upstream.Token); err != nil {
		h.logger.Error("failed to persist session token",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to persist session")
		return
	}

	h.logger.Info("login successful",
		zap.String("request_id", requestID),
		zap.Int64("user_id", upstream.User.ID),
		zap.String("role", string(upstream.User.Role)))

	_ = utils.WriteOK(w, SessionResponse{User: &upstream.User})
}

// HandleLogout handles POST /api/session/logout: all session state is
// removed, including the tenant selection.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := middleware.GetSessionFromContext(ctx)
	if sess == nil {
		utils.WriteNoContent(w)
		return
	}

	if err := sess.Clear(ctx); err != nil {
		h.logger.Error("failed to clear session", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to clear session")
		return
	}
	h.guard.Forget(sess.ID())

	utils.WriteNoContent(w)
}

// HandleSession handles GET /api/session: a fresh snapshot of the persisted
// user and active tenant.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := middleware.GetSessionFromContext(ctx)
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Session required")
		return
	}

	user, err := sess.CurrentUser(ctx)
	if err != nil {
		h.logger.Warn("failed to read session user", zap.Error(err))
		user = nil
	}
	tenant, err := sess.ActiveTenant(ctx)
	if err != nil {
		tenant = ""
	}

	_ = utils.WriteOK(w, SessionResponse{User: user, ActiveTenant: tenant})
}

// HandleSelectTenant handles POST /api/session/tenant: the explicit tenant
// choice made on the blog selection screen.
func (h *AuthHandler) HandleSelectTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

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

	var req SelectTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		_ = utils.WriteBadRequest(w, "A valid blog UUID is required", nil)
		return
	}

	if err := sess.SetActiveTenant(ctx, req.UUID); err != nil {
		h.logger.Error("failed to persist tenant selection", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to persist selection")
		return
	}

	h.logger.Info("tenant selected",
		zap.Int64("user_id", user.ID),
		zap.String("tenant_id", req.UUID))

	_ = utils.WriteOK(w, map[string]string{"activeTenant": req.UUID})
}
