package handlers

import (
	"net/http"

	"github.com/taita-blog/admin-gateway/services/captcha"
	"github.com/taita-blog/admin-gateway/utils"
	"go.uber.org/zap"
)

// CaptchaHandler issues login CAPTCHA challenges.
type CaptchaHandler struct {
	service *captcha.Service
	logger  *zap.Logger
}

// NewCaptchaHandler creates a new CaptchaHandler.
func NewCaptchaHandler(service *captcha.Service, logger *zap.Logger) *CaptchaHandler {
	return &CaptchaHandler{
		service: service,
		logger:  logger,
	}
}

// HandleGenerate handles GET /api/captcha: a fresh single-use challenge.
func (h *CaptchaHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ch, err := h.service.Generate()
	if err != nil {
		h.logger.Error("failed to generate captcha", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to generate challenge")
		return
	}
	_ = utils.WriteOK(w, ch)
}
