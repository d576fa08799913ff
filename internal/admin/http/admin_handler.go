// Package http provides HTTP handlers for the administrator control plane.
package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/genproxy/internal/admin/http/dto"
	adminUseCase "github.com/allisson/genproxy/internal/admin/usecase"
	"github.com/allisson/genproxy/internal/httputil"
)

// AdminHandler handles the privileged runtime state operations.
// The administrator password travels in the body and is checked by the use case.
type AdminHandler struct {
	adminUseCase adminUseCase.AdminUseCase
	responder    *httputil.Responder
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler with required dependencies.
func NewAdminHandler(
	adminUseCase adminUseCase.AdminUseCase,
	responder *httputil.Responder,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		responder:    responder,
		logger:       logger,
	}
}

// ToggleDevModeHandler enables or disables developer mode.
// POST /api/admin/toggle-dev - Body {password, enable}, answers {isDevMode}.
func (h *AdminHandler) ToggleDevModeHandler(c *gin.Context) {
	var req dto.ToggleDevModeRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		h.responder.Error(c, err)
		return
	}

	output, err := h.adminUseCase.ToggleDevMode(c.Request.Context(), req.ToInput())
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	message := "secure mode restored, authentication enforced"
	if output.IsDevMode {
		message = "developer mode enabled, authentication bypassed"
	}

	h.responder.Success(c, dto.MapToggleDevModeOutput(output), message)
}

// SwitchCredentialHandler changes the active upstream credential.
// POST /api/admin/switch - Body {password, index}, answers {currentIndex}.
func (h *AdminHandler) SwitchCredentialHandler(c *gin.Context) {
	var req dto.SwitchCredentialRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		h.responder.Error(c, err)
		return
	}

	output, err := h.adminUseCase.SwitchCredential(c.Request.Context(), req.ToInput())
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.Success(
		c,
		dto.MapSwitchCredentialOutput(output),
		fmt.Sprintf("switched to credential #%d", output.CurrentIndex+1),
	)
}
