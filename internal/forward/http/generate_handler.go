// Package http provides the HTTP handlers of both forwarding modes.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/genproxy/internal/forward/http/dto"
	forwardUseCase "github.com/allisson/genproxy/internal/forward/usecase"
	"github.com/allisson/genproxy/internal/httputil"
	customValidation "github.com/allisson/genproxy/internal/validation"
)

// GenerateHandler handles structured generate calls.
type GenerateHandler struct {
	generateUseCase forwardUseCase.GenerateUseCase
	responder       *httputil.Responder
	maxBodyBytes    int64
	logger          *slog.Logger
}

// NewGenerateHandler creates a new generate handler with required dependencies.
func NewGenerateHandler(
	generateUseCase forwardUseCase.GenerateUseCase,
	responder *httputil.Responder,
	maxBodyBytes int64,
	logger *slog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		generateUseCase: generateUseCase,
		responder:       responder,
		maxBodyBytes:    maxBodyBytes,
		logger:          logger,
	}
}

// GenerateHandler calls the upstream and wraps its response.
// POST /api/generate - Body {model, contents, config}, requires admission by the auth gate.
// Answers {code: 10000, message, data: <upstream response>}.
func (h *GenerateHandler) GenerateHandler(c *gin.Context) {
	httputil.LimitBody(c, h.maxBodyBytes)

	var req dto.GenerateRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		h.responder.Error(c, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.responder.Error(c, customValidation.WrapValidationError(err))
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	output, err := h.generateUseCase.Generate(c.Request.Context(), input)
	if err != nil {
		// Nothing is written for a client that already left.
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		h.responder.Error(c, err)
		return
	}

	h.responder.Success(c, output.Response, "generation succeeded")
}
