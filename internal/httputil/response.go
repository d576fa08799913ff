// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/genproxy/internal/errors"
)

// Convention selects how results and errors are rendered. A deployment uses exactly one.
type Convention string

const (
	// ConventionEnvelope always answers HTTP 200 with a {code, message, data} envelope.
	ConventionEnvelope Convention = "envelope"

	// ConventionStatus answers with a meaningful HTTP status and an {error, message} body on failure.
	ConventionStatus Convention = "status"
)

// Envelope codes.
const (
	CodeSuccess   = 10000
	CodeError     = 10010
	CodeForbidden = 403
)

// Envelope is the body of every response under ConventionEnvelope.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorResponse represents a structured error response under ConventionStatus.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Responder renders results and domain errors with the deployment's convention.
type Responder struct {
	convention Convention
	logger     *slog.Logger
}

// NewResponder creates a responder. Unknown conventions fall back to ConventionStatus.
func NewResponder(convention Convention, logger *slog.Logger) *Responder {
	if convention != ConventionEnvelope {
		convention = ConventionStatus
	}
	return &Responder{convention: convention, logger: logger}
}

// Convention returns the convention in use.
func (r *Responder) Convention() Convention {
	return r.convention
}

// Success writes a successful result.
func (r *Responder) Success(c *gin.Context, data any, message string) {
	if r.convention == ConventionEnvelope {
		if message == "" {
			message = "success"
		}
		c.JSON(http.StatusOK, Envelope{Code: CodeSuccess, Message: message, Data: data})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Error maps a domain error to a response and aborts the gin chain.
func (r *Responder) Error(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, body := r.render(c.Request.Context(), err)
	c.AbortWithStatusJSON(status, body)
}

// WriteError maps a domain error to a response on a plain http.ResponseWriter.
func (r *Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	if err == nil {
		return
	}
	status, body := r.render(req.Context(), err)
	MakeJSONResponse(w, status, body)
}

// MakeJSONResponse writes body as JSON with the given status code.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func (r *Responder) render(ctx context.Context, err error) (int, any) {
	statusCode, errorCode, message := resolve(err)

	// Log the full error details (including causes)
	if r.logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		r.logger.Log(ctx, level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorCode),
			slog.Any("error", err),
		)
	}

	if r.convention == ConventionEnvelope {
		code := CodeError
		if statusCode == http.StatusForbidden {
			code = CodeForbidden
		}
		return http.StatusOK, Envelope{Code: code, Message: message, Data: ""}
	}

	return statusCode, ErrorResponse{Error: errorCode, Message: message}
}

// resolve maps an error category to an HTTP status, an error code and a client-safe message.
func resolve(err error) (int, string, string) {
	var statusCode int
	var errorCode, message string

	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode, errorCode, message = http.StatusUnauthorized, "unauthorized", "Authentication is required"
	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode, errorCode, message = http.StatusForbidden, "forbidden",
			"You don't have permission to access this resource"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode, errorCode, message = http.StatusBadRequest, "bad_request", "The request is invalid"
	case apperrors.Is(err, apperrors.ErrTooManyRequests):
		statusCode, errorCode, message = http.StatusTooManyRequests, "rate_limit_exceeded",
			"Too many requests. Please retry after the specified delay."
	case apperrors.Is(err, apperrors.ErrTimeout):
		statusCode, errorCode, message = http.StatusGatewayTimeout, "upstream_timeout",
			"The upstream did not respond in time"
	case apperrors.Is(err, apperrors.ErrUnavailable):
		statusCode, errorCode, message = http.StatusBadGateway, "upstream_unreachable",
			"The upstream could not be reached"
	case apperrors.Is(err, apperrors.ErrBadGateway):
		statusCode, errorCode, message = http.StatusBadGateway, "upstream_error", "The upstream returned an error"
	default:
		// For unknown/internal errors, don't expose details to the client
		return http.StatusInternalServerError, "internal_error", "An internal error occurred"
	}

	if public := apperrors.PublicMessage(err); public != "" {
		message = public
	}
	return statusCode, errorCode, message
}
