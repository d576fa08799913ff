package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
	"github.com/allisson/genproxy/internal/httputil"
	"github.com/allisson/genproxy/internal/metrics"
)

// Admitter makes the admission decision for a request's headers.
type Admitter interface {
	Admit(header http.Header) (authDomain.Via, error)
}

// AuthGateMiddleware admits business requests through the gate.
//
// Decision order, first match wins:
//  1. developer mode enabled
//  2. x-admin-pass header matching the administrator secret
//  3. x-sign, x-time and x-nonce verified against the auth secret
//
// Rejected requests are answered immediately with the deployment's error convention, so no
// upstream call is attempted. Admitted requests carry the authDomain.Admission in their context.
//
// Usage:
//
//	api := router.Group("/api")
//	api.Use(AuthGateMiddleware(gate, responder, businessMetrics, logger))
func AuthGateMiddleware(
	gate Admitter,
	responder *httputil.Responder,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		via, err := gate.Admit(c.Request.Header)
		if err != nil {
			logger.DebugContext(ctx, "admission rejected",
				slog.String("path", c.Request.URL.Path),
				slog.String("client_ip", c.ClientIP()),
				slog.String("reason", err.Error()),
			)
			businessMetrics.RecordOperation(ctx, "auth", "reject", "error")
			responder.Error(c, err)
			return
		}

		if via != authDomain.ViaSignature {
			logger.InfoContext(ctx, "admission bypass",
				slog.String("via", string(via)),
				slog.String("path", c.Request.URL.Path),
			)
		}
		businessMetrics.RecordOperation(ctx, "auth", "admit_"+string(via), "success")

		c.Request = c.Request.WithContext(WithAdmission(ctx, authDomain.Admission{Via: via}))
		c.Next()
	}
}
