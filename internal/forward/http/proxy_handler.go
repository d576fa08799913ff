package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/genproxy/internal/metrics"
)

// ProxyHandler forwards every request it receives to the upstream.
type ProxyHandler struct {
	proxy   http.Handler
	metrics metrics.BusinessMetrics
}

// NewProxyHandler creates a new proxy handler around the reverse proxy.
func NewProxyHandler(proxy http.Handler, businessMetrics metrics.BusinessMetrics) *ProxyHandler {
	return &ProxyHandler{
		proxy:   proxy,
		metrics: businessMetrics,
	}
}

// ForwardHandler forwards the raw request, requires admission by the auth gate.
// Registered as the router's fallback so any method and path reaches the upstream.
func (h *ProxyHandler) ForwardHandler(c *gin.Context) {
	start := time.Now()

	h.proxy.ServeHTTP(c.Writer, c.Request)

	// A client that went away leaves the writer at its default status.
	ctx := c.Request.Context()
	status := "success"
	if c.Writer.Status() >= http.StatusBadRequest || ctx.Err() != nil {
		status = "error"
	}

	h.metrics.RecordOperation(ctx, "forward", "proxy", status)
	h.metrics.RecordDuration(ctx, "forward", "proxy", time.Since(start), status)
}
