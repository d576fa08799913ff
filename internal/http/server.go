// Package http provides the listeners of the proxy and the router wiring the
// admission gate, the admin endpoints and the forwarding engine together.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adminHTTP "github.com/allisson/genproxy/internal/admin/http"
	authHTTP "github.com/allisson/genproxy/internal/auth/http"
	forwardHTTP "github.com/allisson/genproxy/internal/forward/http"
	"github.com/allisson/genproxy/internal/httputil"
	"github.com/allisson/genproxy/internal/metrics"
)

// WriteGrace is added to the timeout ceiling for the server write timeout so a
// structured timeout error can still reach the client.
const WriteGrace = 5 * time.Second

// ServerConfig configures the main listener.
type ServerConfig struct {
	Host string
	Port int
	// Ceiling is the single timeout ceiling shared with the upstream transport.
	Ceiling time.Duration
	// TLS enables HTTPS when non-nil.
	TLS *tls.Config
}

// Server is the main listener serving business and admin traffic.
type Server struct {
	listener
	router       *gin.Engine
	shuttingDown atomic.Bool
}

// NewServer creates the main listener. The router is installed by SetupRouter.
func NewServer(cfg ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		listener: listener{
			name:   "proxy server",
			logger: logger,
			server: &http.Server{
				Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
				ReadTimeout:       cfg.Ceiling,
				ReadHeaderTimeout: cfg.Ceiling,
				WriteTimeout:      cfg.Ceiling + WriteGrace,
				IdleTimeout:       cfg.Ceiling,
				TLSConfig:         cfg.TLS,
				ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			},
		},
	}
}

// RouterDependencies carries everything the router needs. Exactly one of
// GenerateHandler and ProxyHandler is set, matching the forwarding mode.
type RouterDependencies struct {
	Responder       *httputil.Responder
	Gate            authHTTP.Admitter
	AdminHandler    *adminHTTP.AdminHandler
	GenerateHandler *forwardHTTP.GenerateHandler
	ProxyHandler    *forwardHTTP.ProxyHandler
	BusinessMetrics metrics.BusinessMetrics

	// MetricsProvider enables the HTTP metrics middleware when non-nil.
	MetricsProvider  *metrics.Provider
	MetricsNamespace string

	// AdminRateLimit enables per-IP rate limiting of admin endpoints when non-nil.
	AdminRateLimit *RateLimit
}

// RateLimit is a token bucket configuration.
type RateLimit struct {
	RequestsPerSec float64
	Burst          int
}

// SetupRouter builds the Gin engine.
//
// Routes:
//   - GET /health, GET /ready: probes, no admission
//   - POST /api/admin/toggle-dev, POST /api/admin/switch: admin password in the body, optional rate limit
//   - generate mode: POST /api/generate behind the auth gate
//   - proxy mode: every other request behind the auth gate, forwarded unchanged
//
// ctx bounds background work owned by middlewares.
func (s *Server) SetupRouter(ctx context.Context, deps RouterDependencies) {
	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		// Raised by the reverse proxy when the client goes away mid-body;
		// net/http closes the connection without logging it.
		if recovered == http.ErrAbortHandler {
			panic(recovered)
		}
		s.logger.ErrorContext(c.Request.Context(), "panic recovered",
			slog.Any("panic", recovered),
			slog.String("path", c.Request.URL.Path),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		deps.Responder.Error(c, errors.New("internal error"))
	}))
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(createCORSMiddleware(s.logger)...)
	router.Use(CustomLoggerMiddleware(s.logger))
	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), deps.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	admin := router.Group("/api/admin")
	if deps.AdminRateLimit != nil {
		admin.Use(authHTTP.AdminRateLimitMiddleware(
			ctx,
			deps.AdminRateLimit.RequestsPerSec,
			deps.AdminRateLimit.Burst,
			deps.Responder,
			s.logger,
		))
	}
	admin.POST("/toggle-dev", deps.AdminHandler.ToggleDevModeHandler)
	admin.POST("/switch", deps.AdminHandler.SwitchCredentialHandler)

	gate := authHTTP.AuthGateMiddleware(deps.Gate, deps.Responder, deps.BusinessMetrics, s.logger)

	if deps.GenerateHandler != nil {
		router.POST("/api/generate", gate, deps.GenerateHandler.GenerateHandler)
	}
	if deps.ProxyHandler != nil {
		router.RedirectTrailingSlash = false
		router.NoRoute(gate, deps.ProxyHandler.ForwardHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called. It returns nil on graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}
	return s.serve()
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	return s.shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// listener is the lifecycle shared by every server of the process.
type listener struct {
	name   string
	server *http.Server
	logger *slog.Logger
}

func (l *listener) serve() error {
	l.logger.Info("starting "+l.name,
		slog.String("addr", l.server.Addr),
		slog.Bool("tls", l.server.TLSConfig != nil),
	)

	var err error
	if l.server.TLSConfig != nil {
		err = l.server.ListenAndServeTLS("", "")
	} else {
		err = l.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", l.name, err)
	}
	return nil
}

func (l *listener) shutdown(ctx context.Context) error {
	l.logger.Info("shutting down " + l.name)
	return l.server.Shutdown(ctx)
}
