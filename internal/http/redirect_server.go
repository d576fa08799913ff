package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RedirectServer answers every plaintext request with a 301 to the HTTPS listener.
type RedirectServer struct {
	listener
}

// NewRedirectServer creates the redirect listener on port, pointing at httpsPort.
func NewRedirectServer(host string, port, httpsPort int, logger *slog.Logger) *RedirectServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.NoRoute(redirectHandler(httpsPort))

	return &RedirectServer{
		listener: listener{
			name:   "redirect server",
			logger: logger,
			server: &http.Server{
				Addr:              fmt.Sprintf("%s:%d", host, port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			},
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *RedirectServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *RedirectServer) Start(ctx context.Context) error {
	return s.serve()
}

// Shutdown gracefully stops the redirect listener.
func (s *RedirectServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

// redirectHandler keeps the request host and URI. The port of the Host header is
// replaced by httpsPort, omitted when it is 443.
func redirectHandler(httpsPort int) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		if host == "" {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		hostname := strings.Trim(host, "[]")
		if h, _, err := net.SplitHostPort(host); err == nil {
			hostname = h
		}

		target := hostname
		switch {
		case httpsPort != 443:
			target = net.JoinHostPort(hostname, strconv.Itoa(httpsPort))
		case strings.Contains(hostname, ":"):
			target = "[" + hostname + "]"
		}

		c.Redirect(http.StatusMovedPermanently, "https://"+target+c.Request.URL.RequestURI())
	}
}
