package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/allisson/genproxy/internal/config"
	"github.com/allisson/genproxy/internal/http"
	"github.com/allisson/genproxy/internal/metrics"
)

// HTTPServer returns the main listener with its router installed.
// ctx bounds background work owned by the router middlewares.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// RedirectServer returns the plaintext redirect listener, or nil when it is disabled.
func (c *Container) RedirectServer() *http.RedirectServer {
	c.redirectServerInit.Do(func() {
		if !c.config.RedirectEnabled {
			return
		}
		c.redirectServer = http.NewRedirectServer(
			c.config.ServerHost,
			c.config.RedirectPort,
			c.config.ServerPort,
			c.Logger(),
		)
	})
	return c.redirectServer
}

// MetricsServer returns the metrics listener, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	var tlsConfig *tls.Config
	if c.config.TLSEnabled {
		var err error
		tlsConfig, err = http.LoadTLSConfig(c.config.TLSCertFile, c.config.TLSKeyFile, time.Now(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS configuration: %w", err)
		}
	}

	deps, err := c.routerDependencies()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(http.ServerConfig{
		Host:    c.config.ServerHost,
		Port:    c.config.ServerPort,
		Ceiling: c.config.UpstreamTimeout,
		TLS:     tlsConfig,
	}, logger)
	server.SetupRouter(ctx, deps)

	return server, nil
}

func (c *Container) routerDependencies() (http.RouterDependencies, error) {
	gate, err := c.AuthGate()
	if err != nil {
		return http.RouterDependencies{}, fmt.Errorf("failed to get auth gate for http server: %w", err)
	}

	adminHandler, err := c.AdminHandler()
	if err != nil {
		return http.RouterDependencies{}, fmt.Errorf("failed to get admin handler for http server: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return http.RouterDependencies{}, fmt.Errorf("failed to get business metrics for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return http.RouterDependencies{}, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	deps := http.RouterDependencies{
		Responder:        c.Responder(),
		Gate:             gate,
		AdminHandler:     adminHandler,
		BusinessMetrics:  businessMetrics,
		MetricsProvider:  provider,
		MetricsNamespace: c.config.MetricsNamespace,
	}

	if c.config.RateLimitAdminEnabled {
		deps.AdminRateLimit = &http.RateLimit{
			RequestsPerSec: c.config.RateLimitAdminRequestsPerSec,
			Burst:          c.config.RateLimitAdminBurst,
		}
	}

	switch c.config.ForwardMode {
	case config.ForwardModeGenerate:
		deps.GenerateHandler, err = c.GenerateHandler()
		if err != nil {
			return http.RouterDependencies{}, fmt.Errorf("failed to get generate handler for http server: %w", err)
		}
	case config.ForwardModeProxy:
		deps.ProxyHandler, err = c.ProxyHandler()
		if err != nil {
			return http.RouterDependencies{}, fmt.Errorf("failed to get proxy handler for http server: %w", err)
		}
	default:
		return http.RouterDependencies{}, fmt.Errorf("%w: unsupported forward mode %q",
			config.ErrInvalidConfiguration, c.config.ForwardMode)
	}

	return deps, nil
}
