// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	adminHTTP "github.com/allisson/genproxy/internal/admin/http"
	adminService "github.com/allisson/genproxy/internal/admin/service"
	adminUseCase "github.com/allisson/genproxy/internal/admin/usecase"
	authService "github.com/allisson/genproxy/internal/auth/service"
	"github.com/allisson/genproxy/internal/config"
	cryptoService "github.com/allisson/genproxy/internal/crypto/service"
	forwardHTTP "github.com/allisson/genproxy/internal/forward/http"
	forwardService "github.com/allisson/genproxy/internal/forward/service"
	forwardUseCase "github.com/allisson/genproxy/internal/forward/usecase"
	"github.com/allisson/genproxy/internal/http"
	"github.com/allisson/genproxy/internal/httputil"
	"github.com/allisson/genproxy/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	responder       *httputil.Responder
	kmsService      cryptoService.KMSService

	// Runtime state
	credentials     []adminDomain.Credential
	credentialStore *adminService.CredentialStore
	modeFlag        *adminService.ModeFlag

	// Auth
	adminMatcher      authService.SecretMatcher
	signatureVerifier authService.SignatureVerifier
	authGate          *authService.Gate

	// Use Cases and Handlers
	adminUseCase    adminUseCase.AdminUseCase
	adminHandler    *adminHTTP.AdminHandler
	generator       forwardService.Generator
	generateUseCase forwardUseCase.GenerateUseCase
	generateHandler *forwardHTTP.GenerateHandler
	proxyHandler    *forwardHTTP.ProxyHandler

	// Servers
	httpServer     *http.Server
	redirectServer *http.RedirectServer
	metricsServer  *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	responderInit         sync.Once
	kmsServiceInit        sync.Once
	credentialsInit       sync.Once
	credentialStoreInit   sync.Once
	modeFlagInit          sync.Once
	adminMatcherInit      sync.Once
	signatureVerifierInit sync.Once
	authGateInit          sync.Once
	adminUseCaseInit      sync.Once
	adminHandlerInit      sync.Once
	generatorInit         sync.Once
	generateUseCaseInit   sync.Once
	generateHandlerInit   sync.Once
	proxyHandlerInit      sync.Once
	httpServerInit        sync.Once
	redirectServerInit    sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.setInitError("metricsProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Responder returns the responder rendering results in the deployment's convention.
func (c *Container) Responder() *httputil.Responder {
	c.responderInit.Do(func() {
		c.responder = c.initResponder()
	})
	return c.responder
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initResponder picks the envelope convention for the structured generate mode and
// the status convention for the pass-through proxy mode.
func (c *Container) initResponder() *httputil.Responder {
	convention := httputil.ConventionStatus
	if c.config.ForwardMode == config.ForwardModeGenerate {
		convention = httputil.ConventionEnvelope
	}
	return httputil.NewResponder(convention, c.Logger())
}
