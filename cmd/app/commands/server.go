package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/genproxy/internal/app"
	"github.com/allisson/genproxy/internal/config"
)

// Lifecycle is a listener started and stopped by RunServer.
type Lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// namedLifecycle labels a listener in errors.
type namedLifecycle struct {
	name string
	Lifecycle
}

// RunServer starts the proxy with graceful shutdown support.
// Loads and validates configuration, initializes the DI container and starts the
// main listener plus the optional redirect and metrics listeners. Any listener
// failing to start stops the others and the process exits non-zero. On SIGINT or
// SIGTERM every listener drains within SHUTDOWN_TIMEOUT_SECONDS.
func RunServer(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("forward_mode", cfg.ForwardMode),
		slog.Bool("tls", cfg.TLSEnabled),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get HTTP server from container (this initializes all dependencies)
	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	listeners := []namedLifecycle{{name: "api server", Lifecycle: server}}

	if redirectServer := container.RedirectServer(); redirectServer != nil {
		listeners = append(listeners, namedLifecycle{name: "redirect server", Lifecycle: redirectServer})
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		listeners = append(listeners, namedLifecycle{name: "metrics server", Lifecycle: metricsServer})
	}

	return runListeners(ctx, logger, cfg.ShutdownTimeout, listeners)
}

// runListeners runs every listener until ctx is done or one of them fails, then shuts
// them all down within shutdownTimeout.
func runListeners(
	ctx context.Context,
	logger *slog.Logger,
	shutdownTimeout time.Duration,
	listeners []namedLifecycle,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, l := range listeners {
		g.Go(func() error {
			if err := l.Start(gctx); err != nil {
				return fmt.Errorf("%s error: %w", l.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server error, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, l := range listeners {
			if err := l.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("%s shutdown: %w", l.name, err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
