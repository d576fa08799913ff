package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/genproxy/internal/auth/service"
	"github.com/allisson/genproxy/internal/config"
	cryptoService "github.com/allisson/genproxy/internal/crypto/service"
	"github.com/allisson/genproxy/internal/httputil"
)

func testConfig(forwardMode string) *config.Config {
	return &config.Config{
		ServerHost:          "127.0.0.1",
		ServerPort:          8443,
		ForwardMode:         forwardMode,
		UpstreamBaseURL:     "https://generativelanguage.googleapis.com",
		UpstreamAPIKeys:     []string{"key-0", "key-1"},
		UpstreamAuthHeader:  "x-goog-api-key",
		UpstreamTimeout:     time.Minute,
		AuthSecret:          "shared-secret",
		AdminPassword:       "admin-pass",
		SignatureAlgorithm:  config.SignatureAlgorithmMD5,
		SignatureWindow:     300 * time.Second,
		MaxRequestBodyBytes: 1 << 20,
		LogLevel:            "error",
		MetricsNamespace:    "test_app",
		MetricsPort:         8081,
		RedirectPort:        8080,
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig(config.ForwardModeGenerate)

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

// TestContainerLogger verifies that the logger is created once.
func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})

	logger := container.Logger()
	require.NotNil(t, logger)
	assert.Same(t, logger, container.Logger())
}

// TestContainerLoggerDefaultLevel verifies that logger defaults to info level.
func TestContainerLoggerDefaultLevel(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "invalid"})

	logger := container.Logger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

// TestContainerLazyInitialization verifies that components are only initialized when accessed.
func TestContainerLazyInitialization(t *testing.T) {
	container := NewContainer(testConfig(config.ForwardModeGenerate))

	assert.Nil(t, container.logger)
	assert.Nil(t, container.credentialStore)

	_, err := container.CredentialStore()
	require.NoError(t, err)

	assert.NotNil(t, container.logger)
	assert.NotNil(t, container.credentialStore)
}

func TestContainer_Responder(t *testing.T) {
	t.Run("GenerateModeUsesEnvelope", func(t *testing.T) {
		container := NewContainer(testConfig(config.ForwardModeGenerate))
		assert.Equal(t, httputil.ConventionEnvelope, container.Responder().Convention())
	})

	t.Run("ProxyModeUsesStatus", func(t *testing.T) {
		container := NewContainer(testConfig(config.ForwardModeProxy))
		assert.Equal(t, httputil.ConventionStatus, container.Responder().Convention())
	})
}

func TestContainer_CredentialStore(t *testing.T) {
	t.Run("PlainCredentials", func(t *testing.T) {
		container := NewContainer(testConfig(config.ForwardModeGenerate))

		store, err := container.CredentialStore()
		require.NoError(t, err)

		index, credential := store.Active()
		assert.Equal(t, 0, index)
		assert.Equal(t, "key-0", credential.Reveal())
		assert.Equal(t, 2, store.Size())
	})

	t.Run("SealedCredentials", func(t *testing.T) {
		ctx := context.Background()
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)
		keyURI := "base64key://" + base64.URLEncoding.EncodeToString(key)

		keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, keyURI)
		require.NoError(t, err)
		sealer := cryptoService.NewSealer(keeper)
		sealed0, err := sealer.Seal(ctx, "real-key-0")
		require.NoError(t, err)
		sealed1, err := sealer.Seal(ctx, "real-key-1")
		require.NoError(t, err)
		require.NoError(t, keeper.Close())

		cfg := testConfig(config.ForwardModeGenerate)
		cfg.KMSKeyURI = keyURI
		cfg.UpstreamAPIKeys = []string{sealed0, sealed1}
		container := NewContainer(cfg)

		store, err := container.CredentialStore()
		require.NoError(t, err)

		_, credential := store.Active()
		assert.Equal(t, "real-key-0", credential.Reveal())
		require.NoError(t, store.SwitchTo(1))
		_, credential = store.Active()
		assert.Equal(t, "real-key-1", credential.Reveal())
	})

	t.Run("UnsealFailureIsSticky", func(t *testing.T) {
		cfg := testConfig(config.ForwardModeGenerate)
		cfg.KMSKeyURI = "base64key://" + base64.URLEncoding.EncodeToString(make([]byte, 32))
		cfg.UpstreamAPIKeys = []string{"bm90LXNlYWxlZA=="}
		container := NewContainer(cfg)

		_, err := container.CredentialStore()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "not-sealed")

		_, err = container.CredentialStore()
		require.Error(t, err)
	})

	t.Run("NoCredentials", func(t *testing.T) {
		cfg := testConfig(config.ForwardModeGenerate)
		cfg.UpstreamAPIKeys = nil
		container := NewContainer(cfg)

		_, err := container.CredentialStore()
		require.Error(t, err)
	})
}

func TestContainer_AdminMatcher(t *testing.T) {
	t.Run("PlainPassword", func(t *testing.T) {
		container := NewContainer(testConfig(config.ForwardModeGenerate))

		matcher, err := container.AdminMatcher()
		require.NoError(t, err)
		assert.True(t, matcher.Matches("admin-pass"))
		assert.False(t, matcher.Matches("wrong"))
	})

	t.Run("HashTakesPrecedence", func(t *testing.T) {
		hash, err := authService.HashSecret("hashed-pass")
		require.NoError(t, err)

		cfg := testConfig(config.ForwardModeGenerate)
		cfg.AdminPasswordHash = hash
		container := NewContainer(cfg)

		matcher, err := container.AdminMatcher()
		require.NoError(t, err)
		assert.True(t, matcher.Matches("hashed-pass"))
		assert.False(t, matcher.Matches("admin-pass"))
	})

	t.Run("MalformedHashLocksAdminOut", func(t *testing.T) {
		cfg := testConfig(config.ForwardModeGenerate)
		cfg.AdminPasswordHash = "not-a-hash"
		container := NewContainer(cfg)

		matcher, err := container.AdminMatcher()
		require.NoError(t, err)
		assert.False(t, matcher.Matches("admin-pass"))
		assert.False(t, matcher.Matches("not-a-hash"))
	})
}

func TestContainer_SignatureVerifier_UnknownAlgorithm(t *testing.T) {
	cfg := testConfig(config.ForwardModeGenerate)
	cfg.SignatureAlgorithm = "sha1"
	container := NewContainer(cfg)

	_, err := container.AuthGate()
	require.Error(t, err)
}

func TestContainer_HTTPServer(t *testing.T) {
	tests := []struct {
		name        string
		forwardMode string
		path        string
		method      string
		wantStatus  int
	}{
		{"GenerateModeHealth", config.ForwardModeGenerate, "/health", http.MethodGet, http.StatusOK},
		{"GenerateModeUnsigned", config.ForwardModeGenerate, "/api/generate", http.MethodPost, http.StatusOK},
		{"ProxyModeHealth", config.ForwardModeProxy, "/health", http.MethodGet, http.StatusOK},
		{"ProxyModeUnsigned", config.ForwardModeProxy, "/v1beta/models", http.MethodGet, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			container := NewContainer(testConfig(tt.forwardMode))
			defer func() {
				assert.NoError(t, container.Shutdown(context.Background()))
			}()

			server, err := container.HTTPServer(ctx)
			require.NoError(t, err)

			again, err := container.HTTPServer(ctx)
			require.NoError(t, err)
			assert.Same(t, server, again)

			w := httptest.NewRecorder()
			server.GetHandler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}")))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestContainer_HTTPServer_UnsupportedForwardMode(t *testing.T) {
	container := NewContainer(testConfig("websocket"))

	_, err := container.HTTPServer(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
}

func TestContainer_HTTPServer_MissingCertificate(t *testing.T) {
	cfg := testConfig(config.ForwardModeGenerate)
	cfg.TLSEnabled = true
	cfg.TLSCertFile = "testdata/missing.crt"
	cfg.TLSKeyFile = "testdata/missing.key"
	container := NewContainer(cfg)

	_, err := container.HTTPServer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS")
}

func TestContainer_OptionalServers(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		container := NewContainer(testConfig(config.ForwardModeGenerate))

		assert.Nil(t, container.RedirectServer())

		metricsServer, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, metricsServer)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})

	t.Run("Enabled", func(t *testing.T) {
		cfg := testConfig(config.ForwardModeGenerate)
		cfg.RedirectEnabled = true
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)
		defer func() {
			assert.NoError(t, container.Shutdown(context.Background()))
		}()

		redirectServer := container.RedirectServer()
		require.NotNil(t, redirectServer)

		req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
		req.Host = "proxy.example.com"
		w := httptest.NewRecorder()
		redirectServer.GetHandler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "https://proxy.example.com:8443/api/generate", w.Header().Get("Location"))

		metricsServer, err := container.MetricsServer()
		require.NoError(t, err)
		require.NotNil(t, metricsServer)

		w = httptest.NewRecorder()
		metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestContainerShutdown verifies that the shutdown method can be called safely.
func TestContainerShutdown(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "info"})

	assert.NoError(t, container.Shutdown(context.Background()))
}
