// Package config provides application configuration through environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	apperrors "github.com/allisson/genproxy/internal/errors"
	customValidation "github.com/allisson/genproxy/internal/validation"
)

// Forwarding modes. A deployment serves exactly one of them.
const (
	// ForwardModeGenerate exposes POST /api/generate and calls the upstream through the genai SDK.
	ForwardModeGenerate = "generate"
	// ForwardModeProxy forwards every non-admin request to the upstream unchanged.
	ForwardModeProxy = "proxy"
)

// Signature digest algorithms.
const (
	SignatureAlgorithmMD5        = "md5"
	SignatureAlgorithmHMACSHA256 = "hmac-sha256"
)

// ErrInvalidConfiguration is returned by Validate when the process must not start.
var ErrInvalidConfiguration = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid configuration")

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// TLSEnabled indicates whether the main listener terminates TLS itself.
	TLSEnabled bool
	// TLSCertFile is the path to the PEM encoded certificate chain.
	TLSCertFile string
	// TLSKeyFile is the path to the PEM encoded private key.
	TLSKeyFile string

	// RedirectEnabled starts a plaintext listener answering every request with a 301 to HTTPS.
	RedirectEnabled bool
	// RedirectPort is the port number of the redirect listener.
	RedirectPort int

	// ForwardMode selects the forwarding engine ("generate" or "proxy").
	ForwardMode string
	// UpstreamBaseURL is the base URL of the upstream API.
	UpstreamBaseURL string
	// UpstreamAPIKeys is the ordered list of upstream credentials (possibly KMS sealed).
	UpstreamAPIKeys []string
	// UpstreamAuthHeader is the header carrying the credential in proxy mode.
	UpstreamAuthHeader string
	// UpstreamTimeout is the single timeout ceiling shared by the listener, the transport and the upstream call.
	UpstreamTimeout time.Duration

	// AuthSecret is the shared secret used to verify request signatures.
	AuthSecret string
	// AdminPassword is the administrator secret in plain text.
	AdminPassword string
	// AdminPasswordHash is an Argon2id hash of the administrator secret; takes precedence over AdminPassword.
	AdminPasswordHash string
	// SignatureAlgorithm is the digest used for request signatures ("md5" or "hmac-sha256").
	SignatureAlgorithm string
	// SignatureWindow is the maximum allowed distance between the request timestamp and now.
	SignatureWindow time.Duration
	// NonceCacheEnabled rejects nonces reused within the signature window.
	NonceCacheEnabled bool

	// MaxRequestBodyBytes caps the body size of structured generate requests.
	MaxRequestBodyBytes int64

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitAdminEnabled indicates whether per-IP rate limiting of admin endpoints is enabled.
	RateLimitAdminEnabled bool
	// RateLimitAdminRequestsPerSec is the number of admin requests allowed per second per IP.
	RateLimitAdminRequestsPerSec float64
	// RateLimitAdminBurst is the burst size for admin rate limiting.
	RateLimitAdminBurst int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// KMSKeyURI is the URI of the key used to unseal UpstreamAPIKeys. Empty means plain keys.
	KMSKeyURI string

	// ShutdownTimeout bounds graceful shutdown of the listeners.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	rawKeys := env.GetString("UPSTREAM_API_KEYS", "")
	if rawKeys == "" {
		rawKeys = env.GetString("GEMINI_API_KEYS", "")
	}

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// TLS
		TLSEnabled:  env.GetBool("TLS_ENABLED", false),
		TLSCertFile: env.GetString("TLS_CERT_FILE", "certs/server.crt"),
		TLSKeyFile:  env.GetString("TLS_KEY_FILE", "certs/server.key"),

		// HTTP to HTTPS redirect
		RedirectEnabled: env.GetBool("REDIRECT_ENABLED", false),
		RedirectPort:    env.GetInt("REDIRECT_PORT", 80),

		// Upstream
		ForwardMode:        env.GetString("FORWARD_MODE", ForwardModeGenerate),
		UpstreamBaseURL:    env.GetString("UPSTREAM_BASE_URL", "https://generativelanguage.googleapis.com"),
		UpstreamAPIKeys:    SplitList(rawKeys),
		UpstreamAuthHeader: env.GetString("UPSTREAM_AUTH_HEADER", "x-goog-api-key"),
		UpstreamTimeout:    env.GetDuration("UPSTREAM_TIMEOUT_SECONDS", 600, time.Second),

		// Auth
		AuthSecret:         env.GetString("AUTH_SECRET", ""),
		AdminPassword:      env.GetString("ADMIN_PASSWORD", ""),
		AdminPasswordHash:  env.GetString("ADMIN_PASSWORD_HASH", ""),
		SignatureAlgorithm: env.GetString("SIGNATURE_ALGORITHM", SignatureAlgorithmMD5),
		SignatureWindow:    env.GetDuration("SIGNATURE_WINDOW_SECONDS", 300, time.Second),
		NonceCacheEnabled:  env.GetBool("NONCE_CACHE_ENABLED", false),

		MaxRequestBodyBytes: int64(env.GetInt("MAX_REQUEST_BODY_BYTES", 50<<20)),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate Limiting (admin endpoints, IP-based)
		RateLimitAdminEnabled:        env.GetBool("RATE_LIMIT_ADMIN_ENABLED", true),
		RateLimitAdminRequestsPerSec: env.GetFloat64("RATE_LIMIT_ADMIN_REQUESTS_PER_SEC", 1.0),
		RateLimitAdminBurst:          env.GetInt("RATE_LIMIT_ADMIN_BURST", 5),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "genproxy"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// KMS configuration
		KMSKeyURI: env.GetString("KMS_KEY_URI", ""),

		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// Validate checks that the configuration is complete enough to serve traffic.
// The returned error wraps ErrInvalidConfiguration and lists every offending field.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ForwardMode,
			validation.Required,
			validation.In(ForwardModeGenerate, ForwardModeProxy),
		),
		validation.Field(&c.UpstreamBaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.UpstreamAPIKeys,
			validation.Required.Error("at least one upstream credential is required"),
			validation.When(c.KMSKeyURI != "", validation.Each(customValidation.Base64)),
		),
		validation.Field(&c.UpstreamAuthHeader, validation.Required, customValidation.HeaderName),
		validation.Field(&c.UpstreamTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.AuthSecret, validation.Required),
		validation.Field(&c.AdminPassword,
			validation.When(c.AdminPasswordHash == "",
				validation.Required.Error("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"),
			),
		),
		validation.Field(&c.SignatureAlgorithm,
			validation.Required,
			validation.In(SignatureAlgorithmMD5, SignatureAlgorithmHMACSHA256),
		),
		validation.Field(&c.SignatureWindow, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.MaxRequestBodyBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.TLSCertFile, validation.When(c.TLSEnabled, validation.Required)),
		validation.Field(&c.TLSKeyFile, validation.When(c.TLSEnabled, validation.Required)),
		validation.Field(&c.RedirectPort,
			validation.When(c.RedirectEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
		validation.Field(&c.RateLimitAdminRequestsPerSec,
			validation.When(c.RateLimitAdminEnabled, validation.Required, validation.Min(0.0)),
		),
		validation.Field(&c.RateLimitAdminBurst,
			validation.When(c.RateLimitAdminEnabled, validation.Required, validation.Min(1)),
		),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// SplitList parses a comma-separated list and trims whitespace.
// Empty entries are dropped.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}

	return items
}

func absoluteURL(value interface{}) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return validation.NewError("validation_absolute_url", "must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_url_scheme", "must use http or https")
	}
	return nil
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
