package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"time"
)

// certificateExpiryWarning is how close to expiry a certificate triggers a warning.
const certificateExpiryWarning = 30 * 24 * time.Hour

// LoadTLSConfig loads the PEM certificate chain and key and validates the leaf.
// Missing, unreadable or mismatched files and expired certificates are errors; a
// certificate expiring within 30 days is logged as a warning.
func LoadTLSConfig(certFile, keyFile string, now time.Time, logger *slog.Logger) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	leaf := cert.Leaf
	if leaf == nil {
		leaf, err = x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse TLS certificate: %w", err)
		}
		cert.Leaf = leaf
	}

	if now.After(leaf.NotAfter) {
		return nil, fmt.Errorf("TLS certificate expired at %s", leaf.NotAfter.Format(time.RFC3339))
	}
	if now.Before(leaf.NotBefore) {
		return nil, fmt.Errorf("TLS certificate not valid before %s", leaf.NotBefore.Format(time.RFC3339))
	}

	if remaining := leaf.NotAfter.Sub(now); remaining < certificateExpiryWarning {
		logger.Warn("TLS certificate expires soon",
			slog.Time("not_after", leaf.NotAfter),
			slog.Duration("remaining", remaining.Round(time.Hour)),
			slog.String("subject", leaf.Subject.CommonName),
		)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
