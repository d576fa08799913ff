// Package service implements request admission for business traffic: signature
// verification, nonce replay tracking, administrator secret matching and the gate
// composing them.
package service

import (
	"time"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

// SignatureVerifier validates time-boxed request signatures.
type SignatureVerifier interface {
	// Verify returns nil when the request is admitted, or one of ErrMissingAuthHeaders,
	// ErrRequestExpired and ErrSignatureMismatch.
	Verify(secret string, req authDomain.SignatureRequest, now time.Time) error

	// Sign computes the lowercase hex signature for secret, timestamp and nonce.
	Sign(secret, timestamp, nonce string) string
}

// SecretMatcher compares a candidate against the administrator secret.
type SecretMatcher interface {
	// Matches reports whether candidate equals the secret. Empty candidates never match.
	Matches(candidate string) bool
}

// NonceCache remembers nonces for a bounded period.
type NonceCache interface {
	// Seen records nonce and reports whether it was already recorded and not yet expired.
	Seen(nonce string, now time.Time) bool
}

// ModeReader exposes the developer mode flag.
type ModeReader interface {
	IsDevMode() bool
}
