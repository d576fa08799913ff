package domain

import (
	"github.com/allisson/genproxy/internal/errors"
)

// Admission errors. All of them are reported to clients as authentication failures.
var (
	// ErrMissingAuthHeaders indicates one of x-sign, x-time or x-nonce is absent.
	ErrMissingAuthHeaders = errors.Define(errors.ErrUnauthorized, "missing authentication headers")

	// ErrRequestExpired indicates the request timestamp is outside the freshness window or unparsable.
	ErrRequestExpired = errors.Define(errors.ErrUnauthorized, "request expired")

	// ErrSignatureMismatch indicates the signature does not match the expected digest.
	ErrSignatureMismatch = errors.Define(errors.ErrUnauthorized, "invalid signature")

	// ErrNonceReused indicates the nonce was already used within the freshness window.
	ErrNonceReused = errors.Define(errors.ErrUnauthorized, "nonce already used")
)
