package service

import (
	"crypto/hmac"
	"crypto/md5" // #nosec G501 -- md5 is the wire-compatible default of the signature scheme
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

// Supported digest algorithms.
const (
	AlgorithmMD5        = "md5"
	AlgorithmHMACSHA256 = "hmac-sha256"
)

type digestFunc func(secret string, message []byte) []byte

type signatureVerifier struct {
	digest digestFunc
	window time.Duration
}

// NewSignatureVerifier creates a verifier for the given algorithm and freshness window.
// A non-positive window falls back to DefaultSignatureWindow.
func NewSignatureVerifier(algorithm string, window time.Duration) (SignatureVerifier, error) {
	if window <= 0 {
		window = authDomain.DefaultSignatureWindow
	}

	var digest digestFunc
	switch algorithm {
	case AlgorithmMD5, "":
		digest = md5Digest
	case AlgorithmHMACSHA256:
		digest = hmacSHA256Digest
	default:
		return nil, fmt.Errorf("unsupported signature algorithm: %s", algorithm)
	}

	return &signatureVerifier{digest: digest, window: window}, nil
}

// Verify checks header presence, timestamp freshness and the signature, in that order.
func (v *signatureVerifier) Verify(secret string, req authDomain.SignatureRequest, now time.Time) error {
	if !req.IsComplete() {
		return authDomain.ErrMissingAuthHeaders
	}

	timestamp, err := strconv.ParseInt(req.Timestamp, 10, 64)
	if err != nil {
		return authDomain.ErrRequestExpired
	}

	// The window is symmetric: stale and future timestamps are both rejected.
	nowSec := now.Unix()
	windowSec := int64(v.window / time.Second)
	if timestamp < nowSec-windowSec || timestamp > nowSec+windowSec {
		return authDomain.ErrRequestExpired
	}

	expected := v.Sign(secret, req.Timestamp, req.Nonce)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.Signature)) != 1 {
		return authDomain.ErrSignatureMismatch
	}

	return nil
}

// Sign digests secret‖timestamp‖nonce and renders it as lowercase hex.
func (v *signatureVerifier) Sign(secret, timestamp, nonce string) string {
	message := make([]byte, 0, len(secret)+len(timestamp)+len(nonce))
	message = append(message, secret...)
	message = append(message, timestamp...)
	message = append(message, nonce...)
	return hex.EncodeToString(v.digest(secret, message))
}

func md5Digest(_ string, message []byte) []byte {
	sum := md5.Sum(message) // #nosec G401
	return sum[:]
}

func hmacSHA256Digest(secret string, message []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return mac.Sum(nil)
}
