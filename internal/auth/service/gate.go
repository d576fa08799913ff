package service

import (
	"net/http"
	"time"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

// Gate makes the admission decision for business traffic.
//
// Decision order, first match wins:
//  1. developer mode enabled
//  2. x-admin-pass header matching the administrator secret
//  3. signature headers verified against the auth secret (plus nonce replay check when enabled)
type Gate struct {
	mode       ModeReader
	admin      SecretMatcher
	verifier   SignatureVerifier
	authSecret string
	nonces     NonceCache
	now        func() time.Time
}

// NewGate creates an admission gate. nonces may be nil to disable replay tracking.
func NewGate(
	mode ModeReader,
	admin SecretMatcher,
	verifier SignatureVerifier,
	authSecret string,
	nonces NonceCache,
) *Gate {
	return &Gate{
		mode:       mode,
		admin:      admin,
		verifier:   verifier,
		authSecret: authSecret,
		nonces:     nonces,
		now:        time.Now,
	}
}

// Admit returns the admission branch that accepted the request, or the rejection reason.
func (g *Gate) Admit(header http.Header) (authDomain.Via, error) {
	if g.mode.IsDevMode() {
		return authDomain.ViaDevMode, nil
	}

	if g.admin.Matches(header.Get(authDomain.HeaderAdminPass)) {
		return authDomain.ViaAdminHeader, nil
	}

	now := g.now()
	req := authDomain.SignatureRequestFromHeader(header)
	if err := g.verifier.Verify(g.authSecret, req, now); err != nil {
		return "", err
	}

	// Only nonces of verified signatures are recorded.
	if g.nonces != nil && g.nonces.Seen(req.Nonce, now) {
		return "", authDomain.ErrNonceReused
	}

	return authDomain.ViaSignature, nil
}
