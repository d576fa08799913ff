package app

import (
	"fmt"

	authService "github.com/allisson/genproxy/internal/auth/service"
)

// AdminMatcher returns the administrator secret matcher. A configured
// ADMIN_PASSWORD_HASH takes precedence over ADMIN_PASSWORD.
func (c *Container) AdminMatcher() (authService.SecretMatcher, error) {
	var err error
	c.adminMatcherInit.Do(func() {
		c.adminMatcher, err = c.initAdminMatcher()
		if err != nil {
			c.setInitError("adminMatcher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("adminMatcher"); storedErr != nil {
		return nil, storedErr
	}
	return c.adminMatcher, nil
}

// SignatureVerifier returns the request signature verifier.
func (c *Container) SignatureVerifier() (authService.SignatureVerifier, error) {
	var err error
	c.signatureVerifierInit.Do(func() {
		c.signatureVerifier, err = authService.NewSignatureVerifier(
			c.config.SignatureAlgorithm,
			c.config.SignatureWindow,
		)
		if err != nil {
			c.setInitError("signatureVerifier", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("signatureVerifier"); storedErr != nil {
		return nil, storedErr
	}
	return c.signatureVerifier, nil
}

// AuthGate returns the admission gate for business traffic.
func (c *Container) AuthGate() (*authService.Gate, error) {
	var err error
	c.authGateInit.Do(func() {
		c.authGate, err = c.initAuthGate()
		if err != nil {
			c.setInitError("authGate", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authGate"); storedErr != nil {
		return nil, storedErr
	}
	return c.authGate, nil
}

func (c *Container) initAdminMatcher() (authService.SecretMatcher, error) {
	if c.config.AdminPasswordHash != "" {
		matcher, err := authService.NewHashedSecretMatcher(c.config.AdminPasswordHash)
		if err != nil {
			return nil, fmt.Errorf("failed to create admin password matcher: %w", err)
		}
		return matcher, nil
	}
	return authService.NewPlainSecretMatcher(c.config.AdminPassword), nil
}

func (c *Container) initAuthGate() (*authService.Gate, error) {
	matcher, err := c.AdminMatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin matcher for auth gate: %w", err)
	}

	verifier, err := c.SignatureVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get signature verifier for auth gate: %w", err)
	}

	var nonces authService.NonceCache
	if c.config.NonceCacheEnabled {
		nonces = authService.NewNonceCache(2 * c.config.SignatureWindow)
	}

	return authService.NewGate(c.ModeFlag(), matcher, verifier, c.config.AuthSecret, nonces), nil
}
