package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync/atomic"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentHashVerifies caps in-flight Argon2id derivations per matcher.
const maxConcurrentHashVerifies = 2

// plainSecretMatcher compares digests of both values so the comparison time does not
// depend on where the inputs differ or on their lengths.
type plainSecretMatcher struct {
	digest [sha256.Size]byte
}

// NewPlainSecretMatcher creates a matcher for a secret configured in plain text.
func NewPlainSecretMatcher(secret string) SecretMatcher {
	return &plainSecretMatcher{digest: sha256.Sum256([]byte(secret))}
}

func (m *plainSecretMatcher) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}
	candidateDigest := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(m.digest[:], candidateDigest[:]) == 1
}

// hashedSecretMatcher verifies candidates against an Argon2id hash.
// A derivation costs one Argon2id run, so at most maxConcurrentHashVerifies run at once
// and candidates arriving beyond that are rejected. The digest of the last verified
// candidate is remembered and short-circuits later matches.
type hashedSecretMatcher struct {
	hasher   *pwdhash.PasswordHasher
	hash     string
	slots    *semaphore.Weighted
	verified atomic.Pointer[[sha256.Size]byte]
}

// NewHashedSecretMatcher creates a matcher for a secret configured as an Argon2id hash
// produced by HashSecret.
func NewHashedSecretMatcher(hash string) (SecretMatcher, error) {
	if hash == "" {
		return nil, fmt.Errorf("empty secret hash")
	}
	hasher, err := newHasher()
	if err != nil {
		return nil, err
	}
	return &hashedSecretMatcher{
		hasher: hasher,
		hash:   hash,
		slots:  semaphore.NewWeighted(maxConcurrentHashVerifies),
	}, nil
}

func (m *hashedSecretMatcher) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}

	digest := sha256.Sum256([]byte(candidate))
	if known := m.verified.Load(); known != nil && subtle.ConstantTimeCompare(known[:], digest[:]) == 1 {
		return true
	}

	if !m.slots.TryAcquire(1) {
		return false
	}
	defer m.slots.Release(1)

	ok, err := m.hasher.Verify([]byte(candidate), m.hash)
	if err != nil || !ok {
		return false
	}
	m.verified.Store(&digest)
	return true
}

// HashSecret hashes a plain text secret using Argon2id with the interactive policy.
func HashSecret(plain string) (string, error) {
	hasher, err := newHasher()
	if err != nil {
		return "", err
	}
	hash, err := hasher.Hash([]byte(plain))
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return hash, nil
}

func newHasher() (*pwdhash.PasswordHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	return hasher, nil
}
