// Package service holds the process-wide mutable state owned by the administrator.
package service

import (
	"log/slog"
	"sync"
	"sync/atomic"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// CredentialStore holds the ordered upstream credentials and the active index.
// Reads are lock-free; switches are serialized.
type CredentialStore struct {
	credentials []adminDomain.Credential
	active      atomic.Int64
	mu          sync.Mutex
	logger      *slog.Logger
}

// NewCredentialStore creates a store whose active index is 0.
// Returns ErrNoCredentials when credentials is empty.
func NewCredentialStore(credentials []adminDomain.Credential, logger *slog.Logger) (*CredentialStore, error) {
	if len(credentials) == 0 {
		return nil, adminDomain.ErrNoCredentials
	}

	owned := make([]adminDomain.Credential, len(credentials))
	copy(owned, credentials)

	return &CredentialStore{
		credentials: owned,
		logger:      logger,
	}, nil
}

// Active returns the active index and its credential.
func (s *CredentialStore) Active() (int, adminDomain.Credential) {
	index := int(s.active.Load())
	return index, s.credentials[index]
}

// Size returns the number of credentials.
func (s *CredentialStore) Size() int {
	return len(s.credentials)
}

// SwitchTo makes index the active credential. The index is left unchanged on error.
func (s *CredentialStore) SwitchTo(index int) error {
	if index < 0 || index >= len(s.credentials) {
		return adminDomain.ErrIndexOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.active.Swap(int64(index))

	s.logger.Info("upstream credential switched",
		slog.Int64("from", from),
		slog.Int("to", index),
		slog.Int("size", len(s.credentials)),
	)

	return nil
}
