package service

import (
	"context"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/genproxy/internal/crypto/domain"
)

// Sealer converts credentials to and from their sealed form: the standard base64
// encoding of the KMS ciphertext.
type Sealer struct {
	keeper cryptoDomain.Keeper
}

// NewSealer creates a Sealer over keeper. The caller keeps ownership of keeper.
func NewSealer(keeper cryptoDomain.Keeper) *Sealer {
	return &Sealer{keeper: keeper}
}

// Seal encrypts a plain credential.
func (s *Sealer) Seal(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", cryptoDomain.ErrEmptyCredential
	}

	ciphertext, err := s.keeper.Encrypt(ctx, []byte(credential))
	if err != nil {
		return "", fmt.Errorf("failed to seal credential: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// UnsealAll decrypts every sealed credential, preserving order. Every entry is decoded
// before the keeper is called. Errors name the failing position only; credential
// material never appears in them.
func (s *Sealer) UnsealAll(ctx context.Context, sealed []string) ([]string, error) {
	ciphertexts := make([][]byte, 0, len(sealed))
	for i, entry := range sealed {
		ciphertext, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf("credential #%d: %w", i+1, cryptoDomain.ErrMalformedSealedCredential)
		}
		ciphertexts = append(ciphertexts, ciphertext)
	}

	plain := make([]string, 0, len(sealed))
	for i, ciphertext := range ciphertexts {
		plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("credential #%d: %w: %v", i+1, cryptoDomain.ErrUnsealFailed, err)
		}
		if len(plaintext) == 0 {
			return nil, fmt.Errorf("credential #%d: %w", i+1, cryptoDomain.ErrEmptyCredential)
		}

		plain = append(plain, string(plaintext))
		clear(plaintext)
	}

	return plain, nil
}
