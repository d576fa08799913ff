// Package domain defines the key management contracts used to keep upstream
// credentials sealed at rest.
package domain

import (
	"context"

	"github.com/allisson/genproxy/internal/errors"
)

// Keeper encrypts and decrypts small payloads with a key held by a KMS.
// *secrets.Keeper from gocloud.dev/secrets satisfies it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

var (
	// ErrMalformedSealedCredential indicates a sealed credential is not valid base64.
	ErrMalformedSealedCredential = errors.Wrap(errors.ErrInvalidInput, "sealed credential is not valid base64")

	// ErrUnsealFailed indicates the KMS refused to decrypt a sealed credential.
	ErrUnsealFailed = errors.Wrap(errors.ErrInvalidInput, "failed to unseal credential")

	// ErrEmptyCredential indicates an empty credential was given for sealing or came out of unsealing.
	ErrEmptyCredential = errors.Wrap(errors.ErrInvalidInput, "credential is empty")
)
