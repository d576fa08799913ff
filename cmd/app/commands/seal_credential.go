package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	cryptoService "github.com/allisson/genproxy/internal/crypto/service"
)

// RunSealCredential encrypts upstream API keys with the KMS key at kmsKeyURI and prints
// the UPSTREAM_API_KEYS and KMS_KEY_URI lines. The proxy unseals them at startup.
//
// For local development, use kmsKeyURI="base64key://<32-byte-base64-key>". Never use
// base64key:// in production; use gcpkms://, awskms://, azurekeyvault:// or hashivault://.
func RunSealCredential(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	credentials []string,
) error {
	if kmsKeyURI == "" {
		return errors.New(
			"--kms-key-uri is required\n\nFor local development, use:\n  --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use a cloud KMS:\n  --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-key-uri=\"awskms:///alias/...\"",
		)
	}
	if len(credentials) == 0 {
		return errors.New("at least one credential is required")
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	sealer := cryptoService.NewSealer(keeper)
	sealed := make([]string, 0, len(credentials))
	for i, credential := range credentials {
		entry, err := sealer.Seal(ctx, credential)
		if err != nil {
			return fmt.Errorf("credential #%d: %w", i+1, err)
		}
		sealed = append(sealed, entry)
	}

	logger.Info("upstream credentials sealed", slog.Int("count", len(sealed)))

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "UPSTREAM_API_KEYS=\"%s\"\n", strings.Join(sealed, ","))
	return nil
}
