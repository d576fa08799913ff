package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
	authService "github.com/allisson/genproxy/internal/auth/service"
)

// RunSign prints the signature headers a client must send with a business request.
// An empty nonce is replaced by a random UUID; a zero timestamp means now.
//
// Output format:
//   - text: one "header: value" line per header, ready for curl -H
//   - json: {"x-sign": ..., "x-time": ..., "x-nonce": ...}
func RunSign(
	verifier authService.SignatureVerifier,
	writer io.Writer,
	secret string,
	timestamp time.Time,
	nonce string,
	format string,
) error {
	if secret == "" {
		return errors.New("auth secret is required (set AUTH_SECRET or pass --secret)")
	}

	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	if nonce == "" {
		nonce = uuid.NewString()
	}

	ts := strconv.FormatInt(timestamp.Unix(), 10)
	headers := map[string]string{
		authDomain.HeaderSignature: verifier.Sign(secret, ts, nonce),
		authDomain.HeaderTimestamp: ts,
		authDomain.HeaderNonce:     nonce,
	}

	if format == "json" {
		return outputJSON(headers, writer)
	}

	for _, name := range []string{authDomain.HeaderSignature, authDomain.HeaderTimestamp, authDomain.HeaderNonce} {
		_, _ = fmt.Fprintf(writer, "%s: %s\n", name, headers[name])
	}
	return nil
}
