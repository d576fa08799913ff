// Package domain defines the runtime state mutated by the administrator: the upstream
// credential set and the developer mode flag, plus the inputs and outputs of admin operations.
package domain

import "log/slog"

const redacted = "[REDACTED]"

// Credential is an opaque upstream secret. It never renders its value in logs or format verbs.
type Credential string

// String implements fmt.Stringer.
func (c Credential) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v stays redacted too.
func (c Credential) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Reveal returns the raw secret for injection into upstream requests.
func (c Credential) Reveal() string {
	return string(c)
}

// NewCredentials converts raw secrets into a credential set, preserving order.
func NewCredentials(raw []string) []Credential {
	credentials := make([]Credential, len(raw))
	for i, secret := range raw {
		credentials[i] = Credential(secret)
	}
	return credentials
}
