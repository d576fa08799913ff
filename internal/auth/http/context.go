// Package http provides the admission middleware for business traffic and the
// rate limiter guarding the administrator endpoints.
package http

import (
	"context"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

// admissionKey is a context key type for storing the admission outcome.
type admissionKey struct{}

// WithAdmission stores the admission outcome in the context.
func WithAdmission(ctx context.Context, admission authDomain.Admission) context.Context {
	return context.WithValue(ctx, admissionKey{}, admission)
}

// GetAdmission retrieves the admission outcome from the context.
// Returns (admission, true) if present, or a zero value and false if the request was not admitted by the gate.
func GetAdmission(ctx context.Context) (authDomain.Admission, bool) {
	admission, ok := ctx.Value(admissionKey{}).(authDomain.Admission)
	return admission, ok
}
