// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP responses by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard error categories that can be used across all domain modules.
var (
	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrTimeout indicates a dependency did not answer within the configured deadline.
	ErrTimeout = errors.New("timeout")

	// ErrUnavailable indicates a dependency could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrBadGateway indicates a dependency answered with an error.
	ErrBadGateway = errors.New("bad gateway")

	// ErrTooManyRequests indicates the caller exceeded its rate limit.
	ErrTooManyRequests = errors.New("too many requests")
)

// Error is a domain error with a message that is safe to return to clients.
// Kind is one of the category sentinels above and is reachable through errors.Is.
type Error struct {
	Kind    error
	Message string
}

// Error returns the client-safe message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the category sentinel.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Define creates a domain error of the given category.
func Define(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Refine derives a domain error with a more specific client-safe message.
// The result matches base and base's category through errors.Is.
func Refine(base *Error, message string) *Error {
	return &Error{Kind: base, Message: message}
}

// PublicMessage returns the client-safe message of the first domain error in err's tree.
// Returns an empty string if err carries no domain error.
func PublicMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WithCause attaches a cause to a domain error for server-side logging.
// Only the domain error is matched by errors.Is/As; the cause is kept as text.
func WithCause(domainErr error, cause error) error {
	if cause == nil {
		return domainErr
	}
	return fmt.Errorf("%w: %v", domainErr, cause)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
