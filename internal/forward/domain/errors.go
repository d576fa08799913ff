// Package domain defines the forwarding model: structured generate requests and the
// errors raised while talking to the upstream API.
package domain

import (
	"github.com/allisson/genproxy/internal/errors"
)

// Upstream errors. Their causes are logged server-side only.
var (
	// ErrUpstreamTimeout indicates the upstream did not answer within the timeout ceiling.
	ErrUpstreamTimeout = errors.Define(errors.ErrTimeout, "upstream timeout")

	// ErrUpstreamUnreachable indicates the upstream could not be reached (refused, DNS, TLS, reset).
	ErrUpstreamUnreachable = errors.Define(errors.ErrUnavailable, "upstream unreachable")

	// ErrUpstreamError indicates the upstream answered with a non-2xx status.
	ErrUpstreamError = errors.Define(errors.ErrBadGateway, "upstream error")
)

// Request errors.
var (
	// ErrModelRequired indicates the generate request has no model.
	ErrModelRequired = errors.Define(errors.ErrInvalidInput, "model is required")

	// ErrInvalidContents indicates contents is missing or has an unsupported shape.
	ErrInvalidContents = errors.Define(
		errors.ErrInvalidInput,
		"contents must be a string, a content object or a list of them",
	)

	// ErrInvalidConfig indicates config is not a generation config object.
	ErrInvalidConfig = errors.Define(errors.ErrInvalidInput, "config must be a generation config object")
)
