package service

import (
	"context"
	"errors"
	"net"

	apperrors "github.com/allisson/genproxy/internal/errors"
	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
)

// ClassifyTransportError maps a failed upstream round trip to ErrUpstreamTimeout or
// ErrUpstreamUnreachable, keeping the original error as a log-only cause.
// Returns context.Canceled unchanged when the client went away.
func ClassifyTransportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return context.Canceled
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.WithCause(forwardDomain.ErrUpstreamTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.WithCause(forwardDomain.ErrUpstreamTimeout, err)
	}

	return apperrors.WithCause(forwardDomain.ErrUpstreamUnreachable, err)
}
