// Package usecase implements the structured generate call: it resolves the active
// credential, bounds the upstream call by the timeout ceiling and wraps the result.
package usecase

import (
	"context"

	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
)

// GenerateUseCase defines the structured forwarding mode.
type GenerateUseCase interface {
	Generate(ctx context.Context, input *forwardDomain.GenerateInput) (*forwardDomain.GenerateOutput, error)
}
