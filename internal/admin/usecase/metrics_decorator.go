package usecase

import (
	"context"
	"time"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
	"github.com/allisson/genproxy/internal/metrics"
)

// adminUseCaseWithMetrics decorates AdminUseCase with metrics instrumentation.
type adminUseCaseWithMetrics struct {
	next    AdminUseCase
	metrics metrics.BusinessMetrics
}

// NewAdminUseCaseWithMetrics wraps an AdminUseCase with metrics recording.
func NewAdminUseCaseWithMetrics(useCase AdminUseCase, m metrics.BusinessMetrics) AdminUseCase {
	return &adminUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ToggleDevMode records metrics for developer mode changes.
func (a *adminUseCaseWithMetrics) ToggleDevMode(
	ctx context.Context,
	input *adminDomain.ToggleDevModeInput,
) (*adminDomain.ToggleDevModeOutput, error) {
	start := time.Now()
	output, err := a.next.ToggleDevMode(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "admin", "toggle_dev", status)
	a.metrics.RecordDuration(ctx, "admin", "toggle_dev", time.Since(start), status)

	return output, err
}

// SwitchCredential records metrics for credential switches.
func (a *adminUseCaseWithMetrics) SwitchCredential(
	ctx context.Context,
	input *adminDomain.SwitchCredentialInput,
) (*adminDomain.SwitchCredentialOutput, error) {
	start := time.Now()
	output, err := a.next.SwitchCredential(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "admin", "switch_credential", status)
	a.metrics.RecordDuration(ctx, "admin", "switch_credential", time.Since(start), status)

	return output, err
}
