package usecase

import (
	"context"
	"time"

	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
	"github.com/allisson/genproxy/internal/metrics"
)

// generateUseCaseWithMetrics decorates GenerateUseCase with metrics instrumentation.
type generateUseCaseWithMetrics struct {
	next    GenerateUseCase
	metrics metrics.BusinessMetrics
}

// NewGenerateUseCaseWithMetrics wraps a GenerateUseCase with metrics recording.
func NewGenerateUseCaseWithMetrics(useCase GenerateUseCase, m metrics.BusinessMetrics) GenerateUseCase {
	return &generateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Generate records metrics for structured upstream calls.
func (g *generateUseCaseWithMetrics) Generate(
	ctx context.Context,
	input *forwardDomain.GenerateInput,
) (*forwardDomain.GenerateOutput, error) {
	start := time.Now()
	output, err := g.next.Generate(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "forward", "generate", status)
	g.metrics.RecordDuration(ctx, "forward", "generate", time.Since(start), status)

	return output, err
}
