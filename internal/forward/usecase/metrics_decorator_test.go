package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
	"github.com/allisson/genproxy/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockGenerateUseCase is a mock implementation of GenerateUseCase for testing.
type mockGenerateUseCase struct {
	mock.Mock
}

func (m *mockGenerateUseCase) Generate(
	ctx context.Context,
	input *forwardDomain.GenerateInput,
) (*forwardDomain.GenerateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forwardDomain.GenerateOutput), args.Error(1)
}

func TestMetricsDecorator_Generate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		output *forwardDomain.GenerateOutput
		err    error
		status string
	}{
		{"Success_RecordsSuccessMetrics", &forwardDomain.GenerateOutput{}, nil, "success"},
		{"Error_RecordsErrorMetrics", nil, forwardDomain.ErrUpstreamUnreachable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := &mockGenerateUseCase{}
			mockMetrics := &mockBusinessMetrics{}
			input := testInput()

			if tt.output != nil {
				mockUseCase.On("Generate", ctx, input).Return(tt.output, nil).Once()
			} else {
				mockUseCase.On("Generate", ctx, input).Return(nil, tt.err).Once()
			}
			mockMetrics.On("RecordOperation", ctx, "forward", "generate", tt.status).Return().Once()
			mockMetrics.On("RecordDuration", ctx, "forward", "generate", mock.AnythingOfType("time.Duration"), tt.status).
				Return().
				Once()

			output, err := NewGenerateUseCaseWithMetrics(mockUseCase, mockMetrics).Generate(ctx, input)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, output)
			} else {
				require.NoError(t, err)
				assert.Same(t, tt.output, output)
			}
			mockUseCase.AssertExpectations(t)
			mockMetrics.AssertExpectations(t)
		})
	}
}
