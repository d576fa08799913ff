// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	forwardDomain "github.com/allisson/genproxy/internal/forward/domain"
)

// MockGenerateUseCase is a mock implementation of GenerateUseCase for testing.
type MockGenerateUseCase struct {
	mock.Mock
}

// Generate mocks the Generate method of GenerateUseCase.
func (m *MockGenerateUseCase) Generate(
	ctx context.Context,
	input *forwardDomain.GenerateInput,
) (*forwardDomain.GenerateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forwardDomain.GenerateOutput), args.Error(1)
}
