// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// MockAdminUseCase is a mock implementation of AdminUseCase for testing.
type MockAdminUseCase struct {
	mock.Mock
}

// ToggleDevMode mocks the ToggleDevMode method of AdminUseCase.
func (m *MockAdminUseCase) ToggleDevMode(
	ctx context.Context,
	input *adminDomain.ToggleDevModeInput,
) (*adminDomain.ToggleDevModeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.ToggleDevModeOutput), args.Error(1)
}

// SwitchCredential mocks the SwitchCredential method of AdminUseCase.
func (m *MockAdminUseCase) SwitchCredential(
	ctx context.Context,
	input *adminDomain.SwitchCredentialInput,
) (*adminDomain.SwitchCredentialOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.SwitchCredentialOutput), args.Error(1)
}
