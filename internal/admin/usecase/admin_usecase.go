package usecase

import (
	"context"
	"log/slog"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// adminUseCase implements AdminUseCase.
type adminUseCase struct {
	password    PasswordMatcher
	mode        ModeSetter
	credentials CredentialSwitcher
	logger      *slog.Logger
}

// ToggleDevMode sets the developer mode flag and returns the new state.
func (a *adminUseCase) ToggleDevMode(
	ctx context.Context,
	input *adminDomain.ToggleDevModeInput,
) (*adminDomain.ToggleDevModeOutput, error) {
	if !a.password.Matches(input.Password) {
		a.logger.WarnContext(ctx, "admin operation rejected", slog.String("operation", "toggle_dev"))
		return nil, adminDomain.ErrInvalidAdminPassword
	}
	if input.Enable == nil {
		return nil, adminDomain.ErrInvalidEnableValue
	}

	previous := a.mode.Set(*input.Enable)

	a.logger.InfoContext(ctx, "admin operation",
		slog.String("operation", "toggle_dev"),
		slog.Bool("previous", previous),
		slog.Bool("dev_mode", *input.Enable),
	)

	return &adminDomain.ToggleDevModeOutput{IsDevMode: *input.Enable}, nil
}

// SwitchCredential makes the credential at the requested index active.
func (a *adminUseCase) SwitchCredential(
	ctx context.Context,
	input *adminDomain.SwitchCredentialInput,
) (*adminDomain.SwitchCredentialOutput, error) {
	if !a.password.Matches(input.Password) {
		a.logger.WarnContext(ctx, "admin operation rejected", slog.String("operation", "switch_credential"))
		return nil, adminDomain.ErrInvalidAdminPassword
	}
	if input.Index == nil {
		return nil, adminDomain.ErrInvalidIndex
	}

	if err := a.credentials.SwitchTo(*input.Index); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "admin operation",
		slog.String("operation", "switch_credential"),
		slog.Int("index", *input.Index),
	)

	return &adminDomain.SwitchCredentialOutput{CurrentIndex: *input.Index}, nil
}

// NewAdminUseCase creates a new AdminUseCase.
func NewAdminUseCase(
	password PasswordMatcher,
	mode ModeSetter,
	credentials CredentialSwitcher,
	logger *slog.Logger,
) AdminUseCase {
	return &adminUseCase{
		password:    password,
		mode:        mode,
		credentials: credentials,
		logger:      logger,
	}
}
