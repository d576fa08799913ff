// Package usecase implements the administrator operations that mutate runtime state:
// toggling developer mode and switching the active upstream credential.
package usecase

import (
	"context"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// PasswordMatcher checks the administrator secret.
type PasswordMatcher interface {
	Matches(candidate string) bool
}

// ModeSetter changes the developer mode flag.
type ModeSetter interface {
	IsDevMode() bool
	Set(enable bool) bool
}

// CredentialSwitcher changes the active upstream credential.
type CredentialSwitcher interface {
	Active() (int, adminDomain.Credential)
	SwitchTo(index int) error
}

// AdminUseCase defines the privileged operations. Each checks the password before anything else
// and has no effect when rejected.
type AdminUseCase interface {
	ToggleDevMode(ctx context.Context, input *adminDomain.ToggleDevModeInput) (*adminDomain.ToggleDevModeOutput, error)
	SwitchCredential(
		ctx context.Context,
		input *adminDomain.SwitchCredentialInput,
	) (*adminDomain.SwitchCredentialOutput, error)
}
