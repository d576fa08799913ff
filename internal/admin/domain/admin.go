package domain

// ToggleDevModeInput carries a developer mode change request.
// Enable is nil when the payload did not carry a boolean.
type ToggleDevModeInput struct {
	Password string
	Enable   *bool
}

// ToggleDevModeOutput reports the developer mode state after the change.
type ToggleDevModeOutput struct {
	IsDevMode bool
}

// SwitchCredentialInput carries a credential switch request.
// Index is nil when the payload did not carry an integer.
type SwitchCredentialInput struct {
	Password string
	Index    *int
}

// SwitchCredentialOutput reports the active credential index after the switch.
type SwitchCredentialOutput struct {
	CurrentIndex int
}
