package dto

import (
	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// ToggleDevModeResponse reports the developer mode state.
type ToggleDevModeResponse struct {
	IsDevMode bool `json:"isDevMode"`
}

// SwitchCredentialResponse reports the active credential index.
type SwitchCredentialResponse struct {
	CurrentIndex int `json:"currentIndex"`
}

// MapToggleDevModeOutput converts the use case output to the response body.
func MapToggleDevModeOutput(output *adminDomain.ToggleDevModeOutput) ToggleDevModeResponse {
	return ToggleDevModeResponse{IsDevMode: output.IsDevMode}
}

// MapSwitchCredentialOutput converts the use case output to the response body.
func MapSwitchCredentialOutput(output *adminDomain.SwitchCredentialOutput) SwitchCredentialResponse {
	return SwitchCredentialResponse{CurrentIndex: output.CurrentIndex}
}
