package service

import (
	"sync/atomic"
)

// ModeFlag is the developer mode switch. The zero value is disabled.
type ModeFlag struct {
	enabled atomic.Bool
}

// NewModeFlag creates a disabled flag.
func NewModeFlag() *ModeFlag {
	return &ModeFlag{}
}

// IsDevMode reports whether developer mode is enabled.
func (f *ModeFlag) IsDevMode() bool {
	return f.enabled.Load()
}

// Set changes the flag and returns the previous value.
func (f *ModeFlag) Set(enable bool) bool {
	return f.enabled.Swap(enable)
}
