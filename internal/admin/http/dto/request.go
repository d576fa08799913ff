// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"math"

	adminDomain "github.com/allisson/genproxy/internal/admin/domain"
)

// ToggleDevModeRequest is the body of POST /api/admin/toggle-dev.
// Enable is decoded loosely so a non-boolean value reaches the use case as a missing one.
type ToggleDevModeRequest struct {
	Password string `json:"password"`
	Enable   any    `json:"enable"`
}

// ToInput maps the request to the use case input.
func (r *ToggleDevModeRequest) ToInput() *adminDomain.ToggleDevModeInput {
	input := &adminDomain.ToggleDevModeInput{Password: r.Password}
	if enable, ok := r.Enable.(bool); ok {
		input.Enable = &enable
	}
	return input
}

// SwitchCredentialRequest is the body of POST /api/admin/switch.
type SwitchCredentialRequest struct {
	Password string `json:"password"`
	Index    any    `json:"index"`
}

// ToInput maps the request to the use case input. Only integral JSON numbers are accepted as index.
func (r *SwitchCredentialRequest) ToInput() *adminDomain.SwitchCredentialInput {
	input := &adminDomain.SwitchCredentialInput{Password: r.Password}
	if index, ok := integral(r.Index); ok {
		input.Index = &index
	}
	return input
}

func integral(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		// Integral values beyond int are kept out of range for the store to reject.
		switch {
		case v >= math.MaxInt64:
			return math.MaxInt, true
		case v < math.MinInt64:
			return math.MinInt, true
		}
		return clampInt(int64(v)), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return clampInt(i), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case int:
		return v, true
	default:
		return 0, false
	}
}

func clampInt(i int64) int {
	switch {
	case i > math.MaxInt:
		return math.MaxInt
	case i < math.MinInt:
		return math.MinInt
	}
	return int(i)
}
