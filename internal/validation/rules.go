// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/genproxy/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
// The validation message is returned to clients as is.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Define(apperrors.ErrInvalidInput, err.Error())
}

// HeaderName validates an HTTP header field name (an RFC 9110 token).
var HeaderName = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.ContainsFunc(s, func(r rune) bool {
			return !isTokenRune(r)
		})
	},
	validation.NewError("validation_header_name", "must be a valid HTTP header name"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune("!#$%&'*+-.^_`|~", r)
	}
}
