package domain

import (
	"github.com/allisson/genproxy/internal/errors"
)

// Admin errors.
var (
	// ErrInvalidAdminPassword indicates the administrator secret did not match.
	ErrInvalidAdminPassword = errors.Define(errors.ErrForbidden, "invalid admin password")

	// ErrInvalidEnableValue indicates the enable field is missing or not a boolean.
	ErrInvalidEnableValue = errors.Define(errors.ErrInvalidInput, "enable must be a boolean")

	// ErrInvalidIndex indicates the index field is missing or not an integer.
	ErrInvalidIndex = errors.Define(errors.ErrInvalidInput, "index must be an integer")

	// ErrIndexOutOfRange indicates the requested credential index does not exist.
	ErrIndexOutOfRange = errors.Define(errors.ErrInvalidInput, "credential index out of range")

	// ErrNoCredentials indicates the credential set is empty.
	ErrNoCredentials = errors.Define(errors.ErrInvalidInput, "no upstream credentials configured")
)
