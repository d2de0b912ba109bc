package service

import "errors"

// Validation errors surfaced to handlers as 400 responses.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidFormat = errors.New("invalid export format")
)

// ErrInvalidCredentials is returned when the operator login check fails.
// Handlers map it to 401 without further detail.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IsValidationError reports whether err is one of the request-validation
// sentinels, i.e. the caller's input was bad rather than the store.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidFormat)
}
