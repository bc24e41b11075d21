package models

import (
	"errors"
	"fmt"
)

// Domain errors mapped to HTTP statuses at the API boundary
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrReferralNotFound    = errors.New("referral not found")
	ErrCaseNotFound        = errors.New("case not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrReferralProcessed   = errors.New("referral has already been processed")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrCaseNumberExhausted = errors.New("could not allocate a unique case number")

	ErrInvalidCredentials = errors.New("invalid username or password, or account is disabled")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrSelfDeactivation   = errors.New("cannot disable your own account")
)

// ValidationError reports the first invalid field of a request
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewMissingFieldError creates a validation error for a missing required field
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing required field: %s", field)}
}
