package models

import (
	"errors"
	"strings"
)

// Authentication and authorization errors
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("administrator role required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Lookup errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDraftNotFound       = errors.New("draft not found or expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotAssigned     = errors.New("role not assigned to user")
)

// Workflow errors
var (
	ErrRoleAlreadyAssigned = errors.New("role already assigned to user")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
	ErrFirstStep           = errors.New("already on the first step")
	ErrLastStep            = errors.New("already on the last step")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidFilter       = errors.New("invalid filter value")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrMalformedBody       = errors.New("malformed request body")
)

// ErrBackendUnavailable wraps storage failures that may succeed on retry
var ErrBackendUnavailable = errors.New("backend unavailable")

// FieldError is a validation failure on a single field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects per-field failures
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationError builds a ValidationError with a single field failure
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add appends a field failure
func (v *ValidationError) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failure was recorded
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

func (v *ValidationError) Error() string {
	if !v.HasErrors() {
		return "validation failed"
	}
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries a *ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error    string       `json:"error"`
	Redirect string       `json:"redirect,omitempty"`
	Fields   []FieldError `json:"fields,omitempty"`
}
