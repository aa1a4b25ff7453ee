package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUniqueness(t *testing.T) {
	errorVars := []error{
		ErrUnauthenticated,
		ErrForbidden,
		ErrInvalidCredentials,
		ErrEmailTaken,
		ErrApplicationNotFound,
		ErrProfileNotFound,
		ErrDraftNotFound,
		ErrUserNotFound,
		ErrRoleNotAssigned,
		ErrRoleAlreadyAssigned,
		ErrSubmissionInFlight,
		ErrFirstStep,
		ErrLastStep,
		ErrInvalidStatus,
		ErrInvalidRole,
		ErrInvalidFilter,
		ErrInvalidTransition,
		ErrBackendUnavailable,
	}

	for i, err1 := range errorVars {
		for j, err2 := range errorVars {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Error at index %d and %d are the same: %v", i, j, err1)
			}
		}
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.False(t, v.HasErrors())
	assert.Equal(t, "validation failed", v.Error())

	v.Add("motivation", "campo obrigatório")
	v.Add("declaration_accepted", "deve aceitar a declaração")
	assert.True(t, v.HasErrors())
	assert.Equal(t, "validation failed: motivation: campo obrigatório; declaration_accepted: deve aceitar a declaração", v.Error())

	wrapped := fmt.Errorf("submit: %w", v)
	got, ok := IsValidationError(wrapped)
	require.True(t, ok)
	assert.Len(t, got.Errors, 2)

	_, ok = IsValidationError(ErrForbidden)
	assert.False(t, ok)
}

func TestNewValidationError(t *testing.T) {
	v := NewValidationError("email", "email inválido")
	require.Len(t, v.Errors, 1)
	assert.Equal(t, FieldError{Field: "email", Message: "email inválido"}, v.Errors[0])
}
