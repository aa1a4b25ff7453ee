package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ErrFutureDate is returned for dates after the reference time
var ErrFutureDate = errors.New("date is in the future")

// BirthDateLayout is the wire format of birth dates
const BirthDateLayout = "2006-01-02"

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool                `json:"is_valid"`
	Errors  []models.FieldError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []models.FieldError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, models.FieldError{
		Field:   field,
		Message: message,
	})
}

// HasError reports whether field already failed
func (vr *ValidationResult) HasError(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// AsError returns a *models.ValidationError, or nil when valid
func (vr *ValidationResult) AsError() error {
	if vr.IsValid {
		return nil
	}
	return &models.ValidationError{Errors: vr.Errors}
}

// RequireText records an error when value is blank
func (vr *ValidationResult) RequireText(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		vr.AddError(field, "Campo obrigatório")
		return false
	}
	return true
}

// MaxLength records an error when value exceeds max characters
func (vr *ValidationResult) MaxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		vr.AddError(field, "Deve ter no máximo "+strconv.Itoa(max)+" caracteres")
	}
}

// ValidateEmailAddress validates the format of an email address
func ValidateEmailAddress(field, email string) *ValidationResult {
	result := NewValidationResult()

	email = strings.TrimSpace(email)
	if email == "" {
		result.AddError(field, "Campo obrigatório")
		return result
	}
	if len(email) > 254 {
		result.AddError(field, "Email demasiado longo")
	}
	if !emailRegex.MatchString(email) {
		result.AddError(field, "Email inválido")
		return result
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		result.AddError(field, "Domínio de email inválido")
	}

	return result
}

// ValidatePassword checks the minimum password length
func ValidatePassword(password string) *ValidationResult {
	result := NewValidationResult()
	if utf8.RuneCountInString(password) < models.MinPasswordLength {
		result.AddError("password", "A palavra-passe deve ter pelo menos "+strconv.Itoa(models.MinPasswordLength)+" caracteres")
	}
	return result
}

// ParseBirthDate parses a YYYY-MM-DD date that must not be in the future
func ParseBirthDate(raw string, now time.Time) (time.Time, error) {
	d, err := time.Parse(BirthDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	if d.After(now) {
		return time.Time{}, ErrFutureDate
	}
	return d, nil
}

// ParseOptionalPositiveInt parses text into a positive integer. Blank text
// yields nil.
func ParseOptionalPositiveInt(raw string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &n, true
}

// ParseMinInt parses text into an integer no smaller than min
func ParseMinInt(raw string, min int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < min {
		return 0, false
	}
	return n, true
}

// SanitizeString trims surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

// OptionalString returns nil for blank input and the trimmed value otherwise
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
