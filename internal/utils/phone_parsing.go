package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers typed without a country code
const DefaultPhoneRegion = "AO"

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	CountryCode string `json:"country_code"`
	National    string `json:"national"`
	E164        string `json:"e164"`
}

// ParsePhoneNumber parses a phone number, assuming Angola when no country
// code is present
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}
	if strings.HasPrefix(cleanPhone, "00") {
		cleanPhone = "+" + cleanPhone[2:]
	}

	num, err := phonenumbers.Parse(cleanPhone, DefaultPhoneRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	return &PhoneComponents{
		CountryCode: fmt.Sprintf("%d", num.GetCountryCode()),
		National:    phonenumbers.GetNationalSignificantNumber(num),
		E164:        phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}

// ValidatePhoneNumber records an error on field when phone is blank or
// not a dialable number
func ValidatePhoneNumber(field, phone string) *ValidationResult {
	result := NewValidationResult()
	if strings.TrimSpace(phone) == "" {
		result.AddError(field, "Campo obrigatório")
		return result
	}
	if _, err := ParsePhoneNumber(phone); err != nil {
		result.AddError(field, "Número de telefone inválido")
	}
	return result
}
