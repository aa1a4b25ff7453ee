package observability

import (
	"strings"
	"unicode/utf8"
)

// MaskBI masks a national identity number, keeping the last three characters
func MaskBI(bi string) string {
	bi = strings.TrimSpace(bi)
	n := utf8.RuneCountInString(bi)
	if n <= 3 {
		return "***"
	}
	runes := []rune(bi)
	return strings.Repeat("*", n-3) + string(runes[n-3:])
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(email)
	return string(first) + "***" + email[at:]
}

// MaskPhone keeps the last three digits
func MaskPhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(digits)-3) + string(digits[len(digits)-3:])
}

// MaskSensitiveData masks sensitive data in a map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for k, v := range data {
		s, isString := v.(string)
		switch {
		case k == "password" || k == "password_hash" || k == "token":
			masked[k] = "********"
		case isString && k == "bi_number":
			masked[k] = MaskBI(s)
		case isString && k == "email":
			masked[k] = MaskEmail(s)
		case isString && k == "phone":
			masked[k] = MaskPhone(s)
		default:
			masked[k] = v
		}
	}
	return masked
}
