package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFormDocument() map[string]interface{} {
	return map[string]interface{}{
		"full_name":            "Ana Silva",
		"birth_date":           "2001-04-12",
		"bi_number":            "004512345LA041",
		"phone":                "923456789",
		"email":                "ana@example.ao",
		"province":             "Luanda",
		"municipality":         "Viana",
		"address":              "Rua 21, Casa 4",
		"education_level":      "universitario",
		"institution":          "Universidade Agostinho Neto",
		"course":               "Engenharia Informática",
		"current_year":         "2",
		"scholarship_type":     "universitaria_comparticipada",
		"household_income":     "50000_150000",
		"household_members":    5,
		"employment_status":    "desempregado",
		"motivation":           "Quero contribuir para o desenvolvimento do país.",
		"declaration_accepted": true,
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestValidateFormDocument_Valid(t *testing.T) {
	result, err := ValidateFormDocument(mustJSON(t, validFormDocument()))
	require.NoError(t, err)
	assert.True(t, result.IsValid, "%+v", result.Errors)
}

func TestValidateFormDocument_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
		field  string
	}{
		{"missing motivation", func(d map[string]interface{}) { delete(d, "motivation") }, "motivation"},
		{"unknown field", func(d map[string]interface{}) { d["status"] = "aprovada" }, "status"},
		{"admin notes injected", func(d map[string]interface{}) { d["admin_notes"] = "ok" }, "admin_notes"},
		{"bad education level", func(d map[string]interface{}) { d["education_level"] = "doutoramento" }, "education_level"},
		{"bad scholarship", func(d map[string]interface{}) { d["scholarship_type"] = "" }, "scholarship_type"},
		{"bad income", func(d map[string]interface{}) { d["household_income"] = "muito" }, "household_income"},
		{"declaration as string", func(d map[string]interface{}) { d["declaration_accepted"] = "true" }, "declaration_accepted"},
		{"fractional members", func(d map[string]interface{}) { d["household_members"] = 2.5 }, "household_members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validFormDocument()
			tt.mutate(doc)

			result, err := ValidateFormDocument(mustJSON(t, doc))
			require.NoError(t, err)
			assert.False(t, result.IsValid)
			assert.True(t, result.HasError(tt.field), "errors: %+v", result.Errors)
		})
	}
}

func TestValidateFormDocument_Malformed(t *testing.T) {
	_, err := ValidateFormDocument([]byte(`{"full_name":`))
	assert.Error(t, err)
}

func TestValidateFormDocument_BlankEnumIsRequired(t *testing.T) {
	doc := validFormDocument()
	doc["education_level"] = ""

	result, err := ValidateFormDocument(mustJSON(t, doc))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Campo obrigatório", result.Errors[0].Message)
}
