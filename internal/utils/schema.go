package utils

import (
	"fmt"
	"sync"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

var (
	formSchema     *gojsonschema.Schema
	formSchemaErr  error
	formSchemaOnce sync.Once
)

func stringEnum[T ~string](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// applicationFormSchema describes the submission document. It checks
// structure only: field presence, JSON types and enum membership. Text
// content is checked after decoding.
func applicationFormSchema() map[string]interface{} {
	text := map[string]interface{}{"type": "string"}
	numeric := map[string]interface{}{"type": []interface{}{"string", "integer", "null"}}

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required": []interface{}{
			"full_name", "birth_date", "bi_number", "phone", "email",
			"province", "municipality", "address",
			"education_level", "institution",
			"scholarship_type",
			"household_income", "household_members", "employment_status",
			"motivation",
			"declaration_accepted",
		},
		"properties": map[string]interface{}{
			"full_name":         text,
			"birth_date":        text,
			"bi_number":         text,
			"phone":             text,
			"email":             text,
			"province":          text,
			"municipality":      text,
			"address":           text,
			"education_level":   map[string]interface{}{"type": "string", "enum": stringEnum(models.AllEducationLevels())},
			"institution":       text,
			"course":            map[string]interface{}{"type": []interface{}{"string", "null"}},
			"current_year":      numeric,
			"scholarship_type":  map[string]interface{}{"type": "string", "enum": stringEnum(models.AllScholarshipTypes())},
			"household_income":  map[string]interface{}{"type": "string", "enum": stringEnum(models.AllIncomeBrackets())},
			"household_members": numeric,
			"employment_status": text,
			"motivation":        text,
			"declaration_accepted": map[string]interface{}{
				"type": "boolean",
			},
		},
	}
}

func loadFormSchema() (*gojsonschema.Schema, error) {
	formSchemaOnce.Do(func() {
		formSchema, formSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(applicationFormSchema()))
	})
	return formSchema, formSchemaErr
}

// ValidateFormDocument checks a raw submission document against the form
// schema. A non-nil error means the document could not be read at all.
func ValidateFormDocument(document []byte) (*ValidationResult, error) {
	schema, err := loadFormSchema()
	if err != nil {
		return nil, fmt.Errorf("compile form schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := NewValidationResult()
	for _, desc := range result.Errors() {
		field := schemaErrorField(desc)
		if out.HasError(field) {
			continue
		}
		out.AddError(field, schemaErrorMessage(desc))
	}
	return out, nil
}

func schemaErrorField(desc gojsonschema.ResultError) string {
	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		if p, ok := desc.Details()["property"].(string); ok {
			return p
		}
	}
	return desc.Field()
}

func schemaErrorMessage(desc gojsonschema.ResultError) string {
	switch desc.Type() {
	case "required":
		return "Campo obrigatório"
	case "additional_property_not_allowed":
		return "Campo desconhecido"
	case "enum":
		if v, ok := desc.Value().(string); ok && v == "" {
			return "Campo obrigatório"
		}
		return "Valor inválido"
	case "invalid_type":
		return "Tipo inválido"
	}
	return desc.Description()
}
