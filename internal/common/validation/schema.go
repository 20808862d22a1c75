// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// applicationRecordSchema is the contract for evaluation inputs produced by
// the upstream extraction pipeline. Structured metadata is free-form because
// survey exports differ between rounds; the engine tolerates missing fields.
const applicationRecordSchema = `{
	"type": "object",
	"required": ["applicationId", "region", "content"],
	"properties": {
		"applicationId": {"type": "string", "minLength": 1},
		"region": {"type": "string"},
		"applicantName": {"type": "string"},
		"content": {"type": "string"},
		"structuredMetadata": {"type": "object"},
		"financialDocuments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"content": {"type": "string"}
				}
			}
		}
	}
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var recordSchema = gojsonschema.NewStringLoader(applicationRecordSchema)

// ValidateApplicationRecord checks a raw application record against the
// evaluation input schema. A schema compilation failure is an error; invalid
// input is reported through the result, not the error.
func ValidateApplicationRecord(record map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(recordSchema, gojsonschema.NewGoLoader(record))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{Valid: false, Errors: errs}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{9,}$`)
	return phonePattern.MatchString(phone)
}
