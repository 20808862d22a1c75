// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() map[string]interface{} {
	return map[string]interface{}{
		"applicationId": "APP-001",
		"region":        "Nakuru",
		"applicantName": "Lakeview Dairies",
		"content":       "registered dairy cooperative with audited accounts",
		"structuredMetadata": map[string]interface{}{
			"registration_status": "cooperative",
		},
		"financialDocuments": []interface{}{
			map[string]interface{}{"name": "bank_statement.pdf", "content": "statement text"},
		},
	}
}

func TestValidateApplicationRecord(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(record map[string]interface{})
		wantValid bool
		wantField string
	}{
		{
			name:      "complete record",
			mutate:    func(map[string]interface{}) {},
			wantValid: true,
		},
		{
			name:      "minimal record",
			mutate: func(record map[string]interface{}) {
				delete(record, "applicantName")
				delete(record, "structuredMetadata")
				delete(record, "financialDocuments")
			},
			wantValid: true,
		},
		{
			name:      "missing application id",
			mutate:    func(record map[string]interface{}) { delete(record, "applicationId") },
			wantValid: false,
			wantField: "(root)",
		},
		{
			name:      "empty application id",
			mutate:    func(record map[string]interface{}) { record["applicationId"] = "" },
			wantValid: false,
			wantField: "applicationId",
		},
		{
			name:      "missing content",
			mutate:    func(record map[string]interface{}) { delete(record, "content") },
			wantValid: false,
		},
		{
			name:      "region wrong type",
			mutate:    func(record map[string]interface{}) { record["region"] = 42 },
			wantValid: false,
			wantField: "region",
		},
		{
			name: "document without name",
			mutate: func(record map[string]interface{}) {
				record["financialDocuments"] = []interface{}{
					map[string]interface{}{"content": "orphan text"},
				}
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			result, err := ValidateApplicationRecord(record)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
			} else {
				assert.NotEmpty(t, result.Errors)
				if tt.wantField != "" {
					assert.True(t, result.HasErrors(tt.wantField) || len(result.GetErrorsForField(tt.wantField)) > 0,
						"expected an error for field %s, got %v", tt.wantField, result.GetErrorMessages())
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("info@lakeviewdairies.co.ke"))
	assert.False(t, ValidateEmail("not-an-email"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+254712345678"))
	assert.True(t, ValidatePhone("0712 345 678"))
	assert.False(t, ValidatePhone("12ab"))
}
