// internal/workers/evaluation/validate-application-record/models.go
package validateapplicationrecord

import "kjet-workers/internal/common/validation"

type Input struct {
	ApplicationRecord map[string]interface{} `json:"applicationRecord"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ApplicationID    string                       `json:"applicationId"`
	Region           string                       `json:"region"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}
