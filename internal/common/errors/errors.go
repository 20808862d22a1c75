// internal/common/errors/errors.go
// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCohortConfigInvalid ErrorCode = "COHORT_CONFIG_INVALID"

	ErrCodeApplicationParseError       ErrorCode = "APPLICATION_PARSE_ERROR"
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"

	ErrCodeRegionEvaluationFailed ErrorCode = "REGION_EVALUATION_FAILED"
	ErrCodeAlternateParseError    ErrorCode = "ALTERNATE_PARSE_ERROR"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeResultStoreFailed        ErrorCode = "RESULT_STORE_FAILED"
	ErrCodeDuplicateRun             ErrorCode = "DUPLICATE_RUN"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeIndexRankingsFailed           ErrorCode = "INDEX_RANKINGS_FAILED"

	ErrCodeCacheReadFailed ErrorCode = "CACHE_READ_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewCohortConfigInvalidError creates a non-retryable configuration error.
// An invalid cohort stops the run; retrying cannot repair a bad config.
func NewCohortConfigInvalidError(cohortID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCohortConfigInvalid,
		Message:   "Cohort configuration failed validation",
		Details:   fmt.Sprintf("cohort: %s, error: %s", cohortID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationParseError creates a non-retryable record parse error.
func NewApplicationParseError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationParseError,
		Message:   "Application record could not be parsed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationValidationFailedError creates a non-retryable schema validation error.
func NewApplicationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Application record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegionEvaluationFailedError creates a retryable evaluation error.
func NewRegionEvaluationFailedError(region string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegionEvaluationFailed,
		Message:   "Region evaluation failed",
		Details:   fmt.Sprintf("region: %s, error: %s", region, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlternateParseError creates a non-retryable prior-round parse error.
func NewAlternateParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlternateParseError,
		Message:   "Prior-round alternates file could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultStoreFailedError creates a retryable result persistence error.
func NewResultStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultStoreFailed,
		Message:   "Evaluation results could not be stored",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateRunError creates a non-retryable duplicate run error.
func NewDuplicateRunError(runID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateRun,
		Message:   "Evaluation run already stored",
		Details:   fmt.Sprintf("runId: %s", runID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexRankingsFailedError creates a retryable indexing error.
func NewIndexRankingsFailedError(region string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexRankingsFailed,
		Message:   "Ranking entries could not be indexed",
		Details:   fmt.Sprintf("region: %s, error: %s", region, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheReadFailedError creates a retryable cache error.
func NewCacheReadFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheReadFailed,
		Message:   "Cache read error",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(resource, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource '%s' not found", resource),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The codes
// are identical on both sides so operators see one vocabulary.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCohortConfigInvalid:           "COHORT_CONFIG_INVALID",
	ErrCodeApplicationParseError:         "APPLICATION_PARSE_ERROR",
	ErrCodeApplicationValidationFailed:   "APPLICATION_VALIDATION_FAILED",
	ErrCodeRegionEvaluationFailed:        "REGION_EVALUATION_FAILED",
	ErrCodeAlternateParseError:           "ALTERNATE_PARSE_ERROR",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeResultStoreFailed:             "RESULT_STORE_FAILED",
	ErrCodeDuplicateRun:                  "DUPLICATE_RUN",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeIndexRankingsFailed:           "INDEX_RANKINGS_FAILED",
	ErrCodeCacheReadFailed:               "CACHE_READ_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeResultStoreFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeIndexRankingsFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeRegionEvaluationFailed,
		ErrCodeCacheReadFailed:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "COHORT"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "APPLICATION") || strings.Contains(codeStr, "ALTERNATE"):
		return "INPUT"
	case strings.Contains(codeStr, "EVALUATION"):
		return "EVALUATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "RUN"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
