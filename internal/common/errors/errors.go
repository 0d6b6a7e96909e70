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
	ErrCodeInputParseFailed ErrorCode = "INPUT_PARSE_FAILED"

	ErrCodeScholarshipAnalysisFailed ErrorCode = "SCHOLARSHIP_ANALYSIS_FAILED"
	ErrCodeNoSearchResults           ErrorCode = "NO_SEARCH_RESULTS"

	ErrCodeStudentClassificationFailed ErrorCode = "STUDENT_CLASSIFICATION_FAILED"
	ErrCodeInvalidStudentProfile       ErrorCode = "INVALID_STUDENT_PROFILE"

	ErrCodeScholarshipMatchingFailed ErrorCode = "SCHOLARSHIP_MATCHING_FAILED"

	ErrCodeFinancialCalculationFailed ErrorCode = "FINANCIAL_CALCULATION_FAILED"

	ErrCodeProfileCacheUnavailable ErrorCode = "PROFILE_CACHE_UNAVAILABLE"
	ErrCodeProfileCacheTimeout     ErrorCode = "PROFILE_CACHE_TIMEOUT"
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

// NewInputParseFailedError creates a non-retryable job variable parse error.
func NewInputParseFailedError(taskType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParseFailed,
		Message:   "Failed to parse job input variables",
		Details:   fmt.Sprintf("taskType: %s, error: %s", taskType, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScholarshipAnalysisFailedError creates a non-retryable analysis error.
func NewScholarshipAnalysisFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScholarshipAnalysisFailed,
		Message:   "Scholarship analysis failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSearchResultsError creates a non-retryable empty input error.
// Parsers treat empty corpora as a valid empty result; this error exists for
// callers that require at least one search result.
func NewNoSearchResultsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSearchResults,
		Message:   "No search results supplied for analysis",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStudentClassificationFailedError creates a non-retryable classification error.
func NewStudentClassificationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStudentClassificationFailed,
		Message:   "Student classification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStudentProfileError creates a non-retryable profile validation error.
func NewInvalidStudentProfileError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStudentProfile,
		Message:   "Student profile failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScholarshipMatchingFailedError creates a non-retryable matching error.
func NewScholarshipMatchingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScholarshipMatchingFailed,
		Message:   "Scholarship matching failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFinancialCalculationFailedError creates a non-retryable calculation error.
func NewFinancialCalculationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFinancialCalculationFailed,
		Message:   "Financial calculation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileCacheUnavailableError creates a retryable cache error.
func NewProfileCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileCacheUnavailable,
		Message:   "Profile cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileCacheTimeoutError creates a retryable cache timeout error.
func NewProfileCacheTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileCacheTimeout,
		Message:   "Profile cache lookup timed out",
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

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
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

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParseFailed:            "INPUT_PARSE_FAILED",
	ErrCodeScholarshipAnalysisFailed:   "SCHOLARSHIP_ANALYSIS_FAILED",
	ErrCodeNoSearchResults:             "NO_SEARCH_RESULTS",
	ErrCodeStudentClassificationFailed: "STUDENT_CLASSIFICATION_FAILED",
	ErrCodeInvalidStudentProfile:       "INVALID_STUDENT_PROFILE",
	ErrCodeScholarshipMatchingFailed:   "SCHOLARSHIP_MATCHING_FAILED",
	ErrCodeFinancialCalculationFailed:  "FINANCIAL_CALCULATION_FAILED",
	ErrCodeProfileCacheUnavailable:     "PROFILE_CACHE_UNAVAILABLE",
	ErrCodeProfileCacheTimeout:         "PROFILE_CACHE_TIMEOUT",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileCacheUnavailable:
		return 3 // Retryable technical errors

	case ErrCodeProfileCacheTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Engine-level errors are deterministic: no retry
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
	case strings.Contains(codeStr, "ANALYSIS") || strings.Contains(codeStr, "SEARCH_RESULTS"):
		return "ANALYSIS"
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "PROFILE") && !strings.Contains(codeStr, "CACHE"):
		return "CLASSIFICATION"
	case strings.Contains(codeStr, "MATCHING"):
		return "MATCHING"
	case strings.Contains(codeStr, "FINANCIAL"):
		return "FINANCIAL"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
