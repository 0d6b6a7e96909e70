// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schemas are structural only: they pin field types without requiring any
// field, since upstream workers fill in what they can and downstream code
// tolerates absent keys.
const studentProfileSchema = `{
	"type": "object",
	"properties": {
		"region": {"type": "string"},
		"age_group": {"type": "string"},
		"gender": {"type": ["string", "null"]},
		"religion": {"type": ["string", "null"]},
		"academic_level": {"type": "string"},
		"academic_strengths": {"type": "array", "items": {"type": "string"}},
		"certificates_list": {"type": "array", "items": {"type": "string"}},
		"extracurricular_list": {"type": "array", "items": {"type": "string"}},
		"target_field": {"type": "string"},
		"profile_score": {"type": "number"},
		"classification_notes": {"type": "array", "items": {"type": "string"}}
	}
}`

const matchedScholarshipSchema = `{
	"type": "object",
	"properties": {
		"scholarship_name": {"type": "string"},
		"university": {"type": "string"},
		"scholarship_amount": {"type": "string"},
		"match_score": {"type": "number"},
		"match_level": {"type": "string"}
	}
}`

var (
	studentProfileLoader     = gojsonschema.NewStringLoader(studentProfileSchema)
	matchedScholarshipLoader = gojsonschema.NewStringLoader(matchedScholarshipSchema)
)

// ValidationResult carries the outcome of a schema check.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func validate(schemaLoader gojsonschema.JSONLoader, document interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ValidationResult{Valid: false, Errors: errs}, nil
}

// ValidateStudentProfile checks a classified student profile document before
// it enters the matching stage.
func ValidateStudentProfile(profile map[string]interface{}) (*ValidationResult, error) {
	return validate(studentProfileLoader, profile)
}

// ValidateMatchedScholarship checks a matched scholarship record before it
// enters the financial stage.
func ValidateMatchedScholarship(record map[string]interface{}) (*ValidationResult, error) {
	return validate(matchedScholarshipLoader, record)
}
