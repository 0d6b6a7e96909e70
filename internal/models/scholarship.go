// internal/models/scholarship.go
package models

// ScholarshipRecord is the structured form of one scholarship extracted from
// raw search-result text. Records travel between workers as process variables,
// so the json tags are the wire contract for the whole pipeline.
type ScholarshipRecord struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	University              string   `json:"university"`
	TargetRegion            string   `json:"target_region"`
	TargetAgeGroup          string   `json:"target_age_group"`
	TargetGender            *string  `json:"target_gender"`
	TargetReligion          *string  `json:"target_religion"`
	FieldOfStudy            string   `json:"field_of_study"`
	AcademicRequirements    []string `json:"academic_requirements"`
	RequiredCertificates    []string `json:"required_certificates"`
	RequiredExtracurricular []string `json:"required_extracurricular"`
	ScholarshipAmount       string   `json:"scholarship_amount"`
	Deadline                string   `json:"deadline"`
	AdditionalRequirements  []string `json:"additional_requirements"`
}

// Sentinel values used when extraction finds nothing. Downstream scoring
// branches on these, so they must stay stable.
const (
	SentinelNoCertificates    = "No specific certificates mentioned"
	SentinelNoExtracurricular = "No specific extracurricular requirements"
	SentinelStandardAcademic  = "Standard academic performance"
	SentinelAmountUnknown     = "Amount not specified"
	SentinelDeadlineUnknown   = "Deadline not specified"
)
