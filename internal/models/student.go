// internal/models/student.go
package models

// StudentProfile is the free-text profile supplied by the counseling flow.
type StudentProfile struct {
	PersonalInfo       string `json:"personal_info"`
	AcademicBackground string `json:"academic_background"`
	Extracurricular    string `json:"extracurricular"`
	Certificates       string `json:"certificates"`
	TargetField        string `json:"target_field"`
	TargetLocation     string `json:"target_location"`
}

// ClassifiedStudent is the normalized profile produced by the classifier and
// consumed by the matching engine.
type ClassifiedStudent struct {
	Region              string   `json:"region"`
	AgeGroup            string   `json:"age_group"`
	Gender              *string  `json:"gender"`
	Religion            *string  `json:"religion"`
	AcademicLevel       string   `json:"academic_level"`
	TargetField         string   `json:"target_field"`
	TargetLocation      string   `json:"target_location"`
	AcademicStrengths   []string `json:"academic_strengths"`
	CertificatesList    []string `json:"certificates_list"`
	ExtracurricularList []string `json:"extracurricular_list"`
	ProfileScore        int      `json:"profile_score"`
}

// Classifier sentinels, mirrored by the matching engine's no-data branches.
const (
	SentinelNoIntlCertificates     = "No international certificates mentioned"
	SentinelStandardPerformance    = "Standard Academic Performance"
	SentinelLimitedExtracurricular = "Limited extracurricular activities mentioned"
)
