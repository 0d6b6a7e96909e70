// internal/workers/counseling/analyze-scholarships/models.go
package analyzescholarships

import "scholarship-workers/internal/models"

type Input struct {
	SearchResults    []string `json:"searchResults"`
	TargetUniversity string   `json:"targetUniversity"`
	TargetField      string   `json:"targetField"`
}

type Output struct {
	Scholarships           []models.ScholarshipRecord `json:"scholarships"`
	AnalysisSummary        string                     `json:"analysisSummary"`
	TotalScholarshipsFound int                        `json:"totalScholarshipsFound"`
}
