// internal/workers/counseling/match-scholarships/models.go
package matchscholarships

import "scholarship-workers/internal/models"

// Input carries loosely-typed maps on purpose: upstream stages and external
// callers feed this worker, so every field access goes through a defaulted
// accessor instead of assuming shape.
type Input struct {
	StudentID             string                   `json:"studentId"`
	StudentProfile        map[string]interface{}   `json:"studentProfile"`
	AvailableScholarships []map[string]interface{} `json:"availableScholarships"`
}

type Output struct {
	MatchedScholarships []models.MatchedScholarship `json:"matchedScholarships"`
	TotalMatches        int                         `json:"totalMatches"`
	BestMatches         []models.MatchedScholarship `json:"bestMatches"`
	MatchingSummary     string                      `json:"matchingSummary"`
}
