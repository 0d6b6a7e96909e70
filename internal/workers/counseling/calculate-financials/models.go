// internal/workers/counseling/calculate-financials/models.go
package calculatefinancials

import "scholarship-workers/internal/models"

// Input mirrors the matching stage's loose-map contract: matched scholarships
// and the student profile arrive as maps, the search results as the raw
// snippets used for tuition and aid evidence.
type Input struct {
	MatchedScholarships []map[string]interface{} `json:"matchedScholarships"`
	StudentProfile      map[string]interface{}   `json:"studentProfile"`
	SearchResults       []string                 `json:"searchResults"`
}

type Output struct {
	FinancialBreakdowns    []models.FinancialBreakdown `json:"financialBreakdowns"`
	BestFinancialOptions   []models.FinancialBreakdown `json:"bestFinancialOptions"`
	FinancialSummary       string                      `json:"financialSummary"`
	FundingRecommendations []string                    `json:"fundingRecommendations"`
}
