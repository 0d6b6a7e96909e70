// internal/models/match.go
package models

// MatchLevel classifies a match score into an application guidance band.
type MatchLevel string

const (
	MatchExcellent MatchLevel = "excellent"
	MatchGood      MatchLevel = "good"
	MatchFair      MatchLevel = "fair"
	MatchPoor      MatchLevel = "poor"
	MatchNone      MatchLevel = "no_match"
)

// MatchLevelForScore maps a 0-100 match score onto its level band.
func MatchLevelForScore(score float64) MatchLevel {
	switch {
	case score >= 80:
		return MatchExcellent
	case score >= 65:
		return MatchGood
	case score >= 45:
		return MatchFair
	case score >= 25:
		return MatchPoor
	default:
		return MatchNone
	}
}

// MatchedScholarship is one scholarship scored against a classified student.
type MatchedScholarship struct {
	ScholarshipName        string     `json:"scholarship_name"`
	University             string     `json:"university"`
	MatchLevel             MatchLevel `json:"match_level"`
	MatchScore             float64    `json:"match_score"`
	MatchingCriteria       []string   `json:"matching_criteria"`
	MissingRequirements    []string   `json:"missing_requirements"`
	ScholarshipAmount      string     `json:"scholarship_amount"`
	ImprovementSuggestions []string   `json:"improvement_suggestions"`
	ApplicationPriority    string     `json:"application_priority"`
}
