// internal/models/financial.go
package models

// FinancialBreakdown is the per-scholarship cost projection. All amounts are
// annual USD unless the field name says total.
type FinancialBreakdown struct {
	ScholarshipName string `json:"scholarship_name"`
	University      string `json:"university"`
	ProgramField    string `json:"program_field"`

	AnnualTuition        float64 `json:"annual_tuition"`
	ProgramDurationYears int     `json:"program_duration_years"`
	TotalTuition         float64 `json:"total_tuition"`

	ScholarshipAmountAnnual float64 `json:"scholarship_amount_annual"`
	ScholarshipTotal        float64 `json:"scholarship_total"`
	GovernmentAidAnnual     float64 `json:"government_aid_annual"`
	GovernmentLoanAnnual    float64 `json:"government_loan_annual"`

	NetAnnualCost float64 `json:"net_annual_cost"`
	TotalNetCost  float64 `json:"total_net_cost"`

	EstimatedLivingCostAnnual float64 `json:"estimated_living_cost_annual"`
	TotalEstimatedCost        float64 `json:"total_estimated_cost"`
}
