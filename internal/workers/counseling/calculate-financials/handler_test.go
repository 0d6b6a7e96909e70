// internal/workers/counseling/calculate-financials/handler_test.go
package calculatefinancials

import (
	"context"
	"testing"

	"scholarship-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestStudent() map[string]interface{} {
	return map[string]interface{}{
		"target_field":    "computer science",
		"target_location": "USA",
		"academic_level":  "undergraduate",
		"profile_score":   9,
	}
}

func createMatchedScholarship(name, amount string) map[string]interface{} {
	return map[string]interface{}{
		"scholarship_name":   name,
		"university":         "Stanford University",
		"scholarship_amount": amount,
		"match_score":        95.0,
		"match_level":        "excellent",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FullTuitionCoverage(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		MatchedScholarships: []map[string]interface{}{
			createMatchedScholarship("Global Excellence Scholarship", "Full tuition coverage"),
		},
		StudentProfile: createTestStudent(),
		SearchResults: []string{
			"Stanford University costs for international students - tuition: $35,000 per year",
		},
	})

	assert.NoError(t, err)
	assert.Len(t, output.FinancialBreakdowns, 1)

	b := output.FinancialBreakdowns[0]
	assert.Equal(t, 35000.0, b.AnnualTuition)
	assert.Equal(t, 4, b.ProgramDurationYears)
	assert.Equal(t, 140000.0, b.TotalTuition)
	assert.Equal(t, 35000.0, b.ScholarshipAmountAnnual)
	assert.Equal(t, 140000.0, b.ScholarshipTotal)
	assert.Equal(t, 6000.0, b.GovernmentAidAnnual)
	assert.Equal(t, 12000.0, b.GovernmentLoanAnnual)
	assert.Equal(t, 0.0, b.NetAnnualCost)
	assert.Equal(t, 0.0, b.TotalNetCost)
	assert.Equal(t, 15000.0, b.EstimatedLivingCostAnnual)
	assert.Equal(t, 60000.0, b.TotalEstimatedCost)

	assert.Contains(t, output.FinancialSummary, "Analyzed 1 scholarship options.")
	assert.Contains(t, output.FinancialSummary, "1 scholarships offer full funding")
	assert.Contains(t, output.FundingRecommendations, "Prioritize fully-funded scholarships to minimize financial burden.")
	assert.Contains(t, output.FundingRecommendations, "Apply for FAFSA to access federal aid programs.")
	assert.Contains(t, output.FundingRecommendations, "Your strong profile qualifies you for merit-based scholarships.")
}

func TestHandler_Execute_RanksByTotalNetCost(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		MatchedScholarships: []map[string]interface{}{
			createMatchedScholarship("Partial Award", "$5,000 per year"),
			createMatchedScholarship("Half Award", "Amount: 50% tuition waiver"),
			createMatchedScholarship("Full Award", "Full tuition coverage"),
		},
		StudentProfile: map[string]interface{}{
			"target_location": "Vietnam",
			"academic_level":  "undergraduate",
		},
	})

	assert.NoError(t, err)
	assert.Len(t, output.FinancialBreakdowns, 3)
	assert.Len(t, output.BestFinancialOptions, 3)

	// Default tuition 25,000 with no aid table entry for Vietnam.
	assert.Equal(t, "Full Award", output.FinancialBreakdowns[0].ScholarshipName)
	assert.Equal(t, 0.0, output.FinancialBreakdowns[0].TotalNetCost)
	assert.Equal(t, "Half Award", output.FinancialBreakdowns[1].ScholarshipName)
	assert.Equal(t, 50000.0, output.FinancialBreakdowns[1].TotalNetCost)
	assert.Equal(t, "Partial Award", output.FinancialBreakdowns[2].ScholarshipName)
	assert.Equal(t, 80000.0, output.FinancialBreakdowns[2].TotalNetCost)

	assert.Contains(t, output.FinancialSummary, "Net costs range from $0 to $80,000 for the complete program.")
	assert.Contains(t, output.FinancialSummary, "Average net cost: $43,333.")
	assert.Contains(t, output.FundingRecommendations, "Explore additional scholarships and grants to reduce costs.")
}

func TestHandler_Execute_SkipsInvalidRecords(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		MatchedScholarships: []map[string]interface{}{
			{"scholarship_name": 42},
		},
		StudentProfile: createTestStudent(),
	})

	assert.NoError(t, err)
	assert.Empty(t, output.FinancialBreakdowns)
	assert.Equal(t, "No financial information available for the scholarships.", output.FinancialSummary)
	assert.Equal(t, []string{"Unable to provide funding recommendations without financial data."}, output.FundingRecommendations)
}

func TestHandler_Execute_NetCostInvariants(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		MatchedScholarships: []map[string]interface{}{
			createMatchedScholarship("Alpha", "$8,000 annually"),
			createMatchedScholarship("Beta", "Amount not specified"),
		},
		StudentProfile: map[string]interface{}{
			"target_location": "Germany",
			"academic_level":  "master program",
		},
	})

	assert.NoError(t, err)
	for _, b := range output.FinancialBreakdowns {
		assert.GreaterOrEqual(t, b.NetAnnualCost, 0.0)
		assert.Equal(t, b.NetAnnualCost*float64(b.ProgramDurationYears), b.TotalNetCost)
	}
}

// ==========================
// Cost Estimation Tests
// ==========================

func TestEstimateLivingCost(t *testing.T) {
	tests := []struct {
		location string
		want     float64
	}{
		{"Berlin", 10000},
		{"Munich, Germany", 10000},
		{"Tokyo", 15000},
		{"New York, USA", 20000},
		{"London", 15000},
		{"Mars Colony", 12000},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, estimateLivingCost(tt.location))
		})
	}
}

func TestEstimateTuition(t *testing.T) {
	tests := []struct {
		location string
		field    string
		want     float64
	}{
		{"Germany", "medicine", 12000},
		{"Vietnam", "engineering", 27500},
		{"USA", "history", 35000},
		{"United Kingdom", "arts", 27000},
	}

	for _, tt := range tests {
		t.Run(tt.location+"/"+tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, estimateTuition(tt.location, tt.field))
		})
	}
}

func TestEstimateProgramDuration(t *testing.T) {
	assert.Equal(t, 4, estimateProgramDuration("undergraduate"))
	assert.Equal(t, 2, estimateProgramDuration("master program"))
	assert.Equal(t, 2, estimateProgramDuration("MBA"))
	assert.Equal(t, 4, estimateProgramDuration("phd candidate"))
	assert.Equal(t, 4, estimateProgramDuration(""))
}

func TestCalculateScholarshipAmounts(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantAnnual float64
		wantTotal  float64
	}{
		{"full coverage", "Full tuition coverage", 35000, 140000},
		{"percentage", "Amount: 50% tuition waiver", 17500, 70000},
		{"dollar per year", "$10,000 per year", 10000, 40000},
		{"implausible dollar amount", "up to $200,000", 17500, 70000},
		{"unspecified defaults to half", "Amount not specified", 17500, 70000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annual, total := calculateScholarshipAmounts(tt.amount, 35000, 4)
			assert.Equal(t, tt.wantAnnual, annual)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestParseTuitionFromText_RequiresUniversityMention(t *testing.T) {
	text := "Generic listing - tuition: $28,000 per year"

	assert.Equal(t, 0.0, parseTuitionFromText(text, "Stanford University"))
	assert.Equal(t, 28000.0, parseTuitionFromText("Stanford University "+text, "Stanford University"))
}

func TestParseGovernmentAidFromText(t *testing.T) {
	aid, loan := parseGovernmentAidFromText("Federal aid: $5,500 and student loan: $9,000 available")
	assert.Equal(t, 5500.0, aid)
	assert.Equal(t, 9000.0, loan)

	aid, loan = parseGovernmentAidFromText("no funding details here")
	assert.Equal(t, 0.0, aid)
	assert.Equal(t, 0.0, loan)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "0", formatUSD(0))
	assert.Equal(t, "9,500", formatUSD(9500))
	assert.Equal(t, "43,333", formatUSD(43333.4))
	assert.Equal(t, "1,234,567", formatUSD(1234567))
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkCalculateBreakdown(b *testing.B) {
	scholarship := createMatchedScholarship("Benchmark Scholarship", "Full tuition coverage")
	student := createTestStudent()
	results := []string{"Stanford University tuition: $35,000 per year"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculateBreakdown(scholarship, student, results)
	}
}
