// internal/workers/counseling/analyze-scholarships/handler_test.go
package analyzescholarships

import (
	"context"
	"strings"
	"testing"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

const sampleSection = `Global Excellence Scholarship
Offered to international students at Stanford University pursuing engineering studies.
Requires GPA of 3.5 and an IELTS score of 6.5. Full tuition coverage.
Deadline: March 15, 2026
Essay required for all applicants.`

func createTestInput() *Input {
	return &Input{
		SearchResults:    []string{sampleSection},
		TargetUniversity: "Stanford University",
		TargetField:      "engineering",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ParsesScholarship(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 1, output.TotalScholarshipsFound)

	record := output.Scholarships[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Global Excellence Scholarship", record.Name)
	assert.Equal(t, "Stanford University", record.University)
	assert.Equal(t, "international", record.TargetRegion)
	assert.Equal(t, "all", record.TargetAgeGroup)
	assert.Nil(t, record.TargetGender)
	assert.Nil(t, record.TargetReligion)
	assert.Equal(t, "engineering", record.FieldOfStudy)
	assert.Equal(t, []string{"Minimum GPA: 3.5"}, record.AcademicRequirements)
	assert.Equal(t, []string{"IELTS: minimum 6.5"}, record.RequiredCertificates)
	assert.Equal(t, []string{models.SentinelNoExtracurricular}, record.RequiredExtracurricular)
	assert.Equal(t, "Full tuition coverage", record.ScholarshipAmount)
	assert.Equal(t, "March 15, 2026", record.Deadline)
	assert.Equal(t, []string{"Essay required"}, record.AdditionalRequirements)

	assert.Contains(t, output.AnalysisSummary, "Found 1 scholarship opportunities for engineering studies.")
	assert.Contains(t, output.AnalysisSummary, "1 offer full tuition coverage.")
}

func TestHandler_Execute_EmptyResults(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SearchResults:    []string{"", "   "},
		TargetUniversity: "MIT",
		TargetField:      "physics",
	})

	assert.NoError(t, err)
	assert.Empty(t, output.Scholarships)
	assert.Equal(t, 0, output.TotalScholarshipsFound)
	assert.Equal(t, "No scholarships found for physics at MIT. Consider broadening search criteria.", output.AnalysisSummary)
}

func TestHandler_Execute_Idempotent(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	input := createTestInput()

	first, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	second, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)

	// Generated IDs differ per run; everything extracted must not.
	for i := range first.Scholarships {
		first.Scholarships[i].ID = ""
		second.Scholarships[i].ID = ""
	}
	assert.Equal(t, first.Scholarships, second.Scholarships)
	assert.Equal(t, first.AnalysisSummary, second.AnalysisSummary)
}

func TestHandler_Execute_DeduplicatesByName(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	duplicate := strings.Replace(sampleSection, "Deadline: March 15, 2026", "Deadline: April 1, 2026", 1)
	input := &Input{
		SearchResults:    []string{sampleSection, duplicate},
		TargetUniversity: "Stanford University",
		TargetField:      "engineering",
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 1, output.TotalScholarshipsFound)
	// First occurrence wins.
	assert.Equal(t, "March 15, 2026", output.Scholarships[0].Deadline)
}

// ==========================
// Section Splitting Tests
// ==========================

func TestSplitSections_DropsShortSections(t *testing.T) {
	content := "Short note about a scholarship.\n\n1." + strings.Repeat(" detailed scholarship text", 10)

	sections, discarded := splitSections(content, 100)

	assert.Len(t, sections, 1)
	assert.Equal(t, 1, discarded)
}

func TestSplitSections_AppliesDelimitersSuccessively(t *testing.T) {
	long := strings.Repeat("x", 101)
	content := "Scholarship Name: Alpha Scholarship " + long + "\n\n• Beta Award " + long

	sections, _ := splitSections(content, 100)

	assert.Len(t, sections, 2)
}

// ==========================
// Field Extraction Tests
// ==========================

func TestExtractName(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    string
	}{
		{"pattern match", "The Merit Scholarship is open to all students", "The Merit Scholarship"},
		{"labelled name", "Scholarship Name: STEM Futures Scholarship\nmore text", "STEM Futures Scholarship"},
		{"first line fallback", "Rhodes grant for graduate study\nlonger body text follows", "Rhodes grant for graduate study"},
		{"no name", "Generic text about universities with no funding keywords", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractName(tt.section))
		})
	}
}

func TestExtractUniversity(t *testing.T) {
	tests := []struct {
		name    string
		section string
		target  string
		want    string
	}{
		{"target contained", "offered by harvard university", "Harvard University", "Harvard University"},
		{"university of pattern", "offered at University of Toronto.", "MIT", "University of Toronto"},
		{"suffix pattern", "the Kyoto Institute runs this program.", "MIT", "Kyoto Institute"},
		{"fallback to target", "no institution named here", "MIT", "MIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUniversity(tt.section, tt.target))
		})
	}
}

func TestExtractRegion(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"open to international applicants", "international"},
		{"for students from developing countries", "developing_countries"},
		{"applicants from Vietnam and Thailand", "specific_countries: vietnam, thailand"},
		{"no geography mentioned here", "all"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractRegion(tt.section))
	}
}

func TestExtractAgeGroup(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"for undergraduate students", "18-22"},
		{"open to master candidates", "23-26"},
		{"phd researchers only", "25-30"},
		{"high school seniors", "under_18"},
		{"anyone may apply", "all"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractAgeGroup(tt.section))
	}
}

func TestExtractGender(t *testing.T) {
	t.Run("female keywords checked first", func(t *testing.T) {
		g := extractGender("scholarship for female engineers")
		assert.NotNil(t, g)
		assert.Equal(t, "female", *g)
	})

	t.Run("male", func(t *testing.T) {
		g := extractGender("for young men in science")
		assert.NotNil(t, g)
		assert.Equal(t, "male", *g)
	})

	t.Run("neutral", func(t *testing.T) {
		assert.Nil(t, extractGender("open to all applicants"))
	})
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"covers full tuition for four years", "Full tuition coverage"},
		{"awards 50% of tuition", "Amount: 50% of tuition"},
		{"up to $10,000 available", "Amount: up to $10,000"},
		{"$5,000 per year awarded", "Amount: $5,000 per year"},
		{"includes a monthly allowance", "Tuition + living allowance"},
		{"generous funding", models.SentinelAmountUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractAmount(tt.section))
	}
}

func TestExtractRequiredCertificates(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    []string
	}{
		{"scored requirement", "ielts score of 7.0 needed", []string{"IELTS: minimum 7"}},
		{"bare requirement", "a toefl certificate is expected", []string{"TOEFL required"}},
		{"multiple", "ielts 6.5 and gre of 320", []string{"IELTS: minimum 6.5", "GRE: minimum 320"}},
		{"none", "no tests needed for entry", []string{models.SentinelNoCertificates}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRequiredCertificates(tt.section))
		})
	}
}

func TestExtractRequiredExtracurricular(t *testing.T) {
	activities := extractRequiredExtracurricular("leadership and volunteer work valued, research a plus")
	assert.Equal(t, []string{"Leadership", "Volunteer", "Research"}, activities)

	assert.Equal(t, []string{models.SentinelNoExtracurricular},
		extractRequiredExtracurricular("nothing else needed"))
}

func TestExtractAdditionalRequirements(t *testing.T) {
	reqs := extractAdditionalRequirements("submit an essay, attend an interview, show financial need")
	assert.Equal(t, []string{
		"Essay required",
		"Interview required",
		"Financial need demonstration",
	}, reqs)

	assert.Empty(t, extractAdditionalRequirements("no extras"))
}

func TestDedupeScholarships_FirstSeenWins(t *testing.T) {
	records := []models.ScholarshipRecord{
		{ID: "a", Name: "Merit  Scholarship"},
		{ID: "b", Name: "merit scholarship"},
		{ID: "c", Name: "Other Scholarship"},
	}

	unique := dedupeScholarships(records)

	assert.Len(t, unique, 2)
	assert.Equal(t, "a", unique[0].ID)
	assert.Equal(t, "c", unique[1].ID)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(b))
	input := createTestInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
