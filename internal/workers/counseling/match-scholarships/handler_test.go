// internal/workers/counseling/match-scholarships/handler_test.go
package matchscholarships

import (
	"context"
	"encoding/json"
	"testing"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/go-redis/redismock/v9"
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
		"region":               "vietnam",
		"age_group":            "18-22",
		"gender":               "female",
		"academic_level":       "undergraduate",
		"target_field":         "computer science",
		"academic_strengths":   []interface{}{"High GPA: 3.8", "Research"},
		"certificates_list":    []interface{}{"IELTS: 7"},
		"extracurricular_list": []interface{}{"Volunteer", "Leadership"},
		"profile_score":        9,
	}
}

func createOpenScholarship(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":                     name,
		"university":               "Stanford University",
		"target_region":            "all",
		"target_age_group":         "all",
		"academic_requirements":    []interface{}{"Minimum GPA: 3.5"},
		"required_certificates":    []interface{}{models.SentinelNoCertificates},
		"required_extracurricular": []interface{}{models.SentinelNoExtracurricular},
		"field_of_study":           "all",
		"scholarship_amount":       "Full tuition coverage",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_StrongProfileScoresNinetyFive(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfile:        createTestStudent(),
		AvailableScholarships: []map[string]interface{}{createOpenScholarship("Global Excellence Scholarship")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.TotalMatches)

	match := output.MatchedScholarships[0]
	assert.Equal(t, "Global Excellence Scholarship", match.ScholarshipName)
	assert.Equal(t, "Stanford University", match.University)
	assert.Equal(t, 95.0, match.MatchScore)
	assert.Equal(t, models.MatchExcellent, match.MatchLevel)
	assert.Equal(t, "HIGH - Strong match, apply immediately", match.ApplicationPriority)
	assert.Empty(t, match.MissingRequirements)

	assert.Contains(t, match.MatchingCriteria, "Region: International scholarship")
	assert.Contains(t, match.MatchingCriteria, "Gender: Gender-neutral scholarship")
	assert.Contains(t, match.MatchingCriteria, "GPA requirement: Meets minimum 3.5")
	assert.Contains(t, match.MatchingCriteria, "Certificates: No specific requirements")
	assert.Contains(t, match.MatchingCriteria, "Extracurricular: No specific requirements")
	assert.Contains(t, match.MatchingCriteria, "Field of study: Open to all fields")

	assert.Contains(t, output.MatchingSummary, "Found 1 scholarship matches")
	assert.Contains(t, output.MatchingSummary, "1 excellent matches")
	assert.Contains(t, output.MatchingSummary, "competitive for most scholarships")
}

func TestHandler_Execute_FiltersNoMatchScholarships(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	student := map[string]interface{}{
		"region":               "vietnam",
		"age_group":            "18-22",
		"gender":               "female",
		"academic_level":       "undergraduate",
		"target_field":         "computer science",
		"certificates_list":    []interface{}{models.SentinelNoIntlCertificates},
		"extracurricular_list": []interface{}{},
		"profile_score":        2,
	}
	mismatch := map[string]interface{}{
		"name":                     "Regional Medical Grant",
		"university":               "Old College",
		"target_region":            "europe",
		"target_age_group":         "26-30",
		"target_gender":            "male",
		"target_religion":          "christian",
		"academic_requirements":    []interface{}{"Minimum GPA: 3.9"},
		"required_certificates":    []interface{}{"IELTS: minimum 8.0"},
		"required_extracurricular": []interface{}{"leadership"},
		"field_of_study":           "medicine",
	}

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfile:        student,
		AvailableScholarships: []map[string]interface{}{mismatch},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.TotalMatches)
	assert.Empty(t, output.MatchedScholarships)
	assert.Contains(t, output.MatchingSummary, "No suitable scholarships found")
}

func TestHandler_Execute_RanksAndPicksBestThree(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	partial := createOpenScholarship("Partial Fit Award")
	partial["field_of_study"] = "software engineering and computer science"

	scholarships := []map[string]interface{}{
		partial,
		createOpenScholarship("Alpha Scholarship"),
		createOpenScholarship("Beta Scholarship"),
		createOpenScholarship("Gamma Scholarship"),
	}

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfile:        createTestStudent(),
		AvailableScholarships: scholarships,
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, output.TotalMatches)
	assert.Len(t, output.BestMatches, 3)

	// The 93-point related-field match drops below the three 95-point
	// matches, which keep their input order under the stable sort.
	assert.Equal(t, "Alpha Scholarship", output.MatchedScholarships[0].ScholarshipName)
	assert.Equal(t, "Beta Scholarship", output.MatchedScholarships[1].ScholarshipName)
	assert.Equal(t, "Gamma Scholarship", output.MatchedScholarships[2].ScholarshipName)
	assert.Equal(t, "Partial Fit Award", output.MatchedScholarships[3].ScholarshipName)
	assert.Equal(t, 93.0, output.MatchedScholarships[3].MatchScore)
}

func TestHandler_Execute_MissingProfileReturnsEmptyResult(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		AvailableScholarships: []map[string]interface{}{createOpenScholarship("Any Scholarship")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.TotalMatches)
	assert.Empty(t, output.MatchedScholarships)
	assert.Contains(t, output.MatchingSummary, "No student profile available")
}

func TestHandler_Execute_InvalidProfileReturnsEmptyResult(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfile:        map[string]interface{}{"region": 42},
		AvailableScholarships: []map[string]interface{}{createOpenScholarship("Any Scholarship")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.TotalMatches)
	assert.Contains(t, output.MatchingSummary, "No student profile available")
}

func TestHandler_Execute_LoadsProfileFromCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

	cached, err := json.Marshal(createTestStudent())
	assert.NoError(t, err)
	mock.ExpectGet("student:classified:stu-9").SetVal(string(cached))

	output, err := handler.Execute(context.Background(), &Input{
		StudentID:             "stu-9",
		AvailableScholarships: []map[string]interface{}{createOpenScholarship("Cached Profile Scholarship")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.TotalMatches)
	assert.Equal(t, 95.0, output.MatchedScholarships[0].MatchScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheMissReturnsEmptyResult(t *testing.T) {
	client, mock := redismock.NewClientMock()
	handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

	mock.ExpectGet("student:classified:stu-404").RedisNil()

	output, err := handler.Execute(context.Background(), &Input{
		StudentID:             "stu-404",
		AvailableScholarships: []map[string]interface{}{createOpenScholarship("Any Scholarship")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.TotalMatches)
	assert.Contains(t, output.MatchingSummary, "No student profile available")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Scoring Tests
// ==========================

func TestCheckCertificates_ScoreCloseToRequirement(t *testing.T) {
	student := map[string]interface{}{
		"certificates_list": []interface{}{"IELTS: 6.5"},
	}
	scholarship := map[string]interface{}{
		"required_certificates": []interface{}{"IELTS: minimum 7.0"},
	}

	score, matches, missing, suggestions := checkCertificates(student, scholarship)

	assert.Equal(t, 6.0, score)
	assert.Contains(t, matches, "IELTS: 6.5 close to requirement 7")
	assert.Empty(t, missing)
	assert.Contains(t, suggestions, "Retake IELTS to reach 7 requirement")
}

func TestCheckCertificates_AbsentCertificate(t *testing.T) {
	student := map[string]interface{}{
		"certificates_list": []interface{}{models.SentinelNoIntlCertificates},
	}
	scholarship := map[string]interface{}{
		"required_certificates": []interface{}{"TOEFL: minimum 90"},
	}

	score, _, missing, suggestions := checkCertificates(student, scholarship)

	assert.Equal(t, 0.0, score)
	assert.Contains(t, missing, "TOEFL: Certificate required but not obtained")
	assert.Contains(t, missing, "Missing required international certificates")
	assert.Contains(t, suggestions, "Obtain TOEFL certificate with minimum score 90")
}

func TestCheckDemographics_DevelopingCountries(t *testing.T) {
	student := map[string]interface{}{
		"region":    "vietnam",
		"age_group": "18-22",
	}
	scholarship := map[string]interface{}{
		"target_region":    "developing countries",
		"target_age_group": "all",
	}

	score, matches, missing := checkDemographics(student, scholarship)

	// 6 region + 4 age + 4 gender-neutral + 4 religion-neutral.
	assert.Equal(t, 18.0, score)
	assert.Contains(t, matches, "Region: Developing countries eligible")
	assert.Empty(t, missing)
}

func TestCheckExtracurricular_PartialOverlap(t *testing.T) {
	student := map[string]interface{}{
		"extracurricular_list": []interface{}{"Volunteer", "Sports"},
	}
	scholarship := map[string]interface{}{
		"required_extracurricular": []interface{}{"volunteer", "leadership", "research", "arts"},
	}

	score, matches, missing, suggestions := checkExtracurricular(student, scholarship)

	assert.Equal(t, 0.25*15, score)
	assert.Contains(t, matches, "Extracurricular: Volunteer activity present")
	assert.Contains(t, missing, "Missing activity: leadership")
	assert.Contains(t, suggestions, "Consider engaging in leadership activities")
}

func TestCheckAcademics_GPACloseToRequirement(t *testing.T) {
	student := map[string]interface{}{"profile_score": 7}
	scholarship := map[string]interface{}{
		"academic_requirements": []interface{}{"Minimum GPA: 3.5"},
	}

	score, matches, missing, suggestions := checkAcademics(student, scholarship)

	// 12 for the good profile band, 10 for estimated GPA 3.4 within 0.2.
	assert.Equal(t, 22.0, score)
	assert.Contains(t, matches, "GPA requirement: Close to minimum 3.5")
	assert.Empty(t, missing)
	assert.Contains(t, suggestions, "Work on raising GPA to meet 3.5 requirement")
}

func TestEstimateGPAFromProfile(t *testing.T) {
	tests := []struct {
		profileScore int
		want         float64
	}{
		{10, 3.8},
		{8, 3.6},
		{6, 3.2},
		{5, 3.0},
		{1, 2.8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, estimateGPAFromProfile(tt.profileScore))
	}
}

func TestApplicationPriority(t *testing.T) {
	assert.Equal(t, "HIGH - Strong match, apply immediately", applicationPriority(85, 1))
	assert.Equal(t, "MEDIUM - Good match, prepare application", applicationPriority(85, 2))
	assert.Equal(t, "MEDIUM - Good match, prepare application", applicationPriority(70, 0))
	assert.Equal(t, "LOW - Fair match, consider as backup", applicationPriority(50, 5))
	assert.Equal(t, "VERY LOW - Poor match, focus on improvement first", applicationPriority(30, 0))
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkAnalyzeMatch(b *testing.B) {
	student := createTestStudent()
	scholarship := createOpenScholarship("Benchmark Scholarship")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzeMatch(student, scholarship)
	}
}
