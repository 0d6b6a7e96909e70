// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	analyzescholarships "scholarship-workers/internal/workers/counseling/analyze-scholarships"
	calculatefinancials "scholarship-workers/internal/workers/counseling/calculate-financials"
	classifystudent "scholarship-workers/internal/workers/counseling/classify-student"
	matchscholarships "scholarship-workers/internal/workers/counseling/match-scholarships"
)

// ==========================
// Test Helper Functions
// ==========================

const scholarshipListing = `Global Excellence Scholarship
Offered to international students at Stanford University pursuing engineering studies.
Requires GPA of 3.5 and an IELTS score of 6.5. Full tuition coverage.
Deadline: March 15, 2026
Essay required for all applicants.`

func createStudentProfile() models.StudentProfile {
	return models.StudentProfile{
		PersonalInfo:       "I am a 20 years old female student from Hanoi, Vietnam.",
		AcademicBackground: "Bachelor student with GPA: 3.8, received a national award for my research project.",
		Extracurricular:    "Volunteer work at a local charity and president of the student science club.",
		Certificates:       "IELTS: 7.0",
		TargetField:        "engineering",
		TargetLocation:     "USA",
	}
}

// toMaps converts typed stage output into the loosely-typed maps the next
// stage consumes, the same way variables travel between process tasks.
func toMaps(t testing.TB, v interface{}) []map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func toMap(t testing.TB, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ==========================
// Full Pipeline Test
// ==========================

// TestFullPipeline runs all four counseling workers in process, chaining each
// stage's output into the next through the same JSON shapes Zeebe would
// carry, with the classified profile handed to the matcher through Redis.
func TestFullPipeline(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	searchResults := []string{scholarshipListing}

	// --- Stage 1: analyze-scholarships ---
	analyzer := analyzescholarships.NewHandler(&analyzescholarships.Config{
		MinSectionLength: 100,
		Timeout:          30 * time.Second,
	}, log)

	analysis, err := analyzer.Execute(ctx, &analyzescholarships.Input{
		SearchResults:    searchResults,
		TargetUniversity: "Stanford University",
		TargetField:      "engineering",
	})
	require.NoError(t, err)
	require.Equal(t, 1, analysis.TotalScholarshipsFound)
	assert.Equal(t, "Global Excellence Scholarship", analysis.Scholarships[0].Name)

	// --- Stage 2: classify-student ---
	classifier := classifystudent.NewHandler(&classifystudent.Config{
		CacheTTL: 30 * time.Minute,
		Timeout:  30 * time.Second,
	}, rdb, log)

	classification, err := classifier.Execute(ctx, &classifystudent.Input{
		StudentID:      "e2e-student-001",
		StudentProfile: createStudentProfile(),
	})
	require.NoError(t, err)

	classified := classification.ClassifiedStudent
	assert.Equal(t, "vietnam", classified.Region)
	assert.Equal(t, "18-22", classified.AgeGroup)
	require.NotNil(t, classified.Gender)
	assert.Equal(t, "female", *classified.Gender)
	assert.Equal(t, "undergraduate", classified.AcademicLevel)
	assert.Equal(t, []string{"IELTS: 7"}, classified.CertificatesList)
	assert.Equal(t, 10, classified.ProfileScore)
	assert.True(t, mr.Exists("student:classified:e2e-student-001"))

	// --- Stage 3: match-scholarships, profile resolved from cache ---
	matcher := matchscholarships.NewHandler(&matchscholarships.Config{
		Timeout: 30 * time.Second,
	}, rdb, log)

	matching, err := matcher.Execute(ctx, &matchscholarships.Input{
		StudentID:             "e2e-student-001",
		AvailableScholarships: toMaps(t, analysis.Scholarships),
	})
	require.NoError(t, err)
	require.Equal(t, 1, matching.TotalMatches)

	match := matching.MatchedScholarships[0]
	assert.Equal(t, "Global Excellence Scholarship", match.ScholarshipName)
	assert.Equal(t, "Stanford University", match.University)
	assert.Equal(t, 78.0, match.MatchScore)
	assert.Equal(t, models.MatchGood, match.MatchLevel)
	assert.Equal(t, "MEDIUM - Good match, prepare application", match.ApplicationPriority)
	assert.Empty(t, match.MissingRequirements)
	assert.Contains(t, matching.MatchingSummary, "Found 1 scholarship matches for your profile.")
	assert.Contains(t, matching.MatchingSummary, "1 good matches - strong candidates for application.")
	assert.Contains(t, matching.MatchingSummary, "Your profile is competitive for most scholarships.")

	// --- Stage 4: calculate-financials ---
	calculator := calculatefinancials.NewHandler(&calculatefinancials.Config{
		Timeout: 30 * time.Second,
	}, log)

	financials, err := calculator.Execute(ctx, &calculatefinancials.Input{
		MatchedScholarships: toMaps(t, matching.MatchedScholarships),
		StudentProfile:      toMap(t, classified),
		SearchResults:       searchResults,
	})
	require.NoError(t, err)
	require.Len(t, financials.FinancialBreakdowns, 1)

	b := financials.FinancialBreakdowns[0]
	// No tuition figure in the listing, so estimated USA engineering tuition.
	assert.Equal(t, 38500.0, b.AnnualTuition)
	assert.Equal(t, 4, b.ProgramDurationYears)
	assert.Equal(t, 38500.0, b.ScholarshipAmountAnnual)
	assert.Equal(t, 6000.0, b.GovernmentAidAnnual)
	assert.Equal(t, 12000.0, b.GovernmentLoanAnnual)
	assert.Equal(t, 0.0, b.NetAnnualCost)
	assert.Equal(t, 0.0, b.TotalNetCost)
	assert.Equal(t, 15000.0, b.EstimatedLivingCostAnnual)
	assert.Equal(t, 60000.0, b.TotalEstimatedCost)

	assert.Contains(t, financials.FinancialSummary, "Analyzed 1 scholarship options.")
	assert.Contains(t, financials.FinancialSummary, "1 scholarships offer full funding")
	assert.Contains(t, financials.FundingRecommendations, "Prioritize fully-funded scholarships to minimize financial burden.")
	assert.Contains(t, financials.FundingRecommendations, "Apply for FAFSA to access federal aid programs.")
	assert.Contains(t, financials.FundingRecommendations, "Your strong profile qualifies you for merit-based scholarships.")
}

// ==========================
// Degraded Pipeline Tests
// ==========================

// TestPipeline_NoScholarshipsFound drives empty search results end to end:
// every stage must complete and report explanatory-empty output.
func TestPipeline_NoScholarshipsFound(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	analyzer := analyzescholarships.NewHandler(&analyzescholarships.Config{
		MinSectionLength: 100,
		Timeout:          30 * time.Second,
	}, log)
	analysis, err := analyzer.Execute(ctx, &analyzescholarships.Input{
		SearchResults:    []string{"nothing useful here"},
		TargetUniversity: "MIT",
		TargetField:      "physics",
	})
	require.NoError(t, err)
	assert.Zero(t, analysis.TotalScholarshipsFound)

	classifier := classifystudent.NewHandler(&classifystudent.Config{
		CacheTTL: 30 * time.Minute,
		Timeout:  30 * time.Second,
	}, rdb, log)
	classification, err := classifier.Execute(ctx, &classifystudent.Input{
		StudentID:      "e2e-student-002",
		StudentProfile: createStudentProfile(),
	})
	require.NoError(t, err)

	matcher := matchscholarships.NewHandler(&matchscholarships.Config{
		Timeout: 30 * time.Second,
	}, rdb, log)
	matching, err := matcher.Execute(ctx, &matchscholarships.Input{
		StudentID:             "e2e-student-002",
		AvailableScholarships: toMaps(t, analysis.Scholarships),
	})
	require.NoError(t, err)
	assert.Zero(t, matching.TotalMatches)
	assert.Equal(t, "No suitable scholarships found. Consider broadening search criteria or improving profile.", matching.MatchingSummary)

	calculator := calculatefinancials.NewHandler(&calculatefinancials.Config{
		Timeout: 30 * time.Second,
	}, log)
	financials, err := calculator.Execute(ctx, &calculatefinancials.Input{
		MatchedScholarships: toMaps(t, matching.MatchedScholarships),
		StudentProfile:      toMap(t, classification.ClassifiedStudent),
	})
	require.NoError(t, err)
	assert.Empty(t, financials.FinancialBreakdowns)
	assert.Equal(t, "No financial information available for the scholarships.", financials.FinancialSummary)
}

// TestPipeline_MissingProfile verifies the matcher degrades to an
// explanatory-empty result when neither an inline profile nor a cached one
// exists, instead of failing the job.
func TestPipeline_MissingProfile(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	analyzer := analyzescholarships.NewHandler(&analyzescholarships.Config{
		MinSectionLength: 100,
		Timeout:          30 * time.Second,
	}, log)
	analysis, err := analyzer.Execute(ctx, &analyzescholarships.Input{
		SearchResults:    []string{scholarshipListing},
		TargetUniversity: "Stanford University",
		TargetField:      "engineering",
	})
	require.NoError(t, err)
	require.Equal(t, 1, analysis.TotalScholarshipsFound)

	matcher := matchscholarships.NewHandler(&matchscholarships.Config{
		Timeout: 30 * time.Second,
	}, rdb, log)
	matching, err := matcher.Execute(ctx, &matchscholarships.Input{
		StudentID:             "never-classified",
		AvailableScholarships: toMaps(t, analysis.Scholarships),
	})
	require.NoError(t, err)
	assert.Zero(t, matching.TotalMatches)
	assert.Contains(t, matching.MatchingSummary, "No student profile available")
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkFullPipeline(b *testing.B) {
	log := logger.NewTestLogger(b)
	ctx := context.Background()

	analyzer := analyzescholarships.NewHandler(&analyzescholarships.Config{
		MinSectionLength: 100,
		Timeout:          30 * time.Second,
	}, log)
	classifier := classifystudent.NewHandler(&classifystudent.Config{
		CacheTTL: 30 * time.Minute,
		Timeout:  30 * time.Second,
	}, nil, log)
	matcher := matchscholarships.NewHandler(&matchscholarships.Config{
		Timeout: 30 * time.Second,
	}, nil, log)
	calculator := calculatefinancials.NewHandler(&calculatefinancials.Config{
		Timeout: 30 * time.Second,
	}, log)

	profile := createStudentProfile()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analysis, _ := analyzer.Execute(ctx, &analyzescholarships.Input{
			SearchResults:    []string{scholarshipListing},
			TargetUniversity: "Stanford University",
			TargetField:      "engineering",
		})
		classification, _ := classifier.Execute(ctx, &classifystudent.Input{StudentProfile: profile})

		matching, _ := matcher.Execute(ctx, &matchscholarships.Input{
			StudentProfile:        toMap(b, classification.ClassifiedStudent),
			AvailableScholarships: toMaps(b, analysis.Scholarships),
		})

		calculator.Execute(ctx, &calculatefinancials.Input{
			MatchedScholarships: toMaps(b, matching.MatchedScholarships),
			StudentProfile:      toMap(b, classification.ClassifiedStudent),
			SearchResults:       []string{scholarshipListing},
		})
	}
}
