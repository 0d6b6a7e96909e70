// internal/workers/counseling/match-scholarships/scoring.go
package matchscholarships

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"scholarship-workers/internal/extract"
	"scholarship-workers/internal/models"
)

// Sub-score weights. The five categories sum to 100; the extracurricular
// no-requirement branch deliberately credits 10 of its 15 points, mirroring
// the heuristic this rubric was calibrated against.
const (
	demographicWeight     = 20
	academicWeight        = 30
	certificateWeight     = 25
	extracurricularWeight = 15
	fieldWeight           = 10
)

var numberRe = regexp.MustCompile(`(\d+\.?\d*)`)

// analyzeMatch scores one scholarship against the student profile. A result
// below the POOR threshold is not a match at all; ok is false.
func analyzeMatch(student, scholarship map[string]interface{}) (models.MatchedScholarship, bool) {
	var (
		score       float64
		criteria    []string
		missing     []string
		suggestions []string
	)

	demoScore, demoMatches, demoMissing := checkDemographics(student, scholarship)
	score += demoScore
	criteria = append(criteria, demoMatches...)
	missing = append(missing, demoMissing...)

	acadScore, acadMatches, acadMissing, acadSuggestions := checkAcademics(student, scholarship)
	score += acadScore
	criteria = append(criteria, acadMatches...)
	missing = append(missing, acadMissing...)
	suggestions = append(suggestions, acadSuggestions...)

	certScore, certMatches, certMissing, certSuggestions := checkCertificates(student, scholarship)
	score += certScore
	criteria = append(criteria, certMatches...)
	missing = append(missing, certMissing...)
	suggestions = append(suggestions, certSuggestions...)

	extraScore, extraMatches, extraMissing, extraSuggestions := checkExtracurricular(student, scholarship)
	score += extraScore
	criteria = append(criteria, extraMatches...)
	missing = append(missing, extraMissing...)
	suggestions = append(suggestions, extraSuggestions...)

	fieldScore, fieldMatches, fieldMissing := checkField(student, scholarship)
	score += fieldScore
	criteria = append(criteria, fieldMatches...)
	missing = append(missing, fieldMissing...)

	level := models.MatchLevelForScore(score)
	if level == models.MatchNone {
		return models.MatchedScholarship{}, false
	}

	return models.MatchedScholarship{
		ScholarshipName:        getString(scholarship, "name", "Unknown Scholarship"),
		University:             getString(scholarship, "university", "Unknown University"),
		MatchLevel:             level,
		MatchScore:             math.Round(score*10) / 10,
		MatchingCriteria:       criteria,
		MissingRequirements:    missing,
		ScholarshipAmount:      getString(scholarship, "scholarship_amount", models.SentinelAmountUnknown),
		ImprovementSuggestions: suggestions,
		ApplicationPriority:    applicationPriority(score, len(missing)),
	}, true
}

// checkDemographics covers region (8), age group (4), gender (4), religion (4).
func checkDemographics(student, scholarship map[string]interface{}) (float64, []string, []string) {
	var (
		score   float64
		matches []string
		missing []string
	)

	studentRegion := strings.ToLower(getString(student, "region", ""))
	targetRegion := strings.ToLower(getString(scholarship, "target_region", ""))

	switch {
	case targetRegion == "all" || targetRegion == "international" || targetRegion == "global":
		score += 8
		matches = append(matches, "Region: International scholarship")
	case strings.Contains(targetRegion, studentRegion) || strings.Contains(studentRegion, targetRegion):
		score += 8
		matches = append(matches, fmt.Sprintf("Region: Matches %s", targetRegion))
	case strings.Contains(targetRegion, "developing") &&
		(studentRegion == "vietnam" || studentRegion == "asia" || studentRegion == "southeast_asia"):
		score += 6
		matches = append(matches, "Region: Developing countries eligible")
	default:
		missing = append(missing, fmt.Sprintf("Region mismatch: scholarship targets %s", targetRegion))
	}

	studentAge := getString(student, "age_group", "")
	targetAge := getString(scholarship, "target_age_group", "")

	if targetAge == "all" || targetAge == "" || studentAge == targetAge {
		score += 4
		matches = append(matches, fmt.Sprintf("Age group: Matches %s", studentAge))
	} else {
		missing = append(missing, fmt.Sprintf("Age group mismatch: scholarship targets %s", targetAge))
	}

	studentGender := getOptionalString(student, "gender")
	targetGender := getOptionalString(scholarship, "target_gender")

	switch {
	case targetGender == nil:
		score += 4
		matches = append(matches, "Gender: Gender-neutral scholarship")
	case studentGender != nil && *studentGender == *targetGender:
		score += 4
		matches = append(matches, fmt.Sprintf("Gender: Matches %s", *targetGender))
	case studentGender == nil:
		score += 2
		matches = append(matches, "Gender: Not specified, may be eligible")
	default:
		missing = append(missing, fmt.Sprintf("Gender mismatch: scholarship targets %s", *targetGender))
	}

	studentReligion := getOptionalString(student, "religion")
	targetReligion := getOptionalString(scholarship, "target_religion")

	switch {
	case targetReligion == nil:
		score += 4
		matches = append(matches, "Religion: Religion-neutral scholarship")
	case studentReligion != nil && *studentReligion == *targetReligion:
		score += 4
		matches = append(matches, fmt.Sprintf("Religion: Matches %s", *targetReligion))
	case studentReligion == nil:
		score += 2
		matches = append(matches, "Religion: Not specified, may be eligible")
	default:
		missing = append(missing, fmt.Sprintf("Religion mismatch: scholarship targets %s", *targetReligion))
	}

	return score, matches, missing
}

// checkAcademics covers the profile-score band (15) and the GPA requirement
// comparison (15, or a flat 10 when the scholarship states no GPA minimum).
func checkAcademics(student, scholarship map[string]interface{}) (float64, []string, []string, []string) {
	var (
		score       float64
		matches     []string
		missing     []string
		suggestions []string
	)

	profileScore := getInt(student, "profile_score", 5)
	academicReqs := getStringSlice(scholarship, "academic_requirements")

	switch {
	case profileScore >= 8:
		score += 15
		matches = append(matches, "Academic performance: Strong profile")
	case profileScore >= 6:
		score += 12
		matches = append(matches, "Academic performance: Good profile")
	case profileScore >= 4:
		score += 8
		matches = append(matches, "Academic performance: Adequate profile")
		for _, req := range academicReqs {
			if strings.Contains(strings.ToLower(req), "honor") {
				suggestions = append(suggestions, "Work on achieving academic honors to strengthen profile")
				break
			}
		}
	default:
		score += 4
		missing = append(missing, "Academic performance: Below average profile")
		suggestions = append(suggestions, "Focus on improving GPA and academic achievements")
	}

	var gpaReqs []string
	for _, req := range academicReqs {
		if strings.Contains(strings.ToLower(req), "gpa") {
			gpaReqs = append(gpaReqs, req)
		}
	}

	if len(gpaReqs) == 0 {
		score += 10
		matches = append(matches, "GPA requirement: No specific GPA requirement")
		return score, matches, missing, suggestions
	}

	for _, req := range gpaReqs {
		requiredGPA, ok := extract.Number(req, numberRe)
		if !ok {
			continue
		}

		estimatedGPA := estimateGPAFromProfile(profileScore)

		switch {
		case estimatedGPA >= requiredGPA:
			score += 15
			matches = append(matches, fmt.Sprintf("GPA requirement: Meets minimum %s", trimFloat(requiredGPA)))
		case estimatedGPA >= requiredGPA-0.2:
			score += 10
			matches = append(matches, fmt.Sprintf("GPA requirement: Close to minimum %s", trimFloat(requiredGPA)))
			suggestions = append(suggestions, fmt.Sprintf("Work on raising GPA to meet %s requirement", trimFloat(requiredGPA)))
		default:
			missing = append(missing, fmt.Sprintf("GPA requirement: Need minimum %s", trimFloat(requiredGPA)))
			suggestions = append(suggestions, fmt.Sprintf("Significant GPA improvement needed to reach %s", trimFloat(requiredGPA)))
		}
		break
	}

	return score, matches, missing, suggestions
}

var certTypes = []string{"ielts", "toefl", "sat", "gre"}

// checkCertificates evaluates each required certificate type independently.
// Per-type credit accumulates additively and is deliberately uncapped; a
// scholarship with no certificate requirement is an automatic full pass.
func checkCertificates(student, scholarship map[string]interface{}) (float64, []string, []string, []string) {
	var (
		score       float64
		matches     []string
		missing     []string
		suggestions []string
	)

	studentCerts := getStringSlice(student, "certificates_list")
	requiredCerts := getStringSlice(scholarship, "required_certificates")

	noRequirement := len(requiredCerts) == 0
	for _, cert := range requiredCerts {
		if strings.Contains(strings.ToLower(cert), "no specific") {
			noRequirement = true
			break
		}
	}
	if noRequirement {
		score += certificateWeight
		matches = append(matches, "Certificates: No specific requirements")
		return score, matches, missing, suggestions
	}

	for _, reqCert := range requiredCerts {
		reqLower := strings.ToLower(reqCert)
		for _, certType := range certTypes {
			if !strings.Contains(reqLower, certType) {
				continue
			}
			typeScore, typeMatches, typeMissing, typeSuggestions := checkSpecificCertificate(studentCerts, reqCert, certType)
			score += typeScore
			matches = append(matches, typeMatches...)
			missing = append(missing, typeMissing...)
			suggestions = append(suggestions, typeSuggestions...)
			break
		}
	}

	if score == 0 {
		for _, cert := range studentCerts {
			if strings.Contains(strings.ToLower(cert), "no international") {
				missing = append(missing, "Missing required international certificates")
				suggestions = append(suggestions, "Obtain required certificates (IELTS/TOEFL/SAT/GRE) for this scholarship")
				break
			}
		}
	}

	return score, matches, missing, suggestions
}

func checkSpecificCertificate(studentCerts []string, required, certType string) (float64, []string, []string, []string) {
	var (
		score       float64
		matches     []string
		missing     []string
		suggestions []string
	)

	upper := strings.ToUpper(certType)
	requiredScore, hasRequiredScore := extract.Number(required, numberRe)

	var studentCert string
	for _, cert := range studentCerts {
		if strings.Contains(strings.ToLower(cert), certType) {
			studentCert = cert
			break
		}
	}

	if studentCert == "" {
		missing = append(missing, fmt.Sprintf("%s: Certificate required but not obtained", upper))
		if hasRequiredScore {
			suggestions = append(suggestions, fmt.Sprintf("Obtain %s certificate with minimum score %s", upper, trimFloat(requiredScore)))
		} else {
			suggestions = append(suggestions, fmt.Sprintf("Obtain %s certificate", upper))
		}
		return score, matches, missing, suggestions
	}

	studentScore, hasStudentScore := extract.CertScore(studentCert, certType)

	switch {
	case hasStudentScore && hasRequiredScore:
		switch {
		case studentScore >= requiredScore:
			score = 8
			matches = append(matches, fmt.Sprintf("%s: %s meets requirement %s", upper, trimFloat(studentScore), trimFloat(requiredScore)))
		case studentScore >= requiredScore*0.9:
			score = 6
			matches = append(matches, fmt.Sprintf("%s: %s close to requirement %s", upper, trimFloat(studentScore), trimFloat(requiredScore)))
			suggestions = append(suggestions, fmt.Sprintf("Retake %s to reach %s requirement", upper, trimFloat(requiredScore)))
		default:
			score = 3
			missing = append(missing, fmt.Sprintf("%s: %s below requirement %s", upper, trimFloat(studentScore), trimFloat(requiredScore)))
			suggestions = append(suggestions, fmt.Sprintf("Significant %s improvement needed", upper))
		}
	case hasStudentScore:
		score = 5
		matches = append(matches, fmt.Sprintf("%s: Have certificate with score %s", upper, trimFloat(studentScore)))
	default:
		score = 3
		matches = append(matches, fmt.Sprintf("%s: Have certificate but score not specified", upper))
	}

	return score, matches, missing, suggestions
}

// checkExtracurricular scores the overlap ratio between required and student
// activities. The no-requirement sentinel credits the literal 10 points.
func checkExtracurricular(student, scholarship map[string]interface{}) (float64, []string, []string, []string) {
	var (
		score       float64
		matches     []string
		missing     []string
		suggestions []string
	)

	studentActivities := getStringSlice(student, "extracurricular_list")
	requiredActivities := getStringSlice(scholarship, "required_extracurricular")

	for _, activity := range requiredActivities {
		if strings.Contains(strings.ToLower(activity), "no specific") {
			score += 10
			matches = append(matches, "Extracurricular: No specific requirements")
			return score, matches, missing, suggestions
		}
	}

	if len(requiredActivities) == 0 {
		return score, matches, missing, suggestions
	}

	overlap := 0
	for _, reqActivity := range requiredActivities {
		reqLower := strings.ToLower(reqActivity)
		for _, studentActivity := range studentActivities {
			saLower := strings.ToLower(studentActivity)
			if strings.Contains(saLower, reqLower) || strings.Contains(reqLower, saLower) {
				overlap++
				matches = append(matches, fmt.Sprintf("Extracurricular: %s activity present", titleCase(reqLower)))
				break
			}
		}
	}

	ratio := float64(overlap) / float64(len(requiredActivities))
	score = ratio * extracurricularWeight

	if ratio < 0.5 {
		for _, reqActivity := range requiredActivities {
			reqLower := strings.ToLower(reqActivity)
			found := false
			for _, studentActivity := range studentActivities {
				if strings.Contains(strings.ToLower(studentActivity), reqLower) {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, fmt.Sprintf("Missing activity: %s", reqActivity))
				suggestions = append(suggestions, fmt.Sprintf("Consider engaging in %s activities", reqLower))
			}
		}
	}

	return score, matches, missing, suggestions
}

// checkField scores target-field alignment: 10 for open/exact, 8 for a
// containment match, 0 otherwise.
func checkField(student, scholarship map[string]interface{}) (float64, []string, []string) {
	var (
		score   float64
		matches []string
		missing []string
	)

	studentField := strings.ToLower(getString(student, "target_field", ""))
	scholarshipField := strings.ToLower(getString(scholarship, "field_of_study", ""))

	switch {
	case scholarshipField == "all" || scholarshipField == "":
		score += 10
		matches = append(matches, "Field of study: Open to all fields")
	case studentField == scholarshipField:
		score += 10
		matches = append(matches, fmt.Sprintf("Field of study: Perfect match (%s)", studentField))
	case strings.Contains(scholarshipField, studentField) || strings.Contains(studentField, scholarshipField):
		score += 8
		matches = append(matches, "Field of study: Related field match")
	default:
		missing = append(missing, fmt.Sprintf("Field mismatch: scholarship for %s, student wants %s", scholarshipField, studentField))
	}

	return score, matches, missing
}

// estimateGPAFromProfile maps the coarse profile score onto a GPA estimate
// used only for requirement comparison.
func estimateGPAFromProfile(profileScore int) float64 {
	switch {
	case profileScore >= 9:
		return 3.8
	case profileScore >= 8:
		return 3.6
	case profileScore >= 7:
		return 3.4
	case profileScore >= 6:
		return 3.2
	case profileScore >= 5:
		return 3.0
	default:
		return 2.8
	}
}

func applicationPriority(score float64, missingCount int) string {
	switch {
	case score >= 80 && missingCount <= 1:
		return "HIGH - Strong match, apply immediately"
	case score >= 65 && missingCount <= 2:
		return "MEDIUM - Good match, prepare application"
	case score >= 45:
		return "LOW - Fair match, consider as backup"
	default:
		return "VERY LOW - Poor match, focus on improvement first"
	}
}

// rankMatches sorts by score descending; ties keep input order.
func rankMatches(matched []models.MatchedScholarship) {
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
}

func buildMatchingSummary(matched []models.MatchedScholarship) string {
	if len(matched) == 0 {
		return "No suitable scholarships found. Consider broadening search criteria or improving profile."
	}

	var excellent, good, fair int
	var totalScore float64
	for _, m := range matched {
		totalScore += m.MatchScore
		switch m.MatchLevel {
		case models.MatchExcellent:
			excellent++
		case models.MatchGood:
			good++
		case models.MatchFair:
			fair++
		}
	}

	parts := []string{fmt.Sprintf("Found %d scholarship matches for your profile.", len(matched))}
	if excellent > 0 {
		parts = append(parts, fmt.Sprintf("%d excellent matches - these should be your top priority.", excellent))
	}
	if good > 0 {
		parts = append(parts, fmt.Sprintf("%d good matches - strong candidates for application.", good))
	}
	if fair > 0 {
		parts = append(parts, fmt.Sprintf("%d fair matches - consider as backup options.", fair))
	}

	avgScore := totalScore / float64(len(matched))
	switch {
	case avgScore >= 70:
		parts = append(parts, "Your profile is competitive for most scholarships.")
	case avgScore >= 50:
		parts = append(parts, "Your profile shows good potential with some areas for improvement.")
	default:
		parts = append(parts, "Focus on strengthening your profile before applying.")
	}

	return strings.Join(parts, " ")
}

// ==========================
// Loose-map accessors
// ==========================

func getString(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func getOptionalString(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func getStringSlice(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func getInt(m map[string]interface{}, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// trimFloat renders a float without trailing zeros ("3.5", "90").
func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
