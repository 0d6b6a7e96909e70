// internal/workers/counseling/classify-student/classifier.go
package classifystudent

import (
	"fmt"
	"regexp"
	"strings"

	"scholarship-workers/internal/extract"
	"scholarship-workers/internal/models"
)

var regionTable = extract.KeywordTable{
	{Tag: "vietnam", Keywords: []string{"vietnam", "vietnamese", "viet nam", "saigon", "hanoi", "hcmc"}},
	{Tag: "southeast_asia", Keywords: []string{"thailand", "singapore", "malaysia", "indonesia", "philippines"}},
	{Tag: "east_asia", Keywords: []string{"china", "japan", "korea", "taiwan", "hong kong"}},
	{Tag: "south_asia", Keywords: []string{"india", "pakistan", "bangladesh", "sri lanka"}},
	{Tag: "middle_east", Keywords: []string{"saudi", "uae", "qatar", "iran", "turkey"}},
	{Tag: "europe", Keywords: []string{"germany", "france", "uk", "italy", "spain", "netherlands"}},
	{Tag: "north_america", Keywords: []string{"usa", "canada", "america", "united states"}},
	{Tag: "australia", Keywords: []string{"australia", "new zealand"}},
}

var religionTable = extract.KeywordTable{
	{Tag: "christian", Keywords: []string{"christian", "catholic", "protestant"}},
	{Tag: "muslim", Keywords: []string{"muslim", "islam", "islamic"}},
	{Tag: "buddhist", Keywords: []string{"buddhist", "buddhism"}},
	{Tag: "hindu", Keywords: []string{"hindu", "hinduism"}},
	{Tag: "jewish", Keywords: []string{"jewish", "judaism"}},
}

var achievementTable = extract.KeywordTable{
	{Tag: "Honors", Keywords: []string{"honor", "distinction", "dean's list", "magna cum laude"}},
	{Tag: "Awards", Keywords: []string{"award", "prize", "medal", "competition"}},
	{Tag: "Research", Keywords: []string{"research", "publication", "thesis"}},
	{Tag: "Leadership", Keywords: []string{"president", "leader", "captain", "head"}},
}

var activityTable = extract.KeywordTable{
	{Tag: "Volunteer", Keywords: []string{"volunteer", "community service", "charity"}},
	{Tag: "Sports", Keywords: []string{"sport", "football", "basketball", "swimming"}},
	{Tag: "Arts", Keywords: []string{"music", "art", "drama", "dance"}},
	{Tag: "Leadership", Keywords: []string{"club", "society", "president", "organizer"}},
	{Tag: "Academic Clubs", Keywords: []string{"debate", "science club", "math olympiad"}},
}

var gpaRe = regexp.MustCompile(`gpa\s*:?\s*(\d+\.?\d*)`)

var certPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"IELTS", regexp.MustCompile(`ielts\s*:?\s*(\d+\.?\d*)`)},
	{"TOEFL", regexp.MustCompile(`toefl\s*:?\s*(\d+)`)},
	{"SAT", regexp.MustCompile(`sat\s*:?\s*(\d+)`)},
	{"GRE", regexp.MustCompile(`gre\s*:?\s*(\d+)`)},
	{"GMAT", regexp.MustCompile(`gmat\s*:?\s*(\d+)`)},
}

// classifyStudent maps the six free-text profile fields onto the normalized
// ClassifiedStudent record.
func classifyStudent(profile *models.StudentProfile) models.ClassifiedStudent {
	return models.ClassifiedStudent{
		Region:              extractRegion(profile.PersonalInfo),
		AgeGroup:            extractAgeGroup(profile.PersonalInfo),
		Gender:              extractGender(profile.PersonalInfo),
		Religion:            extractReligion(profile.PersonalInfo),
		AcademicLevel:       extractAcademicLevel(profile.AcademicBackground),
		TargetField:         profile.TargetField,
		TargetLocation:      profile.TargetLocation,
		AcademicStrengths:   extractAcademicStrengths(profile.AcademicBackground),
		CertificatesList:    extractCertificates(profile.Certificates),
		ExtracurricularList: extractExtracurricular(profile.Extracurricular),
		ProfileScore:        calculateProfileScore(profile.AcademicBackground, profile.Certificates, profile.Extracurricular),
	}
}

func extractRegion(personalInfo string) string {
	if tag, ok := regionTable.Match(personalInfo); ok {
		return tag
	}
	return "other"
}

func extractAgeGroup(personalInfo string) string {
	age, ok := extract.Age(personalInfo)
	if !ok {
		// Common student age.
		return "18-22"
	}

	switch {
	case age <= 18:
		return "under_18"
	case age <= 22:
		return "18-22"
	case age <= 25:
		return "23-25"
	case age <= 30:
		return "26-30"
	default:
		return "over_30"
	}
}

func extractGender(personalInfo string) *string {
	// Female keywords first: "female" contains "male" and Vietnamese "nam"
	// appears inside "vietnam".
	if extract.ContainsAny(personalInfo, []string{"female", "nữ", "girl", "woman"}) {
		g := "female"
		return &g
	}
	if extract.ContainsAny(personalInfo, []string{"male", "nam", "boy", "man"}) {
		g := "male"
		return &g
	}
	return nil
}

func extractReligion(personalInfo string) *string {
	if tag, ok := religionTable.Match(personalInfo); ok {
		return &tag
	}
	return nil
}

func extractAcademicLevel(academicBackground string) string {
	switch {
	case extract.ContainsAny(academicBackground, []string{"high school", "secondary", "thpt", "grade 12"}):
		return "high_school"
	case extract.ContainsAny(academicBackground, []string{"bachelor", "undergraduate", "đại học"}):
		return "undergraduate"
	case extract.ContainsAny(academicBackground, []string{"master", "graduate", "thạc sĩ"}):
		return "graduate"
	case extract.ContainsAny(academicBackground, []string{"phd", "doctorate", "tiến sĩ"}):
		return "doctorate"
	}
	return "undergraduate"
}

func extractAcademicStrengths(academicBackground string) []string {
	var strengths []string

	if gpa, ok := extract.Number(academicBackground, gpaRe); ok {
		if gpa >= 3.5 {
			strengths = append(strengths, fmt.Sprintf("High GPA: %s", trimFloat(gpa)))
		} else {
			strengths = append(strengths, fmt.Sprintf("GPA: %s", trimFloat(gpa)))
		}
	}

	strengths = append(strengths, achievementTable.MatchAll(academicBackground)...)

	if len(strengths) == 0 {
		return []string{models.SentinelStandardPerformance}
	}
	return strengths
}

func extractCertificates(certificates string) []string {
	var certList []string
	lower := strings.ToLower(certificates)

	for _, cert := range certPatterns {
		if score, ok := extract.Number(certificates, cert.re); ok {
			certList = append(certList, fmt.Sprintf("%s: %s", cert.name, trimFloat(score)))
		} else if strings.Contains(lower, strings.ToLower(cert.name)) {
			certList = append(certList, cert.name)
		}
	}

	if len(certList) == 0 {
		return []string{models.SentinelNoIntlCertificates}
	}
	return certList
}

func extractExtracurricular(extracurricular string) []string {
	if activities := activityTable.MatchAll(extracurricular); len(activities) > 0 {
		return activities
	}
	return []string{models.SentinelLimitedExtracurricular}
}

// calculateProfileScore is the coarse profile-strength heuristic: base 5,
// GPA bands, certificate presence, extracurricular depth, clamped to [1,10].
func calculateProfileScore(academic, certificates, extracurricular string) int {
	score := 5

	if gpa, ok := extract.Number(academic, gpaRe); ok {
		switch {
		case gpa >= 3.8:
			score += 3
		case gpa >= 3.5:
			score += 2
		case gpa >= 3.0:
			score += 1
		}
	}

	if extract.ContainsAny(certificates, []string{"ielts", "toefl", "sat", "gre"}) {
		score += 2
	} else if strings.Contains(strings.ToLower(certificates), "certificate") {
		score += 1
	}

	if len(strings.TrimSpace(extracurricular)) > 50 {
		score++
	}

	if score > 10 {
		score = 10
	}
	if score < 1 {
		score = 1
	}
	return score
}

func buildClassificationNotes(student *models.ClassifiedStudent) string {
	var notes []string

	switch {
	case student.ProfileScore >= 8:
		notes = append(notes, "Strong candidate profile with high academic achievements.")
	case student.ProfileScore >= 6:
		notes = append(notes, "Good candidate profile with solid background.")
	default:
		notes = append(notes, "Developing candidate profile - focus on strengthening weak areas.")
	}

	if student.Gender == nil {
		notes = append(notes, "Gender not specified - will match with gender-neutral scholarships.")
	}
	if student.Religion == nil {
		notes = append(notes, "Religion not specified - will match with non-religious scholarships.")
	}

	if len(student.CertificatesList) == 1 && strings.Contains(student.CertificatesList[0], "No international") {
		notes = append(notes, "Consider obtaining international certificates to improve scholarship eligibility.")
	}

	return strings.Join(notes, " ")
}

// trimFloat renders a float without trailing zeros ("3.5", "90").
func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
