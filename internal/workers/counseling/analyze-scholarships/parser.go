// internal/workers/counseling/analyze-scholarships/parser.go
package analyzescholarships

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scholarship-workers/internal/extract"
	"scholarship-workers/internal/models"

	"github.com/google/uuid"
)

// Section delimiters are applied successively: each pattern splits the output
// of the previous one, so nested structures (numbered lists containing
// bullets, labelled blocks inside list items) come apart correctly.
var sectionDelimiters = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\n\n\d+\.`),
	regexp.MustCompile(`(?i)\n\n[A-Z][a-zA-Z\s]+Scholarship`),
	regexp.MustCompile(`(?i)\n\n•`),
	regexp.MustCompile(`(?i)\n\n-`),
	regexp.MustCompile(`(?i)Scholarship Name:`),
	regexp.MustCompile(`(?i)Award:`),
	regexp.MustCompile(`(?i)Eligibility:`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-zA-Z\s]+Scholarship)`),
	regexp.MustCompile(`Scholarship Name:\s*([^\n]+)`),
	regexp.MustCompile(`Name:\s*([^\n]+)`),
	regexp.MustCompile(`(?m)^([A-Z][a-zA-Z\s]+(?:Award|Grant|Fellowship))`),
}

var universityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`University of [A-Z][a-zA-Z\s]+`),
	regexp.MustCompile(`[A-Z][a-zA-Z\s]+University`),
	regexp.MustCompile(`[A-Z][a-zA-Z\s]+College`),
	regexp.MustCompile(`[A-Z][a-zA-Z\s]+Institute`),
}

var regionTable = extract.KeywordTable{
	{Tag: "international", Keywords: []string{"international", "global", "worldwide", "any country"}},
	{Tag: "developing_countries", Keywords: []string{"developing countries", "emerging economies"}},
	{Tag: "asia", Keywords: []string{"asia", "asian"}},
	{Tag: "southeast_asia", Keywords: []string{"southeast asia", "asean"}},
	{Tag: "africa", Keywords: []string{"africa", "african"}},
	{Tag: "latin_america", Keywords: []string{"latin america", "south america"}},
	{Tag: "europe", Keywords: []string{"europe", "european"}},
}

var regionCountries = []string{"vietnam", "china", "india", "thailand", "indonesia", "malaysia", "philippines"}

var religionTable = extract.KeywordTable{
	{Tag: "christian", Keywords: []string{"christian", "catholic", "protestant"}},
	{Tag: "muslim", Keywords: []string{"muslim", "islamic"}},
	{Tag: "jewish", Keywords: []string{"jewish"}},
	{Tag: "buddhist", Keywords: []string{"buddhist"}},
	{Tag: "hindu", Keywords: []string{"hindu"}},
}

var fieldTable = extract.KeywordTable{
	{Tag: "engineering", Keywords: []string{"engineering", "computer science", "technology"}},
	{Tag: "business", Keywords: []string{"business", "mba", "management", "economics"}},
	{Tag: "medicine", Keywords: []string{"medicine", "medical", "healthcare", "nursing"}},
	{Tag: "science", Keywords: []string{"science", "physics", "chemistry", "biology"}},
	{Tag: "arts", Keywords: []string{"arts", "humanities", "literature", "history"}},
	{Tag: "law", Keywords: []string{"law", "legal"}},
	{Tag: "education", Keywords: []string{"education", "teaching"}},
}

var activityTable = extract.KeywordTable{
	{Tag: "Leadership", Keywords: []string{"leadership", "president", "captain", "head"}},
	{Tag: "Volunteer", Keywords: []string{"volunteer", "community service", "charity"}},
	{Tag: "Research", Keywords: []string{"research", "publication", "thesis"}},
	{Tag: "Sports", Keywords: []string{"sports", "athletics", "team"}},
	{Tag: "Arts", Keywords: []string{"arts", "music", "drama", "creative"}},
}

var gpaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`gpa\s*(?:of\s*)?(\d+\.?\d*)`),
	regexp.MustCompile(`grade point average\s*(?:of\s*)?(\d+\.?\d*)`),
	regexp.MustCompile(`minimum\s*gpa\s*(\d+\.?\d*)`),
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)%\s*(?:of\s*)?tuition`),
	regexp.MustCompile(`up to\s*\$(\d+,?\d*)`),
	regexp.MustCompile(`\$(\d+,?\d*)\s*per\s*year`),
}

// splitSections breaks a raw search result into candidate scholarship
// sections and drops anything at or below minLength as noise.
func splitSections(content string, minLength int) (sections []string, discarded int) {
	sections = []string{content}

	for _, delim := range sectionDelimiters {
		var next []string
		for _, section := range sections {
			for _, part := range delim.Split(section, -1) {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					next = append(next, trimmed)
				}
			}
		}
		sections = next
	}

	var kept []string
	for _, section := range sections {
		if len(section) > minLength {
			kept = append(kept, section)
		} else {
			discarded++
		}
	}
	return kept, discarded
}

// parseSection extracts one ScholarshipRecord from a section. A section
// without a recognizable scholarship name is not a record; ok is false.
func parseSection(section, targetUniversity, targetField string) (models.ScholarshipRecord, bool) {
	name := extractName(section)
	if name == "" {
		return models.ScholarshipRecord{}, false
	}

	gender := extractGender(section)
	religion := extractReligion(section)

	return models.ScholarshipRecord{
		ID:                      uuid.NewString(),
		Name:                    name,
		University:              extractUniversity(section, targetUniversity),
		TargetRegion:            extractRegion(section),
		TargetAgeGroup:          extractAgeGroup(section),
		TargetGender:            gender,
		TargetReligion:          religion,
		FieldOfStudy:            extractField(section, targetField),
		AcademicRequirements:    extractAcademicRequirements(section),
		RequiredCertificates:    extractRequiredCertificates(section),
		RequiredExtracurricular: extractRequiredExtracurricular(section),
		ScholarshipAmount:       extractAmount(section),
		Deadline:                extractDeadline(section),
		AdditionalRequirements:  extractAdditionalRequirements(section),
	}, true
}

func extractName(section string) string {
	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(section); len(m) > 1 {
			name := strings.TrimSpace(m[1])
			if len(name) > 5 && strings.Contains(strings.ToLower(name), "scholarship") {
				return name
			}
		}
	}

	// Fallback: a short, keyword-bearing first line is treated as a title.
	firstLine := strings.TrimSpace(strings.SplitN(section, "\n", 2)[0])
	if len(firstLine) < 100 && extract.ContainsAny(firstLine, []string{"scholarship", "award", "grant"}) {
		return firstLine
	}

	return ""
}

func extractUniversity(section, targetUniversity string) string {
	if strings.Contains(strings.ToLower(section), strings.ToLower(targetUniversity)) {
		return targetUniversity
	}

	for _, re := range universityPatterns {
		if m := re.FindString(section); m != "" {
			return strings.TrimSpace(m)
		}
	}

	return targetUniversity
}

func extractRegion(section string) string {
	if tag, ok := regionTable.Match(section); ok {
		return tag
	}

	lower := strings.ToLower(section)
	var mentioned []string
	for _, country := range regionCountries {
		if strings.Contains(lower, country) {
			mentioned = append(mentioned, country)
		}
	}
	if len(mentioned) > 0 {
		return "specific_countries: " + strings.Join(mentioned, ", ")
	}

	return "all"
}

func extractAgeGroup(section string) string {
	switch {
	case extract.ContainsAny(section, []string{"undergraduate", "bachelor", "first year"}):
		return "18-22"
	case extract.ContainsAny(section, []string{"graduate", "master", "postgraduate"}):
		return "23-26"
	case extract.ContainsAny(section, []string{"phd", "doctorate", "doctoral"}):
		return "25-30"
	case extract.ContainsAny(section, []string{"high school", "secondary"}):
		return "under_18"
	}
	return "all"
}

func extractGender(section string) *string {
	// Female keywords first: "female" contains "male" as a substring.
	if extract.ContainsAny(section, []string{"women", "female", "girls"}) {
		g := "female"
		return &g
	}
	if extract.ContainsAny(section, []string{"men", "male", "boys"}) {
		g := "male"
		return &g
	}
	return nil
}

func extractReligion(section string) *string {
	if tag, ok := religionTable.Match(section); ok {
		return &tag
	}
	return nil
}

func extractField(section, targetField string) string {
	if strings.Contains(strings.ToLower(section), strings.ToLower(targetField)) {
		return targetField
	}
	if tag, ok := fieldTable.Match(section); ok {
		return tag
	}
	return "all"
}

func extractAcademicRequirements(section string) []string {
	var requirements []string

	for _, re := range gpaPatterns {
		if gpa, ok := extract.Number(section, re); ok {
			requirements = append(requirements, fmt.Sprintf("Minimum GPA: %s", trimFloat(gpa)))
		}
	}

	if extract.ContainsAny(section, []string{"honor", "distinction", "dean's list"}) {
		requirements = append(requirements, "Academic honors required")
	}
	if extract.ContainsAny(section, []string{"top 10%", "top ten percent"}) {
		requirements = append(requirements, "Top 10% academic standing")
	}

	if len(requirements) == 0 {
		return []string{models.SentinelStandardAcademic}
	}
	return requirements
}

var certRequirementPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"IELTS", regexp.MustCompile(`ielts\s*(?:score\s*)?(?:of\s*)?(\d+\.?\d*)`)},
	{"TOEFL", regexp.MustCompile(`toefl\s*(?:score\s*)?(?:of\s*)?(\d+)`)},
	{"SAT", regexp.MustCompile(`sat\s*(?:score\s*)?(?:of\s*)?(\d+)`)},
	{"GRE", regexp.MustCompile(`gre\s*(?:score\s*)?(?:of\s*)?(\d+)`)},
}

func extractRequiredCertificates(section string) []string {
	var certificates []string
	lower := strings.ToLower(section)

	for _, cert := range certRequirementPatterns {
		if score, ok := extract.Number(section, cert.re); ok {
			certificates = append(certificates, fmt.Sprintf("%s: minimum %s", cert.name, trimFloat(score)))
		} else if strings.Contains(lower, strings.ToLower(cert.name)) {
			certificates = append(certificates, cert.name+" required")
		}
	}

	if len(certificates) == 0 {
		return []string{models.SentinelNoCertificates}
	}
	return certificates
}

func extractRequiredExtracurricular(section string) []string {
	if activities := activityTable.MatchAll(section); len(activities) > 0 {
		return activities
	}
	return []string{models.SentinelNoExtracurricular}
}

func extractAmount(section string) string {
	lower := strings.ToLower(section)

	if extract.ContainsAny(section, []string{"full tuition", "full scholarship", "100%"}) {
		return "Full tuition coverage"
	}

	for _, re := range amountPatterns {
		if m := re.FindString(lower); m != "" {
			return "Amount: " + m
		}
	}

	if extract.ContainsAny(section, []string{"living allowance", "stipend", "monthly allowance"}) {
		return "Tuition + living allowance"
	}

	return models.SentinelAmountUnknown
}

func extractDeadline(section string) string {
	if date, ok := extract.Date(section); ok {
		return date
	}
	return models.SentinelDeadlineUnknown
}

func extractAdditionalRequirements(section string) []string {
	requirements := []string{}

	if strings.Contains(strings.ToLower(section), "essay") {
		requirements = append(requirements, "Essay required")
	}
	if extract.ContainsAny(section, []string{"interview"}) {
		requirements = append(requirements, "Interview required")
	}
	if extract.ContainsAny(section, []string{"recommendation", "reference letter"}) {
		requirements = append(requirements, "Recommendation letters required")
	}
	if extract.ContainsAny(section, []string{"financial need", "need-based"}) {
		requirements = append(requirements, "Financial need demonstration")
	}
	if extract.ContainsAny(section, []string{"work experience", "professional experience"}) {
		requirements = append(requirements, "Work experience preferred")
	}

	return requirements
}

// dedupeScholarships drops later records whose normalized name was already
// seen; the first occurrence wins.
func dedupeScholarships(scholarships []models.ScholarshipRecord) []models.ScholarshipRecord {
	seen := make(map[string]bool, len(scholarships))
	unique := make([]models.ScholarshipRecord, 0, len(scholarships))

	for _, s := range scholarships {
		key := extract.NormalizeName(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}

	return unique
}

func buildAnalysisSummary(scholarships []models.ScholarshipRecord, targetUniversity, targetField string) string {
	if len(scholarships) == 0 {
		return fmt.Sprintf("No scholarships found for %s at %s. Consider broadening search criteria.",
			targetField, targetUniversity)
	}

	parts := []string{fmt.Sprintf("Found %d scholarship opportunities for %s studies.", len(scholarships), targetField)}

	fullCoverage := 0
	genderSpecific := 0
	withCertificates := 0
	for _, s := range scholarships {
		if strings.Contains(strings.ToLower(s.ScholarshipAmount), "full") {
			fullCoverage++
		}
		if s.TargetGender != nil {
			genderSpecific++
		}
		if strings.Contains(strings.ToLower(strings.Join(s.RequiredCertificates, " ")), "required") {
			withCertificates++
		}
	}

	if fullCoverage > 0 {
		parts = append(parts, fmt.Sprintf("%d offer full tuition coverage.", fullCoverage))
	}
	if genderSpecific > 0 {
		parts = append(parts, fmt.Sprintf("%d are gender-specific scholarships.", genderSpecific))
	}
	if withCertificates > 0 {
		parts = append(parts, fmt.Sprintf("%d require specific certificates (IELTS/TOEFL/SAT/GRE).", withCertificates))
	}

	return strings.Join(parts, " ")
}

// trimFloat renders a float without trailing zeros ("3.5", "90").
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
