// internal/workers/counseling/calculate-financials/calculator.go
package calculatefinancials

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"scholarship-workers/internal/extract"
	"scholarship-workers/internal/models"
)

const (
	minPlausibleTuition = 5000
	maxPlausibleTuition = 100000

	defaultBaseTuition = 25000
	defaultLivingCost  = 12000
)

var tuitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tuition[:\s]*\$?([0-9,]+)(?:\s*per\s*year)?`),
	regexp.MustCompile(`annual\s*tuition[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`yearly\s*fee[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`cost\s*per\s*year[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`\$([0-9,]+)\s*per\s*year`),
	regexp.MustCompile(`\$([0-9,]+)\s*annually`),
}

var dollarAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([0-9,]+)\s*per\s*year`),
	regexp.MustCompile(`\$([0-9,]+)\s*annually`),
	regexp.MustCompile(`up to\s*\$([0-9,]+)`),
	regexp.MustCompile(`\$([0-9,]+)`),
}

var aidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`government\s*aid[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`federal\s*aid[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`grant[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`pell\s*grant[:\s]*\$?([0-9,]+)`),
}

var loanPatterns = []*regexp.Regexp{
	regexp.MustCompile(`student\s*loan[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`government\s*loan[:\s]*\$?([0-9,]+)`),
	regexp.MustCompile(`federal\s*loan[:\s]*\$?([0-9,]+)`),
}

type locationAmount struct {
	key    string
	amount float64
}

// Ordered tables; the first key contained in the location wins.
var baseTuitionTable = []locationAmount{
	{"usa", 35000},
	{"united states", 35000},
	{"canada", 25000},
	{"uk", 30000},
	{"united kingdom", 30000},
	{"australia", 28000},
	{"germany", 8000},
	{"netherlands", 12000},
	{"france", 10000},
	{"singapore", 20000},
	{"japan", 15000},
	{"south korea", 12000},
}

type fieldMultiplier struct {
	key        string
	multiplier float64
}

var fieldMultipliers = []fieldMultiplier{
	{"medicine", 1.5},
	{"medical", 1.5},
	{"law", 1.3},
	{"business", 1.2},
	{"mba", 1.4},
	{"engineering", 1.1},
	{"computer science", 1.1},
	{"arts", 0.9},
	{"humanities", 0.9},
	{"education", 0.8},
}

type levelDuration struct {
	key   string
	years int
}

var programDurations = []levelDuration{
	{"undergraduate", 4},
	{"bachelor", 4},
	{"graduate", 2},
	{"master", 2},
	{"mba", 2},
	{"doctorate", 4},
	{"phd", 4},
}

type governmentAid struct {
	key  string
	aid  float64
	loan float64
}

var governmentAidTable = []governmentAid{
	{"usa", 6000, 12000},
	{"united states", 6000, 12000},
	{"canada", 3000, 8000},
	{"uk", 0, 10000},
	{"australia", 0, 7000},
	{"germany", 500, 5000},
	{"france", 400, 4000},
	{"netherlands", 300, 6000},
}

// livingCostTable is checked longest key first so a city entry beats the
// country entry contained in the same location string.
var livingCostTable = []locationAmount{
	{"united states", 15000},
	{"netherlands", 11000},
	{"california", 18000},
	{"melbourne", 18000},
	{"amsterdam", 13000},
	{"singapore", 14000},
	{"australia", 18000},
	{"vancouver", 16000},
	{"new york", 20000},
	{"germany", 10000},
	{"toronto", 15000},
	{"canada", 12000},
	{"france", 9000},
	{"london", 15000},
	{"sydney", 20000},
	{"japan", 12000},
	{"paris", 12000},
	{"tokyo", 15000},
	{"usa", 15000},
	{"uk", 12000},
}

// cityAliases routes cities without their own living-cost entry to their
// country's entry instead of the global default.
var cityAliases = []struct {
	city    string
	country string
}{
	{"berlin", "germany"},
	{"munich", "germany"},
	{"frankfurt", "germany"},
	{"hamburg", "germany"},
	{"lyon", "france"},
	{"marseille", "france"},
	{"osaka", "japan"},
	{"kyoto", "japan"},
}

// calculateBreakdown builds the full cost projection for one matched
// scholarship. It never fails; every lookup has a default.
func calculateBreakdown(scholarship, student map[string]interface{}, searchResults []string) models.FinancialBreakdown {
	name := getString(scholarship, "scholarship_name", "Unknown Scholarship")
	university := getString(scholarship, "university", "Unknown University")
	field := getString(student, "target_field", "Unknown Field")
	location := getString(student, "target_location", "Unknown Location")

	annualTuition := resolveTuition(university, field, location, searchResults)
	duration := estimateProgramDuration(getString(student, "academic_level", "undergraduate"))
	totalTuition := annualTuition * float64(duration)

	scholarshipAnnual, scholarshipTotal := calculateScholarshipAmounts(
		getString(scholarship, "scholarship_amount", ""),
		annualTuition,
		duration,
	)

	aidAnnual, loanAnnual := resolveGovernmentAid(location, searchResults)

	netAnnual := math.Max(0, annualTuition-(scholarshipAnnual+aidAnnual+loanAnnual))
	totalNet := netAnnual * float64(duration)

	livingAnnual := estimateLivingCost(location)
	totalEstimated := totalNet + livingAnnual*float64(duration)

	return models.FinancialBreakdown{
		ScholarshipName:           name,
		University:                university,
		ProgramField:              field,
		AnnualTuition:             annualTuition,
		ProgramDurationYears:      duration,
		TotalTuition:              totalTuition,
		ScholarshipAmountAnnual:   scholarshipAnnual,
		ScholarshipTotal:          scholarshipTotal,
		GovernmentAidAnnual:       aidAnnual,
		GovernmentLoanAnnual:      loanAnnual,
		NetAnnualCost:             netAnnual,
		TotalNetCost:              totalNet,
		EstimatedLivingCostAnnual: livingAnnual,
		TotalEstimatedCost:        totalEstimated,
	}
}

// resolveTuition prefers evidence from the search snippets over the
// location-and-field estimate.
func resolveTuition(university, field, location string, searchResults []string) float64 {
	for _, result := range searchResults {
		if tuition := parseTuitionFromText(result, university); tuition > 0 {
			return tuition
		}
	}
	return estimateTuition(location, field)
}

// parseTuitionFromText extracts a tuition figure from a snippet, but only
// when the snippet actually mentions the university.
func parseTuitionFromText(text, university string) float64 {
	if !strings.Contains(strings.ToLower(text), strings.ToLower(university)) {
		return 0
	}
	if tuition, ok := extract.NumberInRange(text, tuitionPatterns, minPlausibleTuition, maxPlausibleTuition); ok {
		return tuition
	}
	return 0
}

func estimateTuition(location, field string) float64 {
	locationLower := strings.ToLower(location)
	fieldLower := strings.ToLower(field)

	tuition := float64(defaultBaseTuition)
	for _, entry := range baseTuitionTable {
		if strings.Contains(locationLower, entry.key) {
			tuition = entry.amount
			break
		}
	}

	for _, entry := range fieldMultipliers {
		if strings.Contains(fieldLower, entry.key) {
			tuition *= entry.multiplier
			break
		}
	}

	return math.Round(tuition*100) / 100
}

func estimateProgramDuration(academicLevel string) int {
	levelLower := strings.ToLower(academicLevel)
	for _, entry := range programDurations {
		if strings.Contains(levelLower, entry.key) {
			return entry.years
		}
	}
	return 4
}

// calculateScholarshipAmounts interprets the free-text amount descriptor.
// Dollar figures above the tuition itself are rejected as implausible; an
// unreadable descriptor defaults to half coverage.
func calculateScholarshipAmounts(amountText string, annualTuition float64, duration int) (float64, float64) {
	lower := strings.ToLower(amountText)

	if extract.ContainsAny(lower, []string{"full tuition", "full scholarship", "100%"}) {
		return annualTuition, annualTuition * float64(duration)
	}

	if pct, ok := extract.Percentage(lower); ok {
		annual := annualTuition * pct / 100
		return annual, annual * float64(duration)
	}

	for _, re := range dollarAmountPatterns {
		amount, ok := extract.Number(lower, re)
		if ok && amount <= annualTuition {
			return amount, amount * float64(duration)
		}
	}

	defaultAnnual := annualTuition * 0.5
	return defaultAnnual, defaultAnnual * float64(duration)
}

func resolveGovernmentAid(location string, searchResults []string) (float64, float64) {
	for _, result := range searchResults {
		aid, loan := parseGovernmentAidFromText(result)
		if aid > 0 || loan > 0 {
			return aid, loan
		}
	}
	return estimateGovernmentAid(location)
}

func parseGovernmentAidFromText(text string) (float64, float64) {
	var aid, loan float64
	for _, re := range aidPatterns {
		if amount, ok := extract.Number(text, re); ok {
			aid = math.Max(aid, amount)
		}
	}
	for _, re := range loanPatterns {
		if amount, ok := extract.Number(text, re); ok {
			loan = math.Max(loan, amount)
		}
	}
	return aid, loan
}

func estimateGovernmentAid(location string) (float64, float64) {
	locationLower := strings.ToLower(location)
	for _, entry := range governmentAidTable {
		if strings.Contains(locationLower, entry.key) {
			return entry.aid, entry.loan
		}
	}
	return 0, 0
}

// estimateLivingCost checks city and country entries longest key first, then
// routes alias cities to their country entry before giving up on the default.
func estimateLivingCost(location string) float64 {
	locationLower := strings.ToLower(location)

	for _, entry := range livingCostTable {
		if strings.Contains(locationLower, entry.key) {
			return entry.amount
		}
	}

	for _, alias := range cityAliases {
		if !strings.Contains(locationLower, alias.city) {
			continue
		}
		for _, entry := range livingCostTable {
			if entry.key == alias.country {
				return entry.amount
			}
		}
	}

	return defaultLivingCost
}

// rankBreakdowns sorts ascending by total net cost; ties keep input order.
func rankBreakdowns(breakdowns []models.FinancialBreakdown) {
	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].TotalNetCost < breakdowns[j].TotalNetCost
	})
}

func buildFinancialSummary(breakdowns []models.FinancialBreakdown) string {
	if len(breakdowns) == 0 {
		return "No financial information available for the scholarships."
	}

	var total float64
	minCost := breakdowns[0].TotalNetCost
	maxCost := breakdowns[0].TotalNetCost
	var fullyFunded, lowCost, mediumCost, highCost int

	for _, b := range breakdowns {
		total += b.TotalNetCost
		minCost = math.Min(minCost, b.TotalNetCost)
		maxCost = math.Max(maxCost, b.TotalNetCost)

		if b.TotalNetCost == 0 {
			fullyFunded++
		}
		switch {
		case b.TotalNetCost < 20000:
			lowCost++
		case b.TotalNetCost < 50000:
			mediumCost++
		default:
			highCost++
		}
	}

	parts := []string{
		fmt.Sprintf("Analyzed %d scholarship options.", len(breakdowns)),
		fmt.Sprintf("Net costs range from $%s to $%s for the complete program.", formatUSD(minCost), formatUSD(maxCost)),
		fmt.Sprintf("Average net cost: $%s.", formatUSD(total/float64(len(breakdowns)))),
	}

	if fullyFunded > 0 {
		parts = append(parts, fmt.Sprintf("%d scholarships offer full funding with no remaining costs.", fullyFunded))
	}
	if lowCost > 0 {
		parts = append(parts, fmt.Sprintf("%d options have low net costs (under $20,000).", lowCost))
	}
	if mediumCost > 0 {
		parts = append(parts, fmt.Sprintf("%d options have medium net costs ($20,000-$50,000).", mediumCost))
	}
	if highCost > 0 {
		parts = append(parts, fmt.Sprintf("%d options have high net costs (over $50,000).", highCost))
	}

	return strings.Join(parts, " ")
}

func buildFundingRecommendations(breakdowns []models.FinancialBreakdown, student map[string]interface{}) []string {
	if len(breakdowns) == 0 {
		return []string{"Unable to provide funding recommendations without financial data."}
	}

	var recommendations []string

	minCost := breakdowns[0].TotalNetCost
	var total float64
	for _, b := range breakdowns {
		minCost = math.Min(minCost, b.TotalNetCost)
		total += b.TotalNetCost
	}

	switch {
	case minCost == 0:
		recommendations = append(recommendations, "Prioritize fully-funded scholarships to minimize financial burden.")
	case minCost < 10000:
		recommendations = append(recommendations, "Focus on low-cost options that require minimal additional funding.")
	default:
		recommendations = append(recommendations, "Consider additional funding sources as all options require significant investment.")
	}

	if total/float64(len(breakdowns)) > 30000 {
		recommendations = append(recommendations,
			"Explore additional scholarships and grants to reduce costs.",
			"Consider part-time work or teaching assistantships while studying.",
			"Look into education loans with favorable terms.",
		)
	}

	location := strings.ToLower(getString(student, "target_location", ""))
	switch {
	case strings.Contains(location, "usa") || strings.Contains(location, "united states"):
		recommendations = append(recommendations, "Apply for FAFSA to access federal aid programs.")
	case strings.Contains(location, "canada"):
		recommendations = append(recommendations, "Investigate provincial student aid programs.")
	case strings.Contains(location, "uk"):
		recommendations = append(recommendations, "Consider UK student loan programs for international students.")
	}

	profileScore := getInt(student, "profile_score", 5)
	switch {
	case profileScore >= 8:
		recommendations = append(recommendations, "Your strong profile qualifies you for merit-based scholarships.")
	case profileScore < 6:
		recommendations = append(recommendations, "Focus on improving your profile to qualify for more scholarships.")
	}

	return recommendations
}

// formatUSD renders a rounded dollar figure with thousands separators.
func formatUSD(amount float64) string {
	digits := strconv.FormatInt(int64(math.Round(math.Abs(amount))), 10)

	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
	}
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

func getString(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
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
