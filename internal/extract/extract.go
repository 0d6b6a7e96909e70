// internal/extract/extract.go

// Package extract holds the text-extraction primitives shared by the parsing,
// classification and financial workers. Everything operates on lowercased
// substring containment or on ordered regexp lists so that, for a given input,
// the first matching rule always wins and results are deterministic.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// KeywordEntry maps a canonical tag to the keywords that imply it.
type KeywordEntry struct {
	Tag      string
	Keywords []string
}

// KeywordTable is an ordered first-match-wins lookup table.
type KeywordTable []KeywordEntry

// Match returns the tag of the first entry with any keyword contained in text.
func (t KeywordTable) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range t {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Tag, true
			}
		}
	}
	return "", false
}

// MatchAll returns the tags of every entry with a keyword in text, preserving
// table order.
func (t KeywordTable) MatchAll(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, entry := range t {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, entry.Tag)
				break
			}
		}
	}
	return tags
}

// ContainsAny reports whether text contains any of the keywords,
// case-insensitively.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Number extracts the first capture group of re from text as a float.
// Thousands separators are stripped before parsing.
func Number(text string, re *regexp.Regexp) (float64, bool) {
	m := re.FindStringSubmatch(strings.ToLower(text))
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NumberInRange tries each pattern in order against text and returns the
// first extracted number inside [lo, hi]. Every occurrence of a pattern is
// considered before moving to the next pattern.
func NumberInRange(text string, patterns []*regexp.Regexp, lo, hi float64) (float64, bool) {
	lower := strings.ToLower(text)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) < 2 {
				continue
			}
			n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if n >= lo && n <= hi {
				return n, true
			}
		}
	}
	return 0, false
}

// CertScore extracts a test score from a certificate string of the form
// "IELTS: 7.0" (colon optional, case-insensitive).
func CertScore(text, certName string) (float64, bool) {
	re := regexp.MustCompile(certName + `\s*:?\s*(\d+\.?\d*)`)
	return Number(text, re)
}

var percentRe = regexp.MustCompile(`(\d+)%`)

// Percentage extracts the first "NN%" figure from text.
func Percentage(text string) (float64, bool) {
	return Number(text, percentRe)
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})\s*years?\s*old`),
	regexp.MustCompile(`age\s*:?\s*(\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})\s*tuổi`),
}

// Age extracts an age in years from free text, understanding both English
// phrasing and the Vietnamese "N tuổi" form.
func Age(text string) (int, bool) {
	for _, re := range agePatterns {
		if n, ok := Number(text, re); ok {
			return int(n), true
		}
	}
	return 0, false
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deadline:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)apply by:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)due date:\s*([^\n]+)`),
	regexp.MustCompile(`(\w+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(\d{1,2}-\d{1,2}-\d{4})`),
}

// Date extracts a deadline-like date from text. Labeled fields take
// precedence over bare date shapes.
func Date(text string) (string, bool) {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName folds case and collapses runs of whitespace, used for
// duplicate detection.
func NormalizeName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}
