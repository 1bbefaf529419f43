package matching

import (
	"regexp"
	"strconv"
)

// Hebrew tokens that introduce a line number in inquiry text.
const (
	lineWord  = "קו"
	linesWord = "קווים"
)

var (
	hebrewLinePattern  = regexp.MustCompile(lineWord + `\s*(\d{1,3})\b`)
	englishLinePattern = regexp.MustCompile(`(?i)\bline\s*(\d{1,3})\b`)
	bareNumberPattern  = regexp.MustCompile(`\b(\d{2,3})\b`)
)

// extractionPatterns deliberately over-collect: any standalone 2-3 digit
// number is a line candidate. Precision is restored by MatchesLine's boundary
// rule when candidates are compared against records.
var extractionPatterns = []*regexp.Regexp{hebrewLinePattern, englishLinePattern, bareNumberPattern}

// ExtractLineNumbers collects candidate line numbers from free text, keeping
// values in [1, 999] and deduplicating in first-seen order.
func ExtractLineNumbers(text string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, re := range extractionPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > 999 {
				continue
			}
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// ExtractLineMentions collects explicit "line N" mentions (Hebrew or English
// prefix token only, no bare numbers). Generated replies are checked against
// the line registry through this: a mention the registry does not know is a
// fabricated fact.
func ExtractLineMentions(text string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, re := range []*regexp.Regexp{hebrewLinePattern, englishLinePattern} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > 999 {
				continue
			}
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// MatchesLine reports whether line number n is genuinely present in text.
// A digit substring of a larger number never matches: target 30 must not
// match inside "630" or "1305". Three rules, accepted if any succeeds:
//  1. n surrounded by word boundaries anywhere in the text
//  2. the line prefix token followed by whitespace and n, boundary-terminated
//  3. the plural lines token followed by non-digit filler then n, which
//     covers enumerations like "קווים 30, 40"
func MatchesLine(text string, n int) bool {
	num := strconv.Itoa(n)
	patterns := []string{
		`\b` + num + `\b`,
		lineWord + `\s+` + num + `\b`,
		linesWord + `\s+\D*` + num + `\b`,
	}
	for _, p := range patterns {
		if regexp.MustCompile(p).MatchString(text) {
			return true
		}
	}
	return false
}

// sharedLineCount counts how many of the query's line numbers are genuinely
// present in the record, preferring the record's derived line set over a
// text scan.
func sharedLineCount(queryLines []int, recordLines []int, recordText string) int {
	recordSet := make(map[int]bool, len(recordLines))
	for _, n := range recordLines {
		recordSet[n] = true
	}
	shared := 0
	for _, n := range queryLines {
		if recordSet[n] || MatchesLine(recordText, n) {
			shared++
		}
	}
	return shared
}
