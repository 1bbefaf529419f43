package respond

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"transit-agent/config"
	"transit-agent/matching"
)

// Result is the outcome of validating one generated response.
type Result struct {
	IsValid bool
	Score   int
	Issues  []string
}

// LineChecker is the authoritative registry of valid line identifiers.
type LineChecker interface {
	IsValidLine(n int) bool
}

const (
	greetingToken = "שלום"
	closingToken  = "בברכה"
)

// domainKeywords are transit terms considered key when they appear in the
// inquiry; the response is expected to echo them.
var domainKeywords = []string{
	"אוטובוס", "תחנה", "מסלול", "נהג", "תדירות", "איחור",
	"צפיפות", "רב קו", "כרטיס", "נגישות", "מזגן",
}

// Validator is the acceptance gate for generated responses. Each check
// deducts from a 100-point score; two of them (foreign-script replies and
// fabricated line numbers) force rejection regardless of the score.
type Validator struct {
	cfg      *config.Config
	registry LineChecker
}

func NewValidator(cfg *config.Config, registry LineChecker) *Validator {
	return &Validator{cfg: cfg, registry: registry}
}

// Validate scores the response against the original inquiry. Identical input
// always yields an identical result.
func (v *Validator) Validate(response, inquiry string) Result {
	score := 100
	forced := false
	var issues []string

	minLength := v.cfg.MinResponseLength
	if minLength <= 0 {
		minLength = 100
	}
	if utf8.RuneCountInString(response) < minLength {
		score -= 20
		issues = append(issues, fmt.Sprintf("response shorter than %d characters", minLength))
	}

	ratioMin := v.cfg.HebrewRatioMinimum
	if ratioMin <= 0 {
		ratioMin = 0.7
	}
	if hebrewRatio(response) < ratioMin {
		score -= 30
		forced = true
		issues = append(issues, "response is not predominantly Hebrew")
	}

	if missing, total := v.missingKeyTerms(response, inquiry); total > 0 && missing*2 > total {
		score -= 25
		issues = append(issues, fmt.Sprintf("response covers only %d/%d key terms from the inquiry", total-missing, total))
	}

	for _, n := range matching.ExtractLineMentions(response) {
		if !v.registry.IsValidLine(n) {
			score -= 15
			forced = true
			issues = append(issues, fmt.Sprintf("mentions unknown line %d", n))
		}
	}

	if !v.hasRequiredStructure(response) {
		score -= 10
		issues = append(issues, "missing greeting, signature or body sentences")
	}

	if score < 0 {
		score = 0
	}
	return Result{
		IsValid: !forced && score >= 60,
		Score:   score,
		Issues:  issues,
	}
}

// missingKeyTerms extracts the inquiry's key terms (line numbers, known
// locations, domain keywords present in the inquiry) and counts how many the
// response fails to literally contain.
func (v *Validator) missingKeyTerms(response, inquiry string) (missing, total int) {
	signals := matching.ExtractSignals(inquiry)

	var terms []string
	for _, n := range signals.LineNumbers {
		terms = append(terms, strconv.Itoa(n))
	}
	terms = append(terms, signals.Locations...)
	for _, kw := range domainKeywords {
		if strings.Contains(inquiry, kw) {
			terms = append(terms, kw)
		}
	}

	for _, term := range terms {
		if !strings.Contains(response, term) {
			missing++
		}
	}
	return missing, len(terms)
}

func (v *Validator) hasRequiredStructure(response string) bool {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, greetingToken) {
		return false
	}
	if !strings.Contains(trimmed, closingToken) {
		return false
	}
	sentences := 0
	for _, s := range strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > 10 {
			sentences++
		}
	}
	return sentences >= 2
}

// hebrewRatio is the fraction of the response's characters that are in the
// Hebrew Unicode block.
func hebrewRatio(text string) float64 {
	total := 0
	hebrew := 0
	for _, r := range text {
		total++
		if unicode.Is(unicode.Hebrew, r) {
			hebrew++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hebrew) / float64(total)
}
