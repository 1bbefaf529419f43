package matching

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Signals are the structured entities extracted from one inquiry. They are
// request-scoped: created per inquiry, discarded after ranking.
type Signals struct {
	LineNumbers []int
	Locations   []string
	ProblemType string
	Keywords    []string
}

const maxKeywords = 5

// knownLocations is the place-name gazetteer. Membership is a plain substring
// test; fuzzy matching caused more harm than good on short Hebrew inquiries.
var knownLocations = []string{
	"תל אביב",
	"ירושלים",
	"חיפה",
	"באר שבע",
	"ראשון לציון",
	"פתח תקווה",
	"אשדוד",
	"נתניה",
	"בני ברק",
	"רמת גן",
	"חולון",
	"רחובות",
	"אשקלון",
	"בת ים",
	"הרצליה",
	"כפר סבא",
	"מודיעין",
	"רעננה",
	"גבעתיים",
	"קרית גת",
	"התחנה המרכזית",
}

// problemRules classify inquiries into coarse categories. Order matters:
// the first rule whose keyword appears anywhere in the text wins.
var problemRules = []struct {
	label    string
	keywords []string
}{
	{"delay", []string{"איחור", "איחורים", "מאחר", "לא הגיע", "לא מגיע", "לא עצר", "המתנה ארוכה"}},
	{"route_change", []string{"שינוי מסלול", "מסלול", "תוואי", "הסטת"}},
	{"overcrowding", []string{"צפיפות", "צפוף", "עמוס", "דוחק", "אין מקום"}},
	{"driver_conduct", []string{"נהג", "נהגת", "נהיגה פראית", "יחס"}},
	{"station", []string{"תחנה", "סככה", "הוספת תחנה", "עמדת המתנה"}},
	{"frequency", []string{"תדירות", "תגבור", "הגברת נסיעות"}},
	{"accessibility", []string{"נגישות", "נגיש", "רמפה", "כסא גלגלים"}},
	{"fare", []string{"רב קו", "תעריף", "כרטיס", "תשלום"}},
}

// leadingPhrases catch categories expressed as the opening of the inquiry
// ("בקשה ל...", "תלונה על...") when no keyword rule matched. Only the first
// ~50 characters are considered.
var leadingPhrases = []struct {
	prefix string
	label  string
}{
	{"בקשה לשינוי", "route_change"},
	{"בקשה להוספת", "station"},
	{"תלונה על נהג", "driver_conduct"},
	{"תלונה", "complaint"},
	{"בקשה", "request"},
}

const leadingPhraseWindow = 50

var stopWords = map[string]bool{
	"של": true, "את": true, "על": true, "עם": true, "אני": true,
	"לא": true, "זה": true, "יש": true, "מה": true, "האם": true,
	"אם": true, "כל": true, "גם": true, "או": true, "אבל": true,
	"כי": true, "מאוד": true, "רק": true, "עוד": true, "היה": true,
	"הוא": true, "היא": true, "אנחנו": true, "שלי": true, "אבקש": true,
	"the": true, "and": true, "for": true, "bus": true, "line": true,
}

// ExtractSignals parses a raw inquiry into structured signals.
func ExtractSignals(text string) Signals {
	sig := Signals{
		LineNumbers: ExtractLineNumbers(text),
		Locations:   extractLocations(text),
		ProblemType: classifyProblem(text),
	}
	sig.Keywords = extractKeywords(text, sig)
	return sig
}

func extractLocations(text string) []string {
	var out []string
	for _, place := range knownLocations {
		if strings.Contains(text, place) {
			out = append(out, place)
		}
	}
	return out
}

func classifyProblem(text string) string {
	for _, rule := range problemRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.label
			}
		}
	}

	// Second pass: leading-phrase categories in the opening of the inquiry.
	runes := []rune(text)
	window := text
	if len(runes) > leadingPhraseWindow {
		window = string(runes[:leadingPhraseWindow])
	}
	for _, lp := range leadingPhrases {
		if strings.Contains(window, lp.prefix) {
			return lp.label
		}
	}
	return ""
}

func extractKeywords(text string, sig Signals) []string {
	lineStrings := make(map[string]bool, len(sig.LineNumbers))
	for _, n := range sig.LineNumbers {
		lineStrings[strconv.Itoa(n)] = true
	}
	locationTokens := make(map[string]bool)
	for _, loc := range sig.Locations {
		for _, tok := range strings.Fields(loc) {
			locationTokens[tok] = true
		}
	}

	var keywords []string
	for _, tok := range strings.Fields(NormalizeText(text)) {
		if len(keywords) >= maxKeywords {
			break
		}
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if stopWords[tok] || lineStrings[tok] || locationTokens[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}
