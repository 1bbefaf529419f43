package matching

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonTokenPattern strips everything outside the Hebrew Unicode block and
// plain alphanumerics before tokenization.
var nonTokenPattern = regexp.MustCompile(`[^\x{0590}-\x{05FF}a-zA-Z0-9\s]+`)

// NormalizeText lowercases, strips non-Hebrew/non-alphanumeric characters and
// collapses whitespace. Shared by the lexical scorer, keyword extraction and
// the response cache key.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = nonTokenPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(NormalizeText(text)) {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// LexicalSimilarity is the Jaccard similarity between the normalized token
// sets of two texts. Either side empty yields 0.
func LexicalSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
