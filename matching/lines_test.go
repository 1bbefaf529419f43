package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesLineBoundarySafety(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		want bool
	}{
		{"line_with_prefix_token", "קו 30 לא מגיע", 30, true},
		{"digit_substring_of_longer_number", "קו 630 מגיע", 30, false},
		{"line_in_longer_sentence", "הוספת תחנה בנסיעת קו 408", 408, true},
		{"plural_enumeration", "קווים 30, 40", 30, true},
		{"plural_enumeration_second_item", "קווים 30, 40", 40, true},
		{"substring_of_four_digit_number", "בקו 1305", 30, false},
		{"bare_number", "30", 30, true},
		{"bare_longer_number", "630", 30, false},
		{"line_with_operator_suffix", "קו 408 של חברת", 408, true},
		{"three_digit_substring", "4408", 408, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesLine(tt.text, tt.line)
			assert.Equal(t, tt.want, got, "MatchesLine(%q, %d)", tt.text, tt.line)
		})
	}
}

func TestExtractLineNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"hebrew_prefix", "קו 408 שינוי מסלול", []int{408}},
		{"english_prefix", "line 30 is always late", []int{30}},
		{"bare_two_digit", "מחכה 20 דקות ל30", []int{20, 30}},
		{"dedup_preserves_first_seen_order", "קו 30 וגם קו 40 וגם קו 30", []int{30, 40}},
		{"four_digit_number_ignored", "בקו 1305", nil},
		{"out_of_range_excluded", "line 0 and 1000", nil},
		{"no_numbers", "האוטובוס לא הגיע", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLineNumbers(tt.text))
		})
	}
}

func TestExtractLineMentionsIgnoresBareNumbers(t *testing.T) {
	// Bare numbers are fine in a reply (dates, durations); only explicit
	// "line N" claims are checked against the registry.
	mentions := ExtractLineMentions("שלום, קו 408 יוצא כל 20 דקות. בברכה")
	assert.Equal(t, []int{408}, mentions)
}
