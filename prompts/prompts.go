package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

// Embedded prompt files

//go:embed system.txt
var system string

//go:embed conservative_system.txt
var conservativeSystem string

func System() string { return system }

// ConservativeSystem is the retry variant used after a generated response
// fails validation: it forbids any fact not literally present in the context.
func ConservativeSystem() string { return conservativeSystem }

// BuildUserPrompt assembles the generation input: the citizen's inquiry, the
// best historical response as reference context, and recent session turns.
func BuildUserPrompt(inquiry, candidateResponse string, recentInquiries []string) string {
	var b strings.Builder
	if candidateResponse != "" {
		b.WriteString("תשובה לפנייה דומה מהעבר, לשימוש כבסיס:\n")
		b.WriteString(candidateResponse)
		b.WriteString("\n\n")
	}
	if len(recentInquiries) > 0 {
		b.WriteString("פניות קודמות באותה שיחה:\n")
		for _, q := range recentInquiries {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}
	b.WriteString("הפנייה הנוכחית:\n")
	b.WriteString(inquiry)
	return b.String()
}

// FallbackResponse is returned when the generation backend is unreachable and
// no historical answer fits.
func FallbackResponse() string {
	return "שלום, תודה על פנייתך למוקד התחבורה הציבורית. פנייתך התקבלה והועברה לטיפול הגורמים המקצועיים הרלוונטיים. תשובה מסודרת תישלח אליך בהקדם האפשרי. אנו מתנצלים על העיכוב במענה. בברכה, שירות הלקוחות"
}
