package respond

import (
	"testing"

	"transit-agent/config"

	"github.com/stretchr/testify/assert"
)

type stubRegistry struct {
	valid map[int]bool
}

func (s *stubRegistry) IsValidLine(n int) bool { return s.valid[n] }

func validatorUnderTest() *Validator {
	cfg := &config.Config{MinResponseLength: 100, HebrewRatioMinimum: 0.7}
	return NewValidator(cfg, &stubRegistry{valid: map[int]bool{30: true, 408: true}})
}

const goodResponse = "שלום וברכה, פנייתך בנושא קו 30 התקבלה במערכת ונבדקה מול מפעיל הקו. " +
	"הנושא הועבר לטיפול הגורמים המקצועיים ונעדכן אותך בהקדם האפשרי. בברכה, שירות הלקוחות"

func TestValidateAcceptsWellFormedResponse(t *testing.T) {
	v := validatorUnderTest()
	result := v.Validate(goodResponse, "קו 30 מאחר כל בוקר")

	assert.True(t, result.IsValid)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Issues)
}

func TestValidateIsDeterministic(t *testing.T) {
	v := validatorUnderTest()
	first := v.Validate(goodResponse, "קו 30 מאחר כל בוקר")
	second := v.Validate(goodResponse, "קו 30 מאחר כל בוקר")
	assert.Equal(t, first, second)
}

func TestValidateHallucinatedLineForcesRejection(t *testing.T) {
	v := validatorUnderTest()
	// Score stays high but a fabricated line identifier forces rejection.
	response := "שלום וברכה, פנייתך בנושא קו 999 התקבלה במערכת ונבדקה מול מפעיל הקו. " +
		"הנושא הועבר לטיפול הגורמים המקצועיים ונעדכן אותך בהקדם האפשרי. בברכה, שירות הלקוחות"
	result := v.Validate(response, "מתי יגיע האוטובוס")

	assert.False(t, result.IsValid)
	assert.GreaterOrEqual(t, result.Score, 60)
	assert.Contains(t, result.Issues, "mentions unknown line 999")
}

func TestValidateForeignScriptForcesRejection(t *testing.T) {
	v := validatorUnderTest()
	response := "Hello, thank you for contacting us about line 30. We have forwarded your " +
		"request to the operator and will update you as soon as possible. Best regards, customer service."
	result := v.Validate(response, "קו 30 מאחר")

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Issues, "response is not predominantly Hebrew")
}

func TestValidateShortResponseLosesPoints(t *testing.T) {
	v := validatorUnderTest()
	result := v.Validate("שלום, הפנייה התקבלה. בברכה", "קו 30 מאחר")

	assert.Less(t, result.Score, 100)
	found := false
	for _, issue := range result.Issues {
		if issue == "response shorter than 100 characters" {
			found = true
		}
	}
	assert.True(t, found, "expected a length issue, got %v", result.Issues)
}

func TestValidateMissingKeyTermsLosesPoints(t *testing.T) {
	v := validatorUnderTest()
	// Long, well-structured Hebrew answer that never echoes the inquiry's line
	// number or location.
	response := "שלום וברכה, פנייתך התקבלה במערכת שירות הלקוחות ונבדקה ביסודיות מול המפעיל. " +
		"הנושא הועבר לטיפול הגורמים המקצועיים ונעדכן אותך בהקדם האפשרי. בברכה, שירות הלקוחות"
	result := v.Validate(response, "קו 408 לא עצר בתחנה בירושלים")

	assert.Equal(t, 75, result.Score)
	assert.True(t, result.IsValid)
}

func TestValidateMissingStructureLosesPoints(t *testing.T) {
	v := validatorUnderTest()
	// No greeting prefix and no signature.
	response := "פנייתך בנושא קו 30 התקבלה במערכת ונבדקה מול מפעיל הקו באופן מסודר. " +
		"הנושא הועבר לטיפול הגורמים המקצועיים ונעדכן אותך בהקדם האפשרי מאוד."
	result := v.Validate(response, "קו 30 מאחר כל בוקר")

	assert.Equal(t, 90, result.Score)
	assert.True(t, result.IsValid)
	assert.Contains(t, result.Issues, "missing greeting, signature or body sentences")
}

func TestHebrewRatio(t *testing.T) {
	assert.Equal(t, 0.0, hebrewRatio(""))
	assert.Equal(t, 1.0, hebrewRatio("שלום"))
	assert.Less(t, hebrewRatio("hello שלום"), 0.5)
}
