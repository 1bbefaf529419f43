package corpus

import (
	"context"
	"time"
)

// FixtureStore serves a tiny hardcoded corpus. It exists so the system can be
// demoed without a database or corpus file, and is only wired in when
// ENABLE_FIXTURE_CORPUS is set: serving synthetic answers silently in
// production would be worse than failing.
type FixtureStore struct {
	records []Record
}

func NewFixtureStore() *FixtureStore {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return &FixtureStore{records: []Record{
		{
			ID:           "fixture-1",
			InquiryText:  "קו 408 לא הגיע בזמן לתחנה המרכזית בירושלים",
			ResponseText: "שלום, תודה על פנייתך. בדקנו את נסיעות קו 408 בתאריך המדווח ונמצא כי חל עיכוב עקב עומסי תנועה. אנו מתנצלים על אי הנוחות ונעביר את הפנייה לחברה המפעילה. בברכה, שירות הלקוחות",
			LineNumbers:  []int{408},
			CreatedDate:  base,
			IsOfficial:   true,
		},
		{
			ID:           "fixture-2",
			InquiryText:  "צפיפות קשה בקו 30 בשעות הבוקר בתל אביב",
			ResponseText: "שלום, תודה על פנייתך בנושא הצפיפות בקו 30. הנושא הועבר לבחינת תגבור התדירות בשעות השיא. נעדכן אותך בהמשך הטיפול. בברכה, שירות הלקוחות",
			LineNumbers:  []int{30},
			CreatedDate:  base.Add(24 * time.Hour),
			IsOfficial:   true,
		},
		{
			ID:           "fixture-3",
			InquiryText:  "בקשה לשינוי מסלול קו 40 שיעבור דרך שכונת רמות",
			ResponseText: "שלום, תודה על פנייתך. בקשות לשינוי מסלול קו 40 נבחנות במסגרת עדכון תוכנית התחבורה השנתית. הבקשה תועבר לגורמי התכנון הרלוונטיים. בברכה, שירות הלקוחות",
			LineNumbers:  []int{40},
			CreatedDate:  base.Add(48 * time.Hour),
			IsOfficial:   false,
		},
	}}
}

func (f *FixtureStore) ListRecords(ctx context.Context) ([]Record, error) {
	out := make([]Record, len(f.records))
	copy(out, f.records)
	return out, nil
}
