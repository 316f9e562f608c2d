package certificate

import "testing"

func TestJournalFilterLimit(t *testing.T) {
	cases := map[int]int{0: DefaultJournalLimit, -3: DefaultJournalLimit, 10: 10, 5000: MaxJournalLimit}
	for in, want := range cases {
		if got := (JournalFilter{Limit: in}).NormalizedLimit(); got != want {
			t.Errorf("limit %d: expected %d, got %d", in, want, got)
		}
	}
}

func TestJournalFilterKindStrings(t *testing.T) {
	f := JournalFilter{Kinds: []EntryKind{KindMint, " ", " add_admin "}}
	got := f.KindStrings()
	if len(got) != 2 || got[0] != "mint" || got[1] != "add_admin" {
		t.Errorf("unexpected kinds %q", got)
	}
}
