package history

import (
	"strings"
	"testing"
)

func TestGroupLabelReservedGroups(t *testing.T) {
	cases := []struct {
		patient string
		want    string
	}{
		{"", GroupUnnamed},
		{"   ", GroupUnnamed},
		{"Inquiry", GroupInquiries},
		{"inquiry", GroupInquiries},
		{"INQUIRY", GroupInquiries},
		{"Ann Lee", "Ann Lee"},
		{"  Ann Lee  ", "Ann Lee"},
	}
	for _, c := range cases {
		if got := GroupLabel(c.patient); got != c.want {
			t.Errorf("GroupLabel(%q) = %q, want %q", c.patient, got, c.want)
		}
	}
}

func TestGroupedOrdering(t *testing.T) {
	entries := []Entry{
		{ID: "1", Patient: "zeb", Date: "2026-01-01"},
		{ID: "2", Patient: "Ann", Date: "2026-01-02"},
		{ID: "3", Patient: "", Date: "2026-01-03"},
		{ID: "4", Patient: "inquiry", Date: "2026-01-04"},
	}

	groups := Grouped(entries)
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}

	wantOrder := []string{GroupUnnamed, GroupInquiries, "Ann", "zeb"}
	for i, want := range wantOrder {
		if groups[i].Label != want {
			t.Errorf("group %d = %q, want %q", i, groups[i].Label, want)
		}
	}
}

func TestGroupedEntriesNewestFirstLexicographic(t *testing.T) {
	entries := []Entry{
		{ID: "old", Patient: "Ann", Date: "2025-12-31"},
		{ID: "new", Patient: "Ann", Date: "2026-02-01"},
		{ID: "mid", Patient: "Ann", Date: "2026-01-15"},
	}

	groups := Grouped(entries)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	got := groups[0].Entries
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Errorf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestGroupedSortIsStringComparison(t *testing.T) {
	// Lexicographic, not chronological: "2026-2-1" sorts after
	// "2026-10-01" as a plain string. The literal behavior is kept.
	entries := []Entry{
		{ID: "a", Patient: "Ann", Date: "2026-10-01"},
		{ID: "b", Patient: "Ann", Date: "2026-2-1"},
	}
	groups := Grouped(entries)
	if groups[0].Entries[0].ID != "b" {
		t.Errorf("expected string-comparison ordering, got %s first", groups[0].Entries[0].ID)
	}
}

func TestEntryText(t *testing.T) {
	e := Entry{
		ID:       "h-1",
		Patient:  "Ann Lee",
		Date:     "2026-05-02",
		Title:    "Seasickness",
		Query:    "Persistent nausea in heavy swell",
		Response: "Rest, hydration, meclizine as needed.",
	}

	text := EntryText(e)
	for _, want := range []string{"Seasickness — Ann Lee", "Date: 2026-05-02", "Question", "Persistent nausea", "Answer", "meclizine"} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %q:\n%s", want, text)
		}
	}
}

func TestEntryTextDefaultTitle(t *testing.T) {
	text := EntryText(Entry{Patient: "inquiry", Query: "q", Response: "r"})
	if !strings.Contains(text, "Medical inquiry — Inquiry History") {
		t.Errorf("expected default title and reserved group, got:\n%s", text)
	}
}
