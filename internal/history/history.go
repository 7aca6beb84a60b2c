package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Reserved group labels. Entries with a blank patient field group under
// GroupUnnamed; entries whose patient is "inquiry" in any casing group
// under GroupInquiries.
const (
	GroupUnnamed   = "Unnamed Crew"
	GroupInquiries = "Inquiry History"
)

// Entry is one medical history log record: a query/response pair tied
// to a free-text patient name. The patient field is a grouping key, not
// a foreign key into the crew collection.
type Entry struct {
	ID       string `json:"id"`
	Patient  string `json:"patient"`
	Date     string `json:"date"`
	Title    string `json:"title,omitempty"`
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Group is one rendered group of history entries.
type Group struct {
	Label   string
	Entries []Entry
}

// GroupLabel maps a raw patient field to its display group.
func GroupLabel(patient string) string {
	patient = strings.TrimSpace(patient)
	if patient == "" {
		return GroupUnnamed
	}
	if strings.EqualFold(patient, "inquiry") {
		return GroupInquiries
	}
	return patient
}

// Grouped buckets entries by patient label. Reserved groups come first
// (Unnamed Crew, then Inquiry History), the rest alphabetically without
// regard to case. Entries inside a group sort newest-first by plain
// string comparison on the date field; stored dates are ISO-8601-like
// strings and the ordering is kept lexicographic on purpose, since a
// real date parse could reorder malformed legacy entries.
func Grouped(entries []Entry) []Group {
	buckets := make(map[string][]Entry)
	for _, e := range entries {
		label := GroupLabel(e.Patient)
		buckets[label] = append(buckets[label], e)
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		if label == GroupUnnamed || label == GroupInquiries {
			continue
		}
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})

	ordered := make([]string, 0, len(buckets))
	if _, ok := buckets[GroupUnnamed]; ok {
		ordered = append(ordered, GroupUnnamed)
	}
	if _, ok := buckets[GroupInquiries]; ok {
		ordered = append(ordered, GroupInquiries)
	}
	ordered = append(ordered, labels...)

	groups := make([]Group, 0, len(ordered))
	for _, label := range ordered {
		bucket := buckets[label]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Date > bucket[j].Date
		})
		groups = append(groups, Group{Label: label, Entries: bucket})
	}
	return groups
}

// Decode unmarshals a whole history document.
func Decode(doc json.RawMessage) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(doc, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EntryText renders one entry as the flat text file export.
func EntryText(e Entry) string {
	var b strings.Builder
	label := GroupLabel(e.Patient)

	title := e.Title
	if title == "" {
		title = "Medical inquiry"
	}
	fmt.Fprintf(&b, "%s — %s\n", title, label)
	if e.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", e.Date)
	}
	b.WriteString("\nQuestion\n--------\n")
	b.WriteString(strings.TrimSpace(e.Query))
	b.WriteString("\n\nAnswer\n------\n")
	b.WriteString(strings.TrimSpace(e.Response))
	b.WriteString("\n")
	return b.String()
}
