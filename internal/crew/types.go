package crew

import (
	"encoding/json"
	"strings"
)

// EmergencyContact is the next-of-kin block on a crew member record.
type EmergencyContact struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

// Member is one crew member record from the "patients" collection.
// IDs are opaque strings; the browser client generates them from
// timestamps and the server accepts them as-is.
type Member struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	// Name is the legacy single-field form, still present on old records.
	Name           string           `json:"name,omitempty"`
	Sex            string           `json:"sex,omitempty"`
	Birthdate      string           `json:"birthdate,omitempty"`
	Position       string           `json:"position,omitempty"`
	Citizenship    string           `json:"citizenship,omitempty"`
	PassportNumber string           `json:"passportNumber,omitempty"`
	PassportIssue  string           `json:"passportIssue,omitempty"`
	PassportExpiry string           `json:"passportExpiry,omitempty"`
	Emergency      EmergencyContact `json:"emergencyContact,omitempty"`
	History        string           `json:"history,omitempty"`
	PassportPhoto  string           `json:"passportPhoto,omitempty"`
	PassportPage   string           `json:"passportPage,omitempty"`
	Username       string           `json:"username,omitempty"`
}

// Normalize backfills the split name fields from the legacy single
// "name" field: first token becomes the first name, the last token the
// last name, anything between the middle name. Records that already
// carry split names are untouched.
func (m *Member) Normalize() {
	if m.FirstName != "" || m.LastName != "" {
		return
	}
	parts := strings.Fields(m.Name)
	switch len(parts) {
	case 0:
		return
	case 1:
		m.FirstName = parts[0]
	case 2:
		m.FirstName = parts[0]
		m.LastName = parts[1]
	default:
		m.FirstName = parts[0]
		m.MiddleName = strings.Join(parts[1:len(parts)-1], " ")
		m.LastName = parts[len(parts)-1]
	}
}

// NormalizeRecord runs the legacy-name backfill directly on a generic
// record, setting only the split-name keys. Crew records round-trip
// whole through the data API, so keys this package has no model for
// must survive a read untouched.
func NormalizeRecord(rec map[string]any) {
	first, _ := rec["firstName"].(string)
	last, _ := rec["lastName"].(string)
	if first != "" || last != "" {
		return
	}
	name, _ := rec["name"].(string)
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
	case 1:
		rec["firstName"] = parts[0]
	case 2:
		rec["firstName"] = parts[0]
		rec["lastName"] = parts[1]
	default:
		rec["firstName"] = parts[0]
		rec["middleName"] = strings.Join(parts[1:len(parts)-1], " ")
		rec["lastName"] = parts[len(parts)-1]
	}
}

// DisplayName joins the name fields for rendering and exports.
func (m *Member) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.FirstName, m.MiddleName, m.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return m.Name
	}
	return strings.Join(parts, " ")
}

// Decode unmarshals a whole patients document into members, running
// normalization on each record.
func Decode(doc json.RawMessage) ([]Member, error) {
	var members []Member
	if err := json.Unmarshal(doc, &members); err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Normalize()
	}
	return members, nil
}
