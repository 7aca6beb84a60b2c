package settings

import "encoding/json"

// VisibilityMode controls which settings sections the UI exposes.
type VisibilityMode string

const (
	VisibilityUser      VisibilityMode = "user"
	VisibilityAdvanced  VisibilityMode = "advanced"
	VisibilityDeveloper VisibilityMode = "developer"
)

// Settings is the single global configuration document stored under the
// "settings" category. There is exactly one; it has no id.
type Settings struct {
	PromptTemplate        string         `json:"promptTemplate"`
	InquiryPromptTemplate string         `json:"inquiryPromptTemplate"`
	Temperature           float64        `json:"temperature"`
	MaxTokens             int            `json:"maxTokens"`
	VaccineTypes          []string       `json:"vaccineTypes"`
	PharmacyLabels        []string       `json:"pharmacyLabels"`
	EquipmentCategories   []string       `json:"equipmentCategories"`
	ConsumableCategories  []string       `json:"consumableCategories"`
	VisibilityMode        VisibilityMode `json:"visibilityMode"`
	OfflineEnabled        bool           `json:"offlineEnabled"`
	OfflineAutoCheck      bool           `json:"offlineAutoCheck"`
}

// Defaults returns the hardcoded settings every load is merged with.
func Defaults() Settings {
	return Settings{
		PromptTemplate: "You are the medical assistant aboard a small vessel. " +
			"Answer for the crew member described below. Structure the answer with " +
			"Assessment, Recommended treatment and When to seek help sections.",
		InquiryPromptTemplate: "You are the medical assistant aboard a small vessel. " +
			"Answer the general inquiry below for a lay first-aid provider.",
		Temperature: 0.3,
		MaxTokens:   1024,
		VaccineTypes: []string{
			"Tetanus", "Hepatitis A", "Hepatitis B", "Typhoid", "Yellow Fever",
		},
		PharmacyLabels: []string{
			"Analgesics", "Antibiotics", "Antihistamines", "Gastrointestinal", "Dressings",
		},
		EquipmentCategories: []string{
			"Diagnostics", "Resuscitation", "Immobilization", "Instruments",
		},
		ConsumableCategories: []string{
			"Dressings", "Disinfection", "Injection", "Protection",
		},
		VisibilityMode:   VisibilityUser,
		OfflineEnabled:   false,
		OfflineAutoCheck: true,
	}
}

// validModes is the set of recognized visibility modes.
var validModes = map[VisibilityMode]bool{
	VisibilityUser:      true,
	VisibilityAdvanced:  true,
	VisibilityDeveloper: true,
}

// Merge unmarshals a stored settings document over the defaults, so
// keys missing from older documents keep their default values and the
// result is always usable. Lists are re-normalized and an unknown
// visibility mode falls back to "user".
func Merge(raw json.RawMessage) Settings {
	s := Defaults()
	if len(raw) > 0 {
		// A failed unmarshal leaves the defaults intact.
		json.Unmarshal(raw, &s)
	}

	s.VaccineTypes = Normalize(s.VaccineTypes)
	s.PharmacyLabels = Normalize(s.PharmacyLabels)
	s.EquipmentCategories = Normalize(s.EquipmentCategories)
	s.ConsumableCategories = Normalize(s.ConsumableCategories)

	if !validModes[s.VisibilityMode] {
		s.VisibilityMode = VisibilityUser
	}
	if s.Temperature < 0 {
		s.Temperature = 0
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = Defaults().MaxTokens
	}

	return s
}
