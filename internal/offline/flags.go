package offline

import (
	"encoding/json"
	"fmt"

	"github.com/vesselkit/seachest/internal/store"
)

// Flags are the persisted offline-mode toggles. Pointers distinguish
// "leave unchanged" from "set to false".
type Flags struct {
	Enabled   *bool `json:"offlineEnabled,omitempty"`
	AutoCheck *bool `json:"offlineAutoCheck,omitempty"`
}

// SaveFlags merges the given toggles into the stored settings document
// without disturbing its other fields.
func SaveFlags(data *store.Store, flags Flags) error {
	raw, err := data.Load(store.CategorySettings)
	if err != nil {
		return err
	}

	doc := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			doc = map[string]any{}
		}
	}
	if flags.Enabled != nil {
		doc["offlineEnabled"] = *flags.Enabled
	}
	if flags.AutoCheck != nil {
		doc["offlineAutoCheck"] = *flags.AutoCheck
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	return data.Replace(store.CategorySettings, out)
}
