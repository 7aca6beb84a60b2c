package inventory

import (
	"encoding/json"
	"strings"
)

// ItemType buckets items into the three UI lists.
type ItemType string

const (
	TypeDurable    ItemType = "durable"
	TypeConsumable ItemType = "consumable"
	TypeMedication ItemType = "medication"
)

// Status values for an item.
const (
	StatusOK      = "ok"
	StatusLow     = "low"
	StatusExpired = "expired"
	StatusMissing = "missing"
	StatusService = "needs_service"
)

// Item is one equipment, medication or consumable record. The same
// shape backs both the "tools" and "inventory" collections.
type Item struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Type            ItemType `json:"type"`
	Location        string   `json:"location,omitempty"`
	SubLocation     string   `json:"subLocation,omitempty"`
	ParentKitID     string   `json:"parentKitId,omitempty"`
	Status          string   `json:"status"`
	Expiry          string   `json:"expiry,omitempty"`
	LastInspection  string   `json:"lastInspection,omitempty"`
	CalibrationDue  string   `json:"calibrationDue,omitempty"`
	Quantity        int      `json:"quantity"`
	ParLevel        int      `json:"parLevel"`
	Supplier        string   `json:"supplier,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	LinkedQueueItem string   `json:"linkedQueueItem,omitempty"`
}

var validTypes = map[ItemType]bool{
	TypeDurable:    true,
	TypeConsumable: true,
	TypeMedication: true,
}

var validStatuses = map[string]bool{
	StatusOK:      true,
	StatusLow:     true,
	StatusExpired: true,
	StatusMissing: true,
	StatusService: true,
}

// Normalize backfills defaults so records written by older versions
// gain fields added since. Applied on every load; idempotent.
func (it *Item) Normalize() {
	if !validTypes[it.Type] {
		it.Type = TypeDurable
	}
	if !validStatuses[it.Status] {
		it.Status = StatusOK
	}
	if strings.TrimSpace(it.Category) == "" {
		it.Category = "Uncategorized"
	}
	if it.Quantity < 0 {
		it.Quantity = 0
	}
	if it.ParLevel < 0 {
		it.ParLevel = 0
	}
}

// NormalizeRecord applies the same backfill as Normalize directly on a
// generic record, touching only the known keys. Collections round-trip
// whole through the data API, so fields this package has no model for
// must survive a read untouched.
func NormalizeRecord(rec map[string]any) {
	t, _ := rec["type"].(string)
	if !validTypes[ItemType(t)] {
		rec["type"] = string(TypeDurable)
	}
	status, _ := rec["status"].(string)
	if !validStatuses[status] {
		rec["status"] = StatusOK
	}
	category, _ := rec["category"].(string)
	if strings.TrimSpace(category) == "" {
		rec["category"] = "Uncategorized"
	}
	if q, ok := rec["quantity"].(float64); ok && q < 0 {
		rec["quantity"] = float64(0)
	}
	if p, ok := rec["parLevel"].(float64); ok && p < 0 {
		rec["parLevel"] = float64(0)
	}
}

// Decode unmarshals a whole collection document, normalizing each item.
func Decode(doc json.RawMessage) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// Buckets splits items into the three UI lists by type.
func Buckets(items []Item) (durable, consumable, medication []Item) {
	for _, it := range items {
		switch it.Type {
		case TypeConsumable:
			consumable = append(consumable, it)
		case TypeMedication:
			medication = append(medication, it)
		default:
			durable = append(durable, it)
		}
	}
	return durable, consumable, medication
}

// Search returns items whose name, category, location, sub-location,
// supplier or notes contain the query, without regard to case. A blank
// query matches nothing.
func Search(items []Item, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []Item
	for _, it := range items {
		haystack := strings.ToLower(strings.Join([]string{
			it.Name, it.Category, it.Location, it.SubLocation, it.Supplier, it.Notes,
		}, "\n"))
		if strings.Contains(haystack, query) {
			matches = append(matches, it)
		}
	}
	return matches
}
