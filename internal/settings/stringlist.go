package settings

import "strings"

// The ordered string lists (vaccine types, pharmacy labels, equipment
// and consumable categories) share one contract: order-preserving,
// trimmed, case-insensitively deduplicated keeping the first occurrence.

// Normalize trims entries, drops empties and removes case-insensitive
// duplicates, keeping the first occurrence. It is idempotent.
func Normalize(list []string) []string {
	seen := make(map[string]bool, len(list))
	result := make([]string, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
	}
	return result
}

// Add appends item to the list unless it is empty after trimming or a
// case-insensitive duplicate of an existing entry. The second return
// reports whether the list changed.
func Add(list []string, item string) ([]string, bool) {
	item = strings.TrimSpace(item)
	if item == "" {
		return Normalize(list), false
	}
	normalized := Normalize(list)
	for _, existing := range normalized {
		if strings.EqualFold(existing, item) {
			return normalized, false
		}
	}
	return append(normalized, item), true
}

// RemoveAt removes the entry at index. Out-of-range indices are a no-op.
func RemoveAt(list []string, index int) []string {
	normalized := Normalize(list)
	if index < 0 || index >= len(normalized) {
		return normalized
	}
	return append(normalized[:index], normalized[index+1:]...)
}

// Move shifts the entry at index by delta positions (±1 in the UI).
// Moving past either end is a no-op, matching the disabled Up/Down
// affordances at the boundaries.
func Move(list []string, index, delta int) []string {
	normalized := Normalize(list)
	target := index + delta
	if index < 0 || index >= len(normalized) || target < 0 || target >= len(normalized) {
		return normalized
	}
	normalized[index], normalized[target] = normalized[target], normalized[index]
	return normalized
}

// CanMove reports whether the Up (delta -1) or Down (delta +1) control
// should be enabled for the entry at index.
func CanMove(list []string, index, delta int) bool {
	target := index + delta
	return index >= 0 && index < len(list) && target >= 0 && target < len(list)
}
