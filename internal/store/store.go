package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Category names one of the JSON documents held in the data directory.
type Category string

const (
	CategoryPatients  Category = "patients"
	CategoryHistory   Category = "history"
	CategorySettings  Category = "settings"
	CategoryTools     Category = "tools"
	CategoryInventory Category = "inventory"
	CategoryVessel    Category = "vessel"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryPatients, CategoryHistory, CategorySettings,
	CategoryTools, CategoryInventory, CategoryVessel,
}

// objectCategories hold a single JSON object; everything else is an array.
var objectCategories = map[Category]bool{
	CategorySettings: true,
	CategoryVessel:   true,
}

// Known reports whether c is a recognized category.
func Known(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsObject reports whether the category holds a single object rather
// than an array of records.
func IsObject(c Category) bool { return objectCategories[c] }

// Empty returns the typed empty document for a category.
func Empty(c Category) json.RawMessage {
	if IsObject(c) {
		return json.RawMessage("{}")
	}
	return json.RawMessage("[]")
}

// Store persists each category as one JSON file in a data directory.
// Writes are atomic (temp file + rename) and serialized per category.
// Reads of missing or corrupt files yield the typed empty document so
// callers never fail on first run or damaged data.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[Category]*sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[Category]*sync.Mutex)}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

func (s *Store) lock(c Category) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[c]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[c] = l
	return l
}

func (s *Store) path(c Category) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// Load returns the raw document for a category. Missing or corrupt
// files fall back to the typed empty document.
func (s *Store) Load(c Category) (json.RawMessage, error) {
	if !Known(c) {
		return nil, fmt.Errorf("unknown category %q", c)
	}
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()
	return s.loadLocked(c), nil
}

func (s *Store) loadLocked(c Category) json.RawMessage {
	data, err := os.ReadFile(s.path(c))
	if err != nil {
		return Empty(c)
	}
	if !json.Valid(data) {
		return Empty(c)
	}
	if err := checkShape(c, data); err != nil {
		return Empty(c)
	}
	return data
}

// Replace overwrites the whole document for a category.
func (s *Store) Replace(c Category, doc json.RawMessage) error {
	if !Known(c) {
		return fmt.Errorf("unknown category %q", c)
	}
	if err := checkShape(c, doc); err != nil {
		return err
	}
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()
	return s.writeLocked(c, doc)
}

// checkShape verifies the document's top-level JSON type matches the
// category (object vs array).
func checkShape(c Category, doc json.RawMessage) error {
	if IsObject(c) {
		var obj map[string]any
		if err := json.Unmarshal(doc, &obj); err != nil {
			return fmt.Errorf("category %s requires a JSON object: %w", c, err)
		}
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(doc, &arr); err != nil {
		return fmt.Errorf("category %s requires a JSON array: %w", c, err)
	}
	return nil
}

// writeLocked writes the document atomically. Caller holds the lock.
func (s *Store) writeLocked(c Category, doc json.RawMessage) error {
	tmp, err := os.CreateTemp(s.dir, string(c)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", c, err)
	}
	if err := os.Rename(tmpName, s.path(c)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", c, err)
	}
	return nil
}

// Update performs a keyed upsert on an array category: the record with
// the given id is loaded, passed to mutate, and the whole document is
// written back. A missing record is created with just the id set.
// The on-disk format stays a whole-array document, so the wire contract
// (collection replace) is untouched; Update is the narrow path future
// per-record PATCH routes would use.
func (s *Store) Update(c Category, id string, mutate func(rec map[string]any)) error {
	if !Known(c) {
		return fmt.Errorf("unknown category %q", c)
	}
	if IsObject(c) {
		return fmt.Errorf("category %s is not a record collection", c)
	}
	if id == "" {
		return fmt.Errorf("record id is required")
	}

	l := s.lock(c)
	l.Lock()
	defer l.Unlock()

	var records []map[string]any
	if err := json.Unmarshal(s.loadLocked(c), &records); err != nil {
		records = nil
	}

	found := false
	for _, rec := range records {
		if recID, _ := rec["id"].(string); recID == id {
			mutate(rec)
			rec["id"] = id
			found = true
			break
		}
	}
	if !found {
		rec := map[string]any{"id": id}
		mutate(rec)
		rec["id"] = id
		records = append(records, rec)
	}

	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", c, err)
	}
	return s.writeLocked(c, doc)
}

// Records unmarshals an array category into generic records.
func (s *Store) Records(c Category) ([]map[string]any, error) {
	doc, err := s.Load(c)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(doc, &records); err != nil {
		return []map[string]any{}, nil
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}
