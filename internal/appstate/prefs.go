package appstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known preference keys. Everything is a plain string; callers
// parse what they store.
const (
	KeyLastPatient      = "lastPatient"
	KeySidebarCollapsed = "sidebarCollapsed"
	KeyLastCrewCard     = "lastCrewCard"
	KeySkipLastChat     = "skipLastChat"
	KeyVisibilityMode   = "visibilityMode"
)

// SectionKey is the preference key holding one section's collapsed flag.
func SectionKey(section string) string {
	return "collapsed:" + section
}

// Prefs is a flat string key/value store persisted as one JSON file.
// There is no schema or versioning; unknown keys ride along untouched.
type Prefs struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenPrefs loads the preference file, starting empty when it is
// missing or unreadable.
func OpenPrefs(path string) *Prefs {
	p := &Prefs{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err == nil {
		var values map[string]string
		if json.Unmarshal(data, &values) == nil && values != nil {
			p.values = values
		}
	}
	return p
}

// Get returns the stored value, or "" when absent.
func (p *Prefs) Get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[key]
}

// GetBool reads a key as a boolean flag; anything but "true" is false.
func (p *Prefs) GetBool(key string) bool {
	return p.Get(key) == "true"
}

// Set stores a value and persists the file.
func (p *Prefs) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return p.writeLocked()
}

// SetBool stores a boolean flag.
func (p *Prefs) SetBool(key string, value bool) error {
	if value {
		return p.Set(key, "true")
	}
	return p.Set(key, "false")
}

// Delete removes a key and persists the file.
func (p *Prefs) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return p.writeLocked()
}

func (p *Prefs) writeLocked() error {
	data, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling preferences: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return os.Rename(tmp, p.path)
}
