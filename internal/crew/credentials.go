package crew

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// credential is one stored login, keyed by crew member id. Passwords
// are stored as bcrypt hashes and never leave this file.
type credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// CredentialStore keeps crew login credentials out of the patients
// document, so collection reads never echo a password.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewCredentialStore creates a store persisting to credentials.json
// inside the data directory.
func NewCredentialStore(dataDir string) *CredentialStore {
	return &CredentialStore{path: filepath.Join(dataDir, "credentials.json")}
}

func (cs *CredentialStore) load() map[string]credential {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		return map[string]credential{}
	}
	var creds map[string]credential
	if err := json.Unmarshal(data, &creds); err != nil || creds == nil {
		return map[string]credential{}
	}
	return creds
}

// Save hashes and stores the credentials for a crew member id.
func (cs *CredentialStore) Save(id, username, password string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	creds := cs.load()
	creds[id] = credential{Username: username, PasswordHash: string(hash)}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}
	if err := os.WriteFile(cs.path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Verify checks a username/password pair against the stored hash for
// the crew member id.
func (cs *CredentialStore) Verify(id, username, password string) bool {
	cs.mu.Lock()
	cred, ok := cs.load()[id]
	cs.mu.Unlock()
	if !ok || cred.Username != username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil
}

// Username returns the stored username for a crew member id, if any.
func (cs *CredentialStore) Username(id string) (string, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cred, ok := cs.load()[id]
	return cred.Username, ok
}
