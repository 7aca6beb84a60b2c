package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vesselkit/seachest/internal/client"
)

func TestRestoreRequiresArmedConfirmation(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/offline/restore" {
			posts++
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	oldURL := serverURL
	oldPrompt := promptRestoreConfirm
	serverURL = srv.URL
	t.Cleanup(func() {
		serverURL = oldURL
		promptRestoreConfirm = oldPrompt
	})

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := os.WriteFile(archive, []byte("archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	restoreCmd.SetContext(context.Background())

	// Declined at the yes/no step: no request leaves the client.
	promptRestoreConfirm = func() (bool, string, error) { return false, "", nil }
	if err := restoreCmd.RunE(restoreCmd, []string{archive}); err != nil {
		t.Fatalf("declined restore should not error: %v", err)
	}
	if posts != 0 {
		t.Fatalf("server saw %d uploads after a declined confirmation", posts)
	}

	// Confirmed but mistyped token: still cancelled, case-sensitively.
	promptRestoreConfirm = func() (bool, string, error) { return true, "delete", nil }
	if err := restoreCmd.RunE(restoreCmd, []string{archive}); err != nil {
		t.Fatalf("mistyped token should cancel, not error: %v", err)
	}
	if posts != 0 {
		t.Fatalf("server saw %d uploads after a mistyped token", posts)
	}

	// Both steps armed: the upload goes through.
	promptRestoreConfirm = func() (bool, string, error) { return true, client.ConfirmToken, nil }
	if err := restoreCmd.RunE(restoreCmd, []string{archive}); err != nil {
		t.Fatalf("armed restore: %v", err)
	}
	if posts != 1 {
		t.Fatalf("server saw %d uploads, want 1", posts)
	}
}
