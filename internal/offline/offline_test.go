package offline

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vesselkit/seachest/internal/store"
)

func writeTarGz(t *testing.T, w io.Writer, files map[string]string) {
	t.Helper()
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckReportsModelReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"mistral:7b"}]}`))
	}))
	defer srv.Close()

	st := NewChecker(srv.URL, "llama3").Check(context.Background())
	if !st.Available {
		t.Fatalf("runtime should be available: %+v", st)
	}
	if !st.ModelReady {
		t.Error("llama3 should match llama3:latest")
	}
	if len(st.Models) != 2 {
		t.Errorf("models = %v", st.Models)
	}
}

func TestCheckUnreachableRuntime(t *testing.T) {
	st := NewChecker("http://127.0.0.1:1", "llama3").Check(context.Background())
	if st.Available {
		t.Error("unreachable runtime must not report available")
	}
	if st.Error == "" {
		t.Error("status should carry the failure")
	}
}

func TestEnsurePullsMissingModel(t *testing.T) {
	pulled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			if pulled {
				w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
			} else {
				w.Write([]byte(`{"models":[]}`))
			}
		case "/api/pull":
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			if req["name"] != "llama3" {
				t.Errorf("pull name = %v", req["name"])
			}
			pulled = true
			w.Write([]byte(`{"status":"success"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	st, err := NewChecker(srv.URL, "llama3").Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !st.ModelReady {
		t.Error("model should be ready after pull")
	}
}

func TestSaveFlagsPreservesOtherSettings(t *testing.T) {
	data, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := data.Replace(store.CategorySettings, []byte(`{"temperature":0.4,"visibilityMode":"restricted"}`)); err != nil {
		t.Fatal(err)
	}

	enabled := true
	if err := SaveFlags(data, Flags{Enabled: &enabled}); err != nil {
		t.Fatalf("SaveFlags: %v", err)
	}

	raw, _ := data.Load(store.CategorySettings)
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["offlineEnabled"] != true {
		t.Errorf("offlineEnabled = %v", doc["offlineEnabled"])
	}
	if doc["temperature"] != 0.4 {
		t.Errorf("temperature was disturbed: %v", doc["temperature"])
	}
	if doc["visibilityMode"] != "restricted" {
		t.Errorf("visibilityMode was disturbed: %v", doc["visibilityMode"])
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "patients.json"), []byte(`[{"id":"p1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(src, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "photos", "a.jpg"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Outside the default include set.
	if err := os.WriteFile(filepath.Join(src, "seachest.db"), []byte("sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Backup(src, nil, &buf); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	dst := t.TempDir()
	if err := Restore(dst, &buf); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "patients.json"))
	if err != nil {
		t.Fatalf("restored document missing: %v", err)
	}
	if string(got) != `[{"id":"p1"}]` {
		t.Errorf("restored content = %s", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "photos", "a.jpg")); err != nil {
		t.Errorf("restored photo missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "seachest.db")); !os.IsNotExist(err) {
		t.Error("database file should not be in the backup")
	}
}

func TestRestoreRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	writeTarGz(t, &buf, map[string]string{"../evil.json": "{}"})

	if err := Restore(t.TempDir(), &buf); err == nil {
		t.Fatal("entry escaping the data dir must be rejected")
	}
}

func TestBackupCustomInclude(t *testing.T) {
	src := t.TempDir()
	os.WriteFile(filepath.Join(src, "patients.json"), []byte(`[]`), 0o644)
	os.WriteFile(filepath.Join(src, "settings.json"), []byte(`{}`), 0o644)

	var buf bytes.Buffer
	if err := Backup(src, []string{"settings.json"}, &buf); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	if err := Restore(dst, &buf); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "settings.json")); err != nil {
		t.Error("included file missing from archive")
	}
	if _, err := os.Stat(filepath.Join(dst, "patients.json")); !os.IsNotExist(err) {
		t.Error("excluded file should not be archived")
	}
}
