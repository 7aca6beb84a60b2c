package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/chat"
	"github.com/vesselkit/seachest/internal/config"
	"github.com/vesselkit/seachest/internal/crew"
	"github.com/vesselkit/seachest/internal/db"
	"github.com/vesselkit/seachest/internal/offline"
	"github.com/vesselkit/seachest/internal/photoqueue"
	"github.com/vesselkit/seachest/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dataDir := t.TempDir()
	data, err := store.New(dataDir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	logger := zap.NewNop()
	recorder := audit.NewRecorder(database, logger)

	queueStore, err := photoqueue.NewStore(database)
	if err != nil {
		t.Fatalf("photoqueue.NewStore: %v", err)
	}
	queue, err := photoqueue.NewService(queueStore, data, nil, "", dataDir, recorder, logger)
	if err != nil {
		t.Fatalf("photoqueue.NewService: %v", err)
	}

	cfg := &config.Config{Port: 0, DataDir: dataDir, AllowAllOrigins: true}
	return New(Deps{
		Config:      cfg,
		DB:          database,
		Store:       data,
		Credentials: crew.NewCredentialStore(dataDir),
		Recorder:    recorder,
		Chat:        chat.NewService(chat.NewStore(database), data, nil, logger),
		Queue:       queue,
		Checker:     offline.NewChecker("http://127.0.0.1:1", "llama3"),
		Logger:      logger,
	})
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestDataRoundTripThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	post := httptest.NewRequest("POST", "/api/data/inventory",
		strings.NewReader(`[{"id":"i1","name":"Gauze","type":"consumable"}]`))
	post.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, post)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d: %s", w.Code, w.Body)
	}

	get := httptest.NewRequest("GET", "/api/data/inventory", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, get)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}

	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0]["name"] != "Gauze" {
		t.Errorf("items = %+v", items)
	}
}

func TestQueueSnapshotShape(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/medicines/queue", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["queue"]; !ok {
		t.Errorf(`queue snapshot must be wrapped as {"queue":[...]}: %s`, w.Body)
	}
}

func TestOfflineCheckUnreachableRuntime(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/offline/check", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var st offline.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Available {
		t.Error("unreachable runtime must not report available")
	}
}
