package offline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/store"
)

// RegisterRoutes mounts the offline-mode API routes.
func RegisterRoutes(r chi.Router, checker *Checker, data *store.Store, dataDir string, include []string, recorder *audit.Recorder, logger *zap.Logger) {
	r.Route("/api/offline", func(r chi.Router) {
		r.Get("/check", handleCheck(checker))
		r.Post("/ensure", handleEnsure(checker))
		r.Post("/flags", handleFlags(data))
		r.Post("/backup", handleBackup(dataDir, include, logger))
		r.Post("/restore", handleRestore(dataDir, recorder))
	})
}

func handleCheck(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := checker.Check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st)
	}
}

func handleEnsure(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := checker.Ensure(r.Context())
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{"error": err.Error(), "status": st})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st)
	}
}

func handleFlags(data *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var flags Flags
		if err := json.NewDecoder(r.Body).Decode(&flags); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if err := SaveFlags(data, flags); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		raw, err := data.Load(store.CategorySettings)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}
}

func handleBackup(dataDir string, include []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := fmt.Sprintf("seachest-backup-%s.tar.gz", time.Now().UTC().Format("20060102-150405"))
		w.Header().Set("Content-Type", "application/gzip")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

		if err := Backup(dataDir, include, w); err != nil {
			// Headers are gone by now; all we can do is log and cut the stream.
			logger.Error("backup stream failed", zap.Error(err))
		}
	}
}

func handleRestore(dataDir string, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := Restore(dataDir, r.Body); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		recorder.Record(r.Context(), audit.Entry{
			ActorType: audit.ActorUser,
			ActorID:   "operator",
			Action:    audit.ActionDataRestored,
			Scope:     audit.ScopeData,
			Summary:   "backup archive restored",
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"restored"}`))
	}
}
