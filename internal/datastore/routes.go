// Package datastore exposes the category documents over HTTP: each
// collection is read and replaced whole, the persistence contract the
// browser clients were built on. Per-category hooks normalize documents
// on the way out so old records gain fields added since they were
// written.
package datastore

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/crew"
	"github.com/vesselkit/seachest/internal/inventory"
	"github.com/vesselkit/seachest/internal/settings"
	"github.com/vesselkit/seachest/internal/store"
)

// maxDocumentBytes bounds a replace body. Passport photos are stored as
// data URIs inside crew records, so the limit is generous.
const maxDocumentBytes = 64 << 20

// RegisterRoutes mounts the data category routes.
func RegisterRoutes(r chi.Router, st *store.Store, recorder *audit.Recorder, logger *zap.Logger) {
	r.Route("/api/data", func(r chi.Router) {
		r.Get("/{category}", handleRead(st, logger))
		r.Post("/{category}", handleReplace(st, logger))
	})
	r.Post("/api/default/export", handleSeed(st, recorder, logger))
}

// normalizeOut runs the per-category load hook, falling back to the
// stored document when it doesn't decode. Array categories are
// normalized as generic records, never through the typed models:
// collections round-trip whole through fetch-mutate-POST, so a key the
// models don't enumerate must come back exactly as stored or the next
// autosave would erase it.
func normalizeOut(c store.Category, doc json.RawMessage) json.RawMessage {
	switch c {
	case store.CategorySettings:
		merged := settings.Merge(doc)
		if out, err := json.Marshal(merged); err == nil {
			return out
		}
	case store.CategoryPatients:
		return normalizeRecords(doc, crew.NormalizeRecord)
	case store.CategoryTools, store.CategoryInventory:
		return normalizeRecords(doc, inventory.NormalizeRecord)
	}
	return doc
}

func normalizeRecords(doc json.RawMessage, normalize func(map[string]any)) json.RawMessage {
	var records []map[string]any
	if err := json.Unmarshal(doc, &records); err != nil {
		return doc
	}
	if records == nil {
		records = []map[string]any{}
	}
	for _, rec := range records {
		normalize(rec)
	}
	out, err := json.Marshal(records)
	if err != nil {
		return doc
	}
	return out
}

func handleRead(st *store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := store.Category(chi.URLParam(r, "category"))
		if !store.Known(c) {
			http.Error(w, `{"error":"unknown category"}`, http.StatusNotFound)
			return
		}

		doc, err := st.Load(c)
		if err != nil {
			logger.Error("category read", zap.String("category", string(c)), zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(normalizeOut(c, doc))
	}
}

func handleReplace(st *store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := store.Category(chi.URLParam(r, "category"))
		if !store.Known(c) {
			http.Error(w, `{"error":"unknown category"}`, http.StatusNotFound)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
		if err != nil {
			http.Error(w, `{"error":"reading request body"}`, http.StatusBadRequest)
			return
		}
		if !json.Valid(body) {
			http.Error(w, `{"error":"body is not valid JSON"}`, http.StatusBadRequest)
			return
		}

		if err := st.Replace(c, body); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		logger.Debug("category replaced", zap.String("category", string(c)), zap.Int("bytes", len(body)))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func handleSeed(st *store.Store, recorder *audit.Recorder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Seed(); err != nil {
			logger.Error("seeding demo data", zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		recorder.Record(r.Context(), audit.Entry{
			Action:  audit.ActionDataSeeded,
			Scope:   audit.ScopeData,
			Summary: "demo dataset written",
		})

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}
