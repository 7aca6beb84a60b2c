package history

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vesselkit/seachest/internal/store"
)

// RegisterRoutes mounts the history export routes. Reading and
// replacing the collection itself goes through /api/data/history.
func RegisterRoutes(r chi.Router, st *store.Store) {
	r.Route("/api/history", func(r chi.Router) {
		r.Get("/grouped", handleGrouped(st))
		r.Get("/{id}/export", handleEntryExport(st))
	})
}

type groupedResponse struct {
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

func handleGrouped(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.Load(store.CategoryHistory)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		entries, err := Decode(doc)
		if err != nil {
			entries = nil
		}

		groups := Grouped(entries)
		out := make([]groupedResponse, 0, len(groups))
		for _, g := range groups {
			out = append(out, groupedResponse{Label: g.Label, Entries: g.Entries})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleEntryExport(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		doc, err := st.Load(store.CategoryHistory)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		entries, err := Decode(doc)
		if err != nil {
			http.Error(w, `{"error":"history document is malformed"}`, http.StatusInternalServerError)
			return
		}

		for _, e := range entries {
			if e.ID == id {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("Content-Disposition", `attachment; filename="history-`+id+`.txt"`)
				w.Write([]byte(EntryText(e)))
				return
			}
		}
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}
