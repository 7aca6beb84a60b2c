package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vesselkit/seachest/internal/store"
)

// RegisterRoutes mounts the inventory search route. Collection reads
// and replaces go through /api/data/{tools,inventory}.
func RegisterRoutes(r chi.Router, st *store.Store) {
	r.Get("/api/search", handleSearch(st))
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []Item `json:"results"`
}

// handleSearch searches the tools and inventory collections together,
// mirroring the in-memory search the UI runs across its caches.
func handleSearch(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, `{"error":"q parameter is required"}`, http.StatusBadRequest)
			return
		}

		var all []Item
		for _, c := range []store.Category{store.CategoryTools, store.CategoryInventory} {
			doc, err := st.Load(c)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			items, err := Decode(doc)
			if err != nil {
				continue
			}
			all = append(all, items...)
		}

		results := Search(all, query)
		if results == nil {
			results = []Item{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{Query: query, Results: results})
	}
}
