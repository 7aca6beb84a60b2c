package crew

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/store"
)

// RegisterRoutes mounts the crew API routes.
func RegisterRoutes(r chi.Router, st *store.Store, creds *CredentialStore, recorder *audit.Recorder, logger *zap.Logger) {
	r.Route("/api/crew", func(r chi.Router) {
		r.Post("/credentials", handleSaveCredentials(creds, recorder, logger))
		r.Get("/manifest.csv", handleManifestCSV(st, logger))
		r.Get("/manifest.xlsx", handleManifestXLSX(st, logger))
		r.Get("/{id}/export", handleMemberExport(st))
	})
}

type credentialsRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func handleSaveCredentials(creds *CredentialStore, recorder *audit.Recorder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		if err := creds.Save(req.ID, req.Username, req.Password); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		recorder.Record(r.Context(), audit.Entry{
			ActorType: audit.ActorUser,
			ActorID:   "operator",
			Action:    audit.ActionCredentialsSaved,
			Scope:     audit.ScopeCrew,
			TargetID:  req.ID,
			Summary:   "credentials updated for " + req.Username,
		})
		logger.Info("crew credentials saved", zap.String("crew_id", req.ID))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// loadMembers reads and normalizes the patients collection.
func loadMembers(st *store.Store) ([]Member, error) {
	doc, err := st.Load(store.CategoryPatients)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

func handleManifestCSV(st *store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := loadMembers(st)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		data, err := ManifestCSV(members)
		if err != nil {
			logger.Error("manifest csv", zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="crew-manifest.csv"`)
		w.Write(data)
	}
}

func handleManifestXLSX(st *store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := loadMembers(st)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		data, err := ManifestXLSX(members)
		if err != nil {
			logger.Error("manifest xlsx", zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="crew-manifest.xlsx"`)
		w.Write(data)
	}
}

func handleMemberExport(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		members, err := loadMembers(st)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		for _, m := range members {
			if m.ID == id {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("Content-Disposition", `attachment; filename="crew-`+id+`.txt"`)
				w.Write([]byte(MemberText(m)))
				return
			}
		}
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}
