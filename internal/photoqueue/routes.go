package photoqueue

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds one multipart upload (phone photos run a few MB).
const maxUploadBytes = 64 << 20

// RegisterRoutes mounts the photo intake API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/medicines", func(r chi.Router) {
		r.Post("/photos", handleUpload(svc))
		r.Post("/photos/{id}/process", handleProcess(svc))
		r.Post("/photos/process-all", handleProcessAll(svc))
		r.Post("/photos/{id}/accept", handleAccept(svc))
		r.Get("/queue", handleQueue(svc))
		r.Delete("/queue/{id}", handleRemove(svc))
	})
}

type queueResponse struct {
	Queue []Item `json:"queue"`
}

func writeQueue(w http.ResponseWriter, items []Item) {
	if items == nil {
		items = []Item{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queueResponse{Queue: items})
}

func handleUpload(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, `{"error":"invalid multipart upload"}`, http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		var files []UploadedFile
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				http.Error(w, `{"error":"reading uploaded file"}`, http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, `{"error":"reading uploaded file"}`, http.StatusBadRequest)
				return
			}
			files = append(files, UploadedFile{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		group := r.URL.Query().Get("group") == "true"
		items, err := svc.Enqueue(r.Context(), files, group)
		if err != nil {
			if errors.Is(err, ErrNoImages) {
				http.Error(w, `{"error":"no image files in upload"}`, http.StatusBadRequest)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeQueue(w, items)
	}
}

func handleQueue(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Snapshot(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeQueue(w, items)
	}
}

func handleProcess(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Process(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, ErrBusy) {
				http.Error(w, `{"error":"another photo is already being processed"}`, http.StatusConflict)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(item)
	}
}

func handleProcessAll(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ProcessAll(r.Context())
		if err != nil {
			if errors.Is(err, ErrBusy) {
				http.Error(w, `{"error":"another photo is already being processed"}`, http.StatusConflict)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeQueue(w, items)
	}
}

func handleAccept(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Accept(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(item)
	}
}

func handleRemove(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Remove(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeQueue(w, items)
	}
}
