package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/chat"
	"github.com/vesselkit/seachest/internal/config"
	"github.com/vesselkit/seachest/internal/crew"
	"github.com/vesselkit/seachest/internal/datastore"
	"github.com/vesselkit/seachest/internal/db"
	"github.com/vesselkit/seachest/internal/history"
	"github.com/vesselkit/seachest/internal/inventory"
	"github.com/vesselkit/seachest/internal/offline"
	"github.com/vesselkit/seachest/internal/photoqueue"
	"github.com/vesselkit/seachest/internal/store"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config      *config.Config
	DB          *db.DB
	Store       *store.Store
	Credentials *crew.CredentialStore
	Recorder    *audit.Recorder
	Chat        *chat.Service
	Queue       *photoqueue.Service
	Checker     *offline.Checker
	Logger      *zap.Logger
}

// Server is the seachest HTTP server.
type Server struct {
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server and mounts every feature's routes.
func New(deps Deps) *Server {
	s := &Server{deps: deps}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.deps.Config.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	datastore.RegisterRoutes(r, s.deps.Store, s.deps.Recorder, s.deps.Logger)
	crew.RegisterRoutes(r, s.deps.Store, s.deps.Credentials, s.deps.Recorder, s.deps.Logger)
	history.RegisterRoutes(r, s.deps.Store)
	inventory.RegisterRoutes(r, s.deps.Store)
	chat.RegisterRoutes(r, s.deps.Chat, s.deps.Logger)
	photoqueue.RegisterRoutes(r, s.deps.Queue)
	offline.RegisterRoutes(r, s.deps.Checker, s.deps.Store, s.deps.Config.DataDir, s.deps.Config.Backup.Include, s.deps.Recorder, s.deps.Logger)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.deps.Config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.deps.Logger.Info("seachest server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
