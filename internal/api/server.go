package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nathaningle/fetch-iplist/internal/log"
)

// Server exposes the current aggregated list over HTTP.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	provider   ListProvider
}

// NewServer creates an API server bound to the given address.
func NewServer(bindAddr string, provider ListProvider) *Server {
	s := &Server{
		provider: provider,
		router:   chi.NewRouter(),
	}

	s.router.Use(Recovery)
	s.router.Use(Logger)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         bindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the configured router. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Get("/list", s.handleList)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// handleList serves the aggregated list in the same plain-text format that
// gets published to the destination file.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	snapshot := s.provider.Snapshot()
	if snapshot.LastRefresh.IsZero() {
		WriteNotReady(w, "No list assembled yet")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, snapshot.Text)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(statusFromSnapshot(s.provider.Snapshot()))
}

// handleRefresh triggers an immediate fetch/aggregate/publish cycle and
// reports the resulting state.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.Refresh(r.Context()); err != nil {
		log.Errorf("Refresh via API failed: %v", err)
		WriteServiceError(w, fmt.Sprintf("refresh failed: %v", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(statusFromSnapshot(s.provider.Snapshot()))
}

// Start starts the API server and blocks until it is shut down.
func (s *Server) Start() error {
	log.Infof("[API] Starting server on %s", s.httpServer.Addr)
	log.Infof("[API] Example: curl http://%s/api/v1/status", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the API server.
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
