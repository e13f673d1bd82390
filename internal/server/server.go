// Package server implements the forcemap HTTP API.
//
// The server exposes the visualization pipeline over REST: clients POST
// entity sets to /v1/layouts, the pipeline computes a layout, and the
// result is persisted under a generated ID for later retrieval as JSON
// or SVG. A health endpoint reports uptime for load balancers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/knotworks/forcemap/pkg/pipeline"
	"github.com/knotworks/forcemap/pkg/store"
)

const shutdownTimeout = 30 * time.Second

// Config holds the server configuration.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// Server serves the forcemap HTTP API.
type Server struct {
	addr      string
	runner    *pipeline.Runner
	store     store.Store
	logger    *log.Logger
	startTime time.Time
}

// New creates a server. A nil store falls back to in-memory storage;
// a nil logger falls back to the default logger.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &Server{
		addr:      cfg.Addr,
		runner:    cfg.Runner,
		store:     cfg.Store,
		logger:    cfg.Logger,
		startTime: time.Now(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreateLayout)
		r.Get("/{id}", s.handleGetLayout)
		r.Get("/{id}/svg", s.handleGetLayoutSVG)
	})
	return r
}

// Run starts the server and blocks until ctx is cancelled, then shuts
// down gracefully, draining in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
