// Package server exposes route search over HTTP.
//
// Endpoints:
//
//	POST /v1/search   run a search, respond with the outcome as JSON
//	POST /v1/render   run an optional search, respond with DOT or SVG
//	GET  /healthz     liveness
//	GET  /metrics     Prometheus metrics, when a handler is configured
//
// Request bodies carry the graph inline, either as the JSON document of
// graph.ReadJSON under "graph" or as edge-list text under "edge_list":
//
//	{"edge_list": "A B\nB C", "start": "A", "goal": "C", "max_depth": 5}
//
// A search that exhausts its depth bound is a normal answer (200 with
// "found": false). Unknown start or goal nodes answer 404, malformed input
// 400. A search that hits the runner's visit limit answers 422 and one
// that outlives Config.SearchTimeout answers 503.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waypoint/pkg/pipeline"
)

// Config configures the HTTP listener.
type Config struct {
	Addr         string
	MaxBodyBytes int64

	// SearchTimeout bounds the work of one /v1 request; zero disables it.
	SearchTimeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 4 << 20

// Server serves the search API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	cfg     Config
	metrics http.Handler
	router  chi.Router
}

// New creates a server around runner. metrics may be nil, in which case
// /metrics is not mounted.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config, metrics http.Handler) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		cfg:     cfg,
		metrics: metrics,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.searchDeadline)
		r.Post("/search", s.handleSearch)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
