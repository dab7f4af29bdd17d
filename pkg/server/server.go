// Package server exposes the scene pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build information
//	GET  /v1/keywords    the keyword table as JSON
//	POST /v1/render      scene document in, artifact out
//	POST /v1/inspect     binary scene in, section tree out as JSON
//
// Render takes the output format from ?format= (ldr, bdr, dot, svg, png,
// pdf) and the scene syntax from ?scene= or the Content-Type header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ldraw/pkg/pipeline"
)

// DefaultMaxBody limits request bodies.
const DefaultMaxBody = 8 << 20

// Server routes requests to a pipeline runner.
type Server struct {
	router  chi.Router
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBody sets the request body limit in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithTimeout bounds the time spent on one request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBody,
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/keywords", s.handleKeywords)
		r.Post("/render", s.handleRender)
		r.Post("/inspect", s.handleInspect)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
