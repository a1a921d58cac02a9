// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /v1/renders       render a frame from the request body
//	GET  /v1/renders/{id}  replay an archived render
//	GET  /healthz          liveness probe
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/glitchid/pkg/buildinfo"
	"github.com/matzehuels/glitchid/pkg/pipeline"
	"github.com/matzehuels/glitchid/pkg/store"
	"github.com/matzehuels/glitchid/pkg/surface"
)

// Defaults for zero Config fields.
const (
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// DefaultIdentity is used when a request names nobody.
	DefaultIdentity string
	// DefaultFormat is used when a request has no format parameter.
	DefaultFormat string
	Size          int
	Workers       int

	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Surface overrides the drawing surface, mainly for tests.
	Surface surface.Factory
}

// Server handles render requests.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. Nil dependencies get in-memory defaults.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore(0)
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = pipeline.FormatPNG
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.ServerHeader()))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/renders", func(r chi.Router) {
		r.Post("/", s.handleCreateRender)
		r.Get("/{id}", s.handleGetRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. A completed shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner and store.
func (s *Server) Close() error {
	return errors.Join(s.runner.Close(), s.store.Close())
}
