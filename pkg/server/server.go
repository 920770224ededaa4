// Package server exposes the render pipeline over HTTP.
//
// # Endpoints
//
//	GET    /healthz                         liveness and build information
//	POST   /api/renders?formats=svg,obj     render a board document
//	GET    /api/renders/{id}                render session metadata
//	GET    /api/renders/{id}/{artifact}     one rendered artifact
//	DELETE /api/renders/{id}                discard a render session
//
// A render request body is a board document (see package io). Query
// parameters override the server's render defaults: formats, scale,
// resolution and shadow. Rendered artifacts are kept in a [session.Store]
// until the session expires.
//
// Errors are returned as
//
//	{"error": {"code": "INVALID_INPUT", "message": "..."}}
//
// with the status from [errors.HTTPStatus].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackup/pkg/audit"
	"github.com/matzehuels/stackup/pkg/pipeline"
	"github.com/matzehuels/stackup/pkg/session"
)

// Default limits.
const (
	DefaultMaxUpload  = 32 << 20
	DefaultSessionTTL = session.DefaultTTL
	shutdownTimeout   = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	// Render holds the defaults for every render; Document is ignored.
	Render pipeline.Options
	// SessionTTL is the lifetime of a render session.
	SessionTTL time.Duration
	// MaxUpload bounds the request body in bytes.
	MaxUpload int64
	// Audit receives request events; nil discards them.
	Audit audit.Sink
	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	audit    audit.Sink
	logger   *log.Logger
	opts     Options
	router   chi.Router
}

// New creates a server rendering through runner and storing results in
// sessions.
func New(runner *pipeline.Runner, sessions session.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	if opts.Audit == nil {
		opts.Audit = audit.NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		sessions: sessions,
		audit:    opts.Audit,
		logger:   opts.Logger,
		opts:     opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/renders", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/{artifact}", s.handleArtifact)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
