// Package server exposes the depviz pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz         liveness check
//	POST /api/v1/render   sentence in, one rendered artifact out
//	POST /api/v1/latex    sentence in, tikz-dependency source out (204 when empty)
//
// Request bodies are sentence JSON, or CoNLL-U when the Content-Type is
// text/plain or the query has input=conllu. Every response carries an
// X-Request-ID header; failures are JSON objects of the form
// {"error": {"code": "...", "message": "..."}}.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/depviz/pkg/pipeline"
)

// Options configures the service.
type Options struct {
	// Defaults seeds the pipeline options of every request.
	Defaults pipeline.Options

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server serves the render API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = time.Minute
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handle(s.healthz))
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handle(s.render))
		r.Post("/latex", s.handle(s.latex))
	})
	r.NotFound(s.handle(notFound))
	r.MethodNotAllowed(s.handle(methodNotAllowed))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server with the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		MaxHeaderBytes:    1 << 18,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
		Handler:           s,
	}
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) Serve(ctx context.Context, l net.Listener, shutdownTimeout time.Duration) error {
	hs := s.HTTPServer()
	// In-flight requests outlive ctx until Shutdown gives up on them.
	base := context.WithoutCancel(ctx)
	hs.BaseContext = func(net.Listener) context.Context {
		return base
	}

	done := make(chan error, 1)
	go func() {
		done <- hs.Serve(l)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(ctx)
	}
}
