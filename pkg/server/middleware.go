package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

// requestID reuses a well-formed incoming X-Request-ID or generates one,
// and echoes it on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the identifier assigned to the request in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func loggerFrom(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return fallback
}

// responseWriter records the status and size of a response.
type responseWriter struct {
	rw http.ResponseWriter

	written bool
	status  int
	length  int
}

func (rw *responseWriter) Header() http.Header {
	return rw.rw.Header()
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.written = true
		rw.status = statusCode
	}
	rw.rw.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if !rw.written && len(p) > 0 {
		rw.written = true
		if rw.status == 0 {
			rw.status = http.StatusOK
		}
	}
	rw.length += len(p)
	return rw.rw.Write(p)
}

func (rw *responseWriter) Written() bool {
	return rw.written
}

// logRequests logs one line per request, recovers panics and reports the
// request to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With("request_id", RequestID(r.Context()))
		ctx := context.WithValue(r.Context(), loggerKey, logger)
		r = r.WithContext(ctx)

		rw := &responseWriter{rw: w}
		start := time.Now()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("caught panic", "panic", rec, "stack", string(debug.Stack()))
				if !rw.Written() {
					writeJSON(rw, http.StatusInternalServerError, errorBody{errorDetail{
						Code:    errors.ErrCodeInternal,
						Message: http.StatusText(http.StatusInternalServerError),
					}})
				}
			}

			if rw.status == 0 {
				rw.status = http.StatusOK
			}
			dur := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			observability.HTTP().OnResponse(ctx, r.Method, route, rw.status, dur)

			kv := []any{"method", r.Method, "path", r.URL.Path, "status", rw.status, "bytes", rw.length, "duration", dur}
			switch {
			case rw.status >= 500:
				logger.Error("request", kv...)
			case rw.status >= 400:
				logger.Warn("request", kv...)
			default:
				logger.Info("request", kv...)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}
