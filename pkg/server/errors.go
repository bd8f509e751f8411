package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/depviz/pkg/errors"
)

// handlerFunc is an http.HandlerFunc that returns an error instead of
// writing it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// handle adapts h into an http.HandlerFunc. Returned errors are logged and
// written as JSON unless the handler already started the response.
// errors.ErrNoResult answers 204 No Content.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if stderrors.Is(err, errors.ErrNoResult) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		status, body := s.classify(err)
		logger := loggerFrom(r.Context(), s.logger)
		if status >= 500 {
			logger.Error("request failed", "status", status, "err", err)
		} else {
			logger.Warn("request rejected", "status", status, "err", err)
		}

		if ww, ok := w.(*responseWriter); ok && ww.Written() {
			return
		}
		writeJSON(w, status, body)
	}
}

// classify maps err to a status code and error body.
func (s *Server) classify(err error) (int, errorBody) {
	var maxBytes *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, errorBody{errorDetail{
			Code:    errors.ErrCodeInvalidInput,
			Message: "request body too large",
		}}
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorBody{errorDetail{
			Code:    errors.ErrCodeTimeout,
			Message: "request timed out",
		}}
	}

	code := errors.GetCode(err)
	if code == "" {
		return http.StatusInternalServerError, errorBody{errorDetail{
			Code:    errors.ErrCodeInternal,
			Message: http.StatusText(http.StatusInternalServerError),
		}}
	}
	status := errors.HTTPStatus(code)
	msg := errors.UserMessage(err)
	if status >= 500 && code == errors.ErrCodeInternal {
		msg = http.StatusText(status)
	}
	return status, errorBody{errorDetail{Code: code, Message: msg}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{errorDetail{
		Code:    errors.ErrCodeUnsupported,
		Message: r.Method + " not allowed on " + r.URL.Path,
	}})
	return nil
}
