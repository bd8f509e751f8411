package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/pipeline"
)

const dogsBark = `{
  "sentence": "Dogs bark",
  "nodes": [{"position": 0, "text": "Dogs"}, {"position": 1, "text": "bark"}],
  "table": [
    {"categories": {"text": "Dogs", "lemma": "dog", "pos": "NOUN"}},
    {"categories": {"text": "bark", "lemma": "bark", "pos": "VERB"}}
  ],
  "links": [
    {"source": 1, "target": 0, "dependency": "nsubj", "id": "arc_1_dep_0"},
    {"source": 1, "target": 1, "dependency": "root", "id": "nr_1_1"}
  ]
}`

const dogsBarkCoNLLU = "# text = Dogs bark\n" +
	"1\tDogs\tdog\tNOUN\t_\t_\t2\tnsubj\t_\t_\n" +
	"2\tbark\tbark\tVERB\t_\t_\t0\troot\t_\t_\n"

func newTestServer(t *testing.T, c cache.Cache, opts Options) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(c, nil, logger), logger, opts)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body.Error
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	rec := do(t, s, http.MethodGet, "/healthz", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantType    string
		wantBody    string
	}{
		{"svg default", "/api/v1/render", "application/json", dogsBark, "image/svg+xml", "<svg"},
		{"layout json", "/api/v1/render?format=json", "application/json", dogsBark, "application/json", "{"},
		{"latex", "/api/v1/render?format=latex", "application/json", dogsBark, "application/x-latex", `\begin{dependency}`},
		{"dot", "/api/v1/render?format=dot&viz=nodelink", "application/json", dogsBark, "text/vnd.graphviz", "digraph"},
		{"conllu body", "/api/v1/render?select=1&width=600", "text/plain", dogsBarkCoNLLU, "image/svg+xml", "<svg"},
		{"conllu param", "/api/v1/render?input=conllu&interactive=true", "", dogsBarkCoNLLU, "image/svg+xml", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, Options{})
			rec := do(t, s, http.MethodPost, tt.target, tt.contentType, tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %.60q does not contain %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("X-Cache") != "miss" {
				t.Errorf("X-Cache = %q, want miss", rec.Header().Get("X-Cache"))
			}
		})
	}
}

func TestRenderCacheHeader(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, c, Options{})

	first := do(t, s, http.MethodPost, "/api/v1/render", "application/json", dogsBark)
	second := do(t, s, http.MethodPost, "/api/v1/render", "application/json", dogsBark)

	if first.Header().Get("X-Cache") != "miss" || second.Header().Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q then %q, want miss then hit",
			first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached response differs")
	}
}

func TestRenderFilename(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(t, s, http.MethodPost, "/api/v1/render?filename=tree", "application/json", dogsBark)
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=tree.svg` {
		t.Errorf("Content-Disposition = %q", got)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/render?filename=../etc/passwd", "application/json", dogsBark)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", "/api/v1/render", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/api/v1/render?format=gif", dogsBark, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"two formats", "/api/v1/render?format=svg,png", dogsBark, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad width", "/api/v1/render?width=wide", dogsBark, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad select", "/api/v1/render?select=1,x", dogsBark, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad viz", "/api/v1/render?viz=tower", dogsBark, http.StatusBadRequest, errors.ErrCodeInvalidVizType},
		{"nodelink json", "/api/v1/render?viz=nodelink&format=json", dogsBark, http.StatusNotImplemented, errors.ErrCodeUnsupported},
		{"malformed id", "/api/v1/render", strings.Replace(dogsBark, "arc_1_dep_0", "edge", 1), http.StatusBadRequest, errors.ErrCodeMalformedLinkID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, Options{})
			rec := do(t, s, http.MethodPost, tt.target, "application/json", tt.body)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeError(t, rec); got.Code != tt.code || got.Message == "" {
				t.Errorf("error = %+v, want code %s", got, tt.code)
			}
		})
	}
}

func TestLaTeX(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(t, s, http.MethodPost, "/api/v1/latex", "application/json", dogsBark)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `\depedge{2}{1}{nsubj}`) {
		t.Errorf("latex missing edge:\n%s", rec.Body.String())
	}

	noLinks := `{"sentence": "x", "nodes": [{"position": 0, "text": "x"}]}`
	rec = do(t, s, http.MethodPost, "/api/v1/latex", "application/json", noLinks)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 for missing links", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("204 should have no body, got %q", rec.Body.String())
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(t, s, http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != errors.ErrCodeNotFound {
		t.Errorf("unknown route: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/render", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET render: status %d, want 405", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request ID = %q", id)
	}

	const given = "6f1c1e9a-3f4b-4c1e-9d7a-2b1f0e3c4d5a"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, given)
	out := httptest.NewRecorder()
	s.ServeHTTP(out, req)
	if got := out.Header().Get(RequestIDHeader); got != given {
		t.Errorf("request ID = %q, want %q echoed", got, given)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	out = httptest.NewRecorder()
	s.ServeHTTP(out, req)
	if got := out.Header().Get(RequestIDHeader); got == "not a uuid" {
		t.Error("malformed request ID should be replaced")
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, nil, Options{MaxBodyBytes: 32})
	rec := do(t, s, http.MethodPost, "/api/v1/render", "application/json", dogsBark)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413 (%s)", rec.Code, rec.Body.String())
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, nil, Options{})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, l, time.Second)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
