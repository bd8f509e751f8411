package server

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/depviz/pkg/buildinfo"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/pipeline"
	"github.com/matzehuels/depviz/pkg/sentence"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
	return nil
}

// render answers with one artifact in the requested format.
//
// Query parameters: format (default svg), width, height, select (comma
// separated token positions), viz (arcs or nodelink), interactive and
// filename, which adds a Content-Disposition attachment header.
func (s *Server) render(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	format := pipeline.FormatSVG
	if v := q.Get("format"); v != "" {
		formats := pipeline.ParseFormats(v)
		if len(formats) != 1 {
			return errors.New(errors.ErrCodeInvalidFormat, "exactly one format is required, got %q", v)
		}
		format = formats[0]
	}

	opts, err := s.requestOptions(q)
	if err != nil {
		return err
	}
	opts.Formats = []string{format}

	in, err := s.readInput(w, r)
	if err != nil {
		return err
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()
	res, err := s.runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}

	data, ok := res.Artifacts[format]
	if !ok {
		// Only LaTeX can come back empty.
		return errors.ErrNoResult
	}

	if name := q.Get("filename"); name != "" {
		if err := errors.ValidateFilename(name); err != nil {
			return err
		}
		if filepath.Ext(name) == "" {
			name += pipeline.Extensions[format]
		}
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	writeArtifact(w, format, data, res.CacheInfo.RenderHit)
	return nil
}

// latex answers with the tikz-dependency source, or 204 when the input has
// no sentence or no link list.
func (s *Server) latex(w http.ResponseWriter, r *http.Request) error {
	in, err := s.readInput(w, r)
	if err != nil {
		return err
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()
	opts := s.opts.Defaults
	opts.Formats = []string{pipeline.FormatLaTeX}
	res, err := s.runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}

	data, ok := res.Artifacts[pipeline.FormatLaTeX]
	if !ok {
		return errors.ErrNoResult
	}
	writeArtifact(w, pipeline.FormatLaTeX, data, res.CacheInfo.RenderHit)
	return nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	ct := pipeline.ContentTypes[format]
	if strings.HasPrefix(ct, "text/") || format == pipeline.FormatLaTeX || format == pipeline.FormatSVG {
		ct += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// requestOptions layers query parameters over the server defaults.
func (s *Server) requestOptions(q map[string][]string) (pipeline.Options, error) {
	opts := s.opts.Defaults
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
	} {
		v := get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number, got %q", p.name, v)
		}
		*p.dst = f
	}

	if v := get("select"); v != "" {
		opts.Selected = nil
		for _, part := range strings.Split(v, ",") {
			pos, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || pos < 0 {
				return opts, errors.New(errors.ErrCodeInvalidInput, "select must list token positions, got %q", v)
			}
			opts.Selected = append(opts.Selected, pos)
		}
	}
	if v := get("viz"); v != "" {
		opts.VizType = v
	}
	if v := get("interactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "interactive must be a boolean, got %q", v)
		}
		opts.Interactive = b
	}
	return opts, nil
}

// readInput decodes the request body as sentence JSON or CoNLL-U.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (*sentence.Input, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	defer body.Close()

	if isCoNLLU(r) {
		return sentence.ReadCoNLLU(body)
	}
	// Decode errors wrap *http.MaxBytesError when the limit is hit, which
	// the error handler reports as 413.
	return sentence.ReadJSON(body)
}

func isCoNLLU(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("input"), "conllu") {
		return true
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "text/plain" || mt == "text/x-conllu"
}

func (s *Server) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
