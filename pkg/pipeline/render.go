package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/render"
	"github.com/matzehuels/depviz/pkg/render/dependency/sink"
	"github.com/matzehuels/depviz/pkg/render/latex"
	"github.com/matzehuels/depviz/pkg/render/nodelink"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// render generates the requested formats from a staged layout.
// PDF, PNG and JPEG conversions run concurrently.
func (r *Runner) render(ctx context.Context, in *sentence.Input, s staged, formats []string, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))

	var svg []byte
	if needsSVG(formats) {
		var err error
		if svg, err = r.renderSVG(ctx, s, opts); err != nil {
			return nil, err
		}
	}

	var conversions []string
	for _, format := range formats {
		switch format {
		case FormatSVG:
			out[format] = svg
		case FormatJSON:
			if s.arcs == nil {
				return nil, errors.New(errors.ErrCodeUnsupported, "json layout export is only available for arcs")
			}
			data, err := sink.RenderJSON(s.arcs)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
			}
			out[format] = data
		case FormatLaTeX:
			tex, ok, err := latex.Tikz(in)
			if err != nil {
				return nil, err
			}
			if !ok {
				opts.Logger.Debug("latex export produced no result")
				continue
			}
			out[format] = []byte(tex)
		case FormatDOT:
			dot := s.dot
			if dot == "" {
				dot = nodelink.ToDOT(in, opts.nodelinkOptions())
			}
			out[format] = []byte(dot)
		case FormatPDF, FormatPNG, FormatJPEG:
			conversions = append(conversions, format)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
	}

	if len(conversions) == 0 {
		return out, nil
	}

	conv := r.Converter
	if conv == nil {
		var err error
		if conv, err = render.NewConverter(opts.Converter, opts.Scale); err != nil {
			return nil, err
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range conversions {
		g.Go(func() error {
			hooks := observability.Pipeline()
			hooks.OnExportStart(gctx, format, conv.Name())
			start := time.Now()

			art, err := render.Export(gctx, conv, svg, render.Format(format), "",
				render.ExportOptions{JPEGQuality: opts.JPEGQuality})

			size := 0
			if art != nil {
				size = len(art.Data)
			}
			hooks.OnExportComplete(gctx, format, conv.Name(), size, time.Since(start), err)
			if err != nil {
				return err
			}

			mu.Lock()
			out[format] = art.Data
			mu.Unlock()
			opts.Logger.Debug("converted", "format", format, "converter", conv.Name(), "bytes", size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// renderSVG produces the SVG every image format is derived from.
func (r *Runner) renderSVG(ctx context.Context, s staged, opts Options) ([]byte, error) {
	if s.arcs == nil {
		return nodelink.RenderSVG(ctx, s.dot)
	}
	return sink.RenderSVG(s.arcs, opts.svgOptions()...)
}

func (o *Options) svgOptions() []sink.SVGOption {
	opts := []sink.SVGOption{sink.WithTheme(o.Theme)}
	if o.Interactive {
		opts = append(opts, sink.WithInteraction())
	}
	if o.FontFamily != "" {
		opts = append(opts, sink.WithFontFamily(o.FontFamily))
	}
	if o.EmbedFont {
		opts = append(opts, sink.WithEmbeddedFont())
	}
	return opts
}

func needsSVG(formats []string) bool {
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatPDF, FormatPNG, FormatJPEG:
			return true
		}
	}
	return false
}
