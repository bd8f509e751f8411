package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/render/nodelink"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// staged is the output of the layout stage: an arc scene, or a DOT graph
// for nodelink.
type staged struct {
	arcs *dependency.Result
	dot  string
}

// layout runs the layout stage for the configured visualization type.
func (r *Runner) layout(ctx context.Context, in *sentence.Input, opts Options) (staged, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, in.TokenCount(), len(in.Links))
	start := time.Now()

	var (
		s   staged
		err error
	)
	if opts.IsNodelink() {
		s.dot = nodelink.ToDOT(in, opts.nodelinkOptions())
	} else {
		engine := r.Engine
		if engine == nil {
			engine = dependency.NewEngine()
		}
		s.arcs, err = engine.Layout(in, opts.Viewport(), opts.layoutOptions(in)...)
	}

	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	return s, err
}

// layoutOptions translates the pipeline options into arc layout options.
func (o *Options) layoutOptions(in *sentence.Input) []dependency.Option {
	opts := []dependency.Option{
		dependency.WithScaleBounds(dependency.ScaleBounds{Min: o.MinScale, Max: o.MaxScale}),
		dependency.WithZoom(o.Zoom()),
	}
	if len(o.Selected) > 0 {
		opts = append(opts, dependency.WithSelection(dependency.NewSelection(o.Selected...)))
	}
	if o.Shorten {
		opts = append(opts, dependency.WithShortening(dependency.OutlierDistances(in.Links)))
	}
	return opts
}

func (o *Options) nodelinkOptions() nodelink.Options {
	return nodelink.Options{Detailed: o.Detailed, MatchColor: o.Theme.Match}
}
