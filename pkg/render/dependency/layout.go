package dependency

import (
	"sync"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/render/scene"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// Result is a laid-out tree together with the metrics of the pass.
type Result struct {
	// Scene is the root "image" group.
	Scene *scene.Group

	// Links are the input links, for sinks that need the relation graph.
	Links []sentence.Link

	Viewport      Viewport
	TokenCenters  []float64
	TokenExtent   float64
	TokenHeight   float64
	PreRootHeight float64
	ArcHeight     float64
	Scale         float64
	OffsetX       float64
	Highlight     Highlight
}

// Layout lays out in for the viewport. The input is only read.
//
// Links must reference existing token positions and carry well-formed ids;
// otherwise Layout fails with an INVALID_INPUT or MALFORMED_LINK_ID error.
// A nil link list lays out the tokens alone.
func Layout(in *sentence.Input, vp Viewport, opts ...Option) (*Result, error) {
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sentence to lay out")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts...)
	hl := cfg.selection.Resolve(in.Links)

	tokens := layoutTokens(in, cfg, hl)
	arcs := layoutArcs(in, cfg, hl, tokens.centers)
	scale, offsetX := Fit(vp, tokens.extent, tokens.height, arcs.height, cfg.bounds)

	movable := scene.NewGroup("movable")
	movable.Transform = scene.Transform{TX: offsetX, TY: arcs.height}
	movable.Append(tokens.group, arcs.group)

	canvas := scene.NewGroup("canvas")
	canvas.Transform = scene.Transform{Scale: scale}
	canvas.Append(movable)

	image := scene.NewGroup("image")
	image.Transform = cfg.zoom.Transform()
	image.Append(canvas)

	return &Result{
		Scene:         image,
		Links:         in.Links,
		Viewport:      vp,
		TokenCenters:  tokens.centers,
		TokenExtent:   tokens.extent,
		TokenHeight:   tokens.height,
		PreRootHeight: arcs.preRootHeight,
		ArcHeight:     arcs.height,
		Scale:         scale,
		OffsetX:       offsetX,
		Highlight:     hl,
	}, nil
}

// Engine runs layout passes one at a time with a fixed set of default
// options. It is safe for concurrent use.
type Engine struct {
	mu   sync.Mutex
	opts []Option
}

// NewEngine returns an engine applying opts to every pass.
func NewEngine(opts ...Option) *Engine {
	return &Engine{opts: opts}
}

// Layout runs [Layout] with the engine's options followed by opts.
func (e *Engine) Layout(in *sentence.Input, vp Viewport, opts ...Option) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make([]Option, 0, len(e.opts)+len(opts))
	all = append(all, e.opts...)
	all = append(all, opts...)
	return Layout(in, vp, all...)
}
