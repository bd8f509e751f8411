package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/render"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, engine and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Engine lays out arc diagrams. Nil uses a default engine.
	Engine *dependency.Engine

	// Converter overrides the converter named in Options.Converter.
	Converter render.Converter
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Engine: dependency.NewEngine(),
	}
}

// Execute runs the complete validate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, in *sentence.Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	// Stage 1: Validate
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sentence given")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	data, err := sentence.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash input")
	}

	result := &Result{
		InputHash: cache.Hash(data),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.TokenCount = in.TokenCount()
	result.Stats.LinkCount = len(in.Links)
	layoutHash := cache.Hash([]byte(r.Keyer.LayoutKey(result.InputHash, opts.LayoutKeyOpts())))

	missing := r.lookup(ctx, result, layoutHash, opts)
	if len(missing) == 0 {
		result.CacheInfo.RenderHit = true
		opts.Logger.Debug("all artifacts cached", "formats", opts.Formats)
		return result, nil
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	staged, err := r.layout(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = staged.arcs
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"viz", opts.VizType,
		"tokens", result.Stats.TokenCount,
		"links", result.Stats.LinkCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)
	rendered, err := r.render(ctx, in, staged, missing, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, missing, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	for format, data := range rendered {
		result.Artifacts[format] = data
		key := r.artifactKey(result.InputHash, layoutHash, format, opts)
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	opts.Logger.Info("rendered outputs",
		"formats", missing,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookup fills result with cached artifacts and returns the formats that
// still need rendering, in request order.
func (r *Runner) lookup(ctx context.Context, result *Result, layoutHash string, opts Options) []string {
	var missing []string
	for _, format := range opts.Formats {
		if slices.Contains(missing, format) || result.Artifacts[format] != nil {
			continue
		}
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.artifactKey(result.InputHash, layoutHash, format, opts)
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Artifacts[format] = data
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	return missing
}

// artifactKey keys LaTeX and DOT by the input alone since no layout option
// changes them.
func (r *Runner) artifactKey(inputHash, layoutHash, format string, opts Options) string {
	base := layoutHash
	if format == FormatLaTeX || format == FormatDOT {
		base = inputHash
	}
	return r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
}

// Layout computes the arc layout for in without rendering or caching.
func (r *Runner) Layout(ctx context.Context, in *sentence.Input, opts Options) (*dependency.Result, error) {
	opts.VizType = VizTypeArcs
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sentence given")
	}
	staged, err := r.layout(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	return staged.arcs, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}
