// Package pipeline provides the core visualization pipeline for depviz.
//
// This package implements the complete validate → layout → render pipeline
// used by both the CLI and the HTTP service. By centralizing this logic,
// both entry points cache, log and name artifacts the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: Check link endpoints and identifiers of the input sentence
//  2. Layout: Compute the arc diagram scene (or the DOT graph for nodelink)
//  3. Render: Generate output in the requested formats (SVG, JSON, LaTeX,
//     DOT, PDF, PNG, JPEG)
//
// Raster and PDF conversions run concurrently. Every artifact is cached under
// a key derived from the input hash and the options that affect it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats:  []string{"svg", "latex"},
//	    Selected: []int{2},
//	}
//	result, err := runner.Execute(ctx, in, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/render"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/render/dependency/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 400.0

	// DefaultMinScale and DefaultMaxScale bound the fitted scale.
	DefaultMinScale = 0.5
	DefaultMaxScale = 1.5

	// DefaultPNGScale is the raster scale factor for PNG and JPEG.
	DefaultPNGScale = 2.0

	// DefaultConverter is the SVG converter used for PDF, PNG and JPEG.
	DefaultConverter = "rsvg"
)

// discard is the logger options fall back to when none is set.
// A Runner replaces it with its own logger.
var discard = log.NewWithOptions(io.Discard, log.Options{})

// Visualization types.
const (
	VizTypeArcs     = "arcs"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeArcs

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatJSON  = "json"
	FormatLaTeX = "latex"
	FormatDOT   = "dot"
	FormatPDF   = "pdf"
	FormatPNG   = "png"
	FormatJPEG  = "jpeg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatLaTeX: true,
	FormatDOT:   true,
	FormatPDF:   true,
	FormatPNG:   true,
	FormatJPEG:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeArcs:     true,
	VizTypeNodelink: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:   render.FormatSVG.ContentType(),
	FormatJSON:  "application/json",
	FormatLaTeX: "application/x-latex",
	FormatDOT:   "text/vnd.graphviz",
	FormatPDF:   render.FormatPDF.ContentType(),
	FormatPNG:   render.FormatPNG.ContentType(),
	FormatJPEG:  render.FormatJPEG.ContentType(),
}

// Extensions maps output formats to file extensions.
var Extensions = map[string]string{
	FormatSVG:   ".svg",
	FormatJSON:  ".json",
	FormatLaTeX: ".tex",
	FormatDOT:   ".dot",
	FormatPDF:   ".pdf",
	FormatPNG:   ".png",
	FormatJPEG:  ".jpg",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	VizType  string  `json:"viz_type,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	MinScale float64 `json:"min_scale,omitempty"`
	MaxScale float64 `json:"max_scale,omitempty"`
	ZoomK    float64 `json:"zoom_k,omitempty"` // 0 means identity
	ZoomX    float64 `json:"zoom_x,omitempty"`
	ZoomY    float64 `json:"zoom_y,omitempty"`
	Selected []int   `json:"selected,omitempty"`
	Shorten  bool    `json:"shorten,omitempty"` // Widen arcs spanning outlier distances

	// Render options
	Formats     []string   `json:"formats,omitempty"`
	Interactive bool       `json:"interactive,omitempty"` // Embed the selection script in SVG
	Theme       sink.Theme `json:"theme,omitempty"`
	FontFamily  string     `json:"font_family,omitempty"`
	EmbedFont   bool       `json:"embed_font,omitempty"`
	Detailed    bool       `json:"detailed,omitempty"` // Lemma and POS in nodelink labels

	// Export options
	Converter   string  `json:"converter,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	JPEGQuality int     `json:"jpeg_quality,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"` // Bypass cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// InputHash is the content hash of the input sentence.
	InputHash string

	// Layout is the computed arc layout. It is nil for nodelink runs and
	// when every artifact came from the cache.
	Layout *dependency.Result

	// Artifacts contains rendered outputs keyed by format. LaTeX is absent
	// when the exporter had nothing to produce.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TokenCount int
	LinkCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hits      []string // Formats served from the cache
	RenderHit bool     // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, latex, dot, pdf, png, jpeg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: arcs, nodelink)", vizType)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, lowercases the names
// and maps the "jpg" alias to jpeg. Duplicates are dropped.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "jpg" {
			f = FormatJPEG
		}
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()

	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.IsNodelink() && slices.Contains(o.Formats, FormatJSON) {
		return errors.New(errors.ErrCodeUnsupported, "json layout export is only available for arcs")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.MinScale <= 0 || o.MinScale > o.MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale bounds [%g, %g]", o.MinScale, o.MaxScale)
	}
	if o.JPEGQuality < 0 || o.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality %d out of range 1-100", o.JPEGQuality)
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MinScale == 0 {
		o.MinScale = DefaultMinScale
	}
	if o.MaxScale == 0 {
		o.MaxScale = DefaultMaxScale
	}
	if o.Logger == nil {
		o.Logger = discard
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Converter == "" {
		o.Converter = DefaultConverter
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = render.DefaultJPEGQuality
	}
	if o.Logger == nil {
		o.Logger = discard
	}
}

// IsArcs returns true if this is an arc diagram.
func (o *Options) IsArcs() bool {
	return o.VizType == "" || o.VizType == VizTypeArcs
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// Viewport returns the layout viewport.
func (o *Options) Viewport() dependency.Viewport {
	return dependency.Viewport{Width: o.Width, Height: o.Height}
}

// Zoom returns the zoom transform; a zero ZoomK is the identity.
func (o *Options) Zoom() dependency.Zoom {
	if o.ZoomK == 0 {
		return dependency.IdentityZoom()
	}
	return dependency.Zoom{K: o.ZoomK, X: o.ZoomX, Y: o.ZoomY}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	z := o.Zoom()
	sel := slices.Clone(o.Selected)
	slices.Sort(sel)
	return cache.LayoutKeyOpts{
		VizType:  o.VizType,
		Width:    o.Width,
		Height:   o.Height,
		MinScale: o.MinScale,
		MaxScale: o.MaxScale,
		ZoomK:    z.K,
		ZoomX:    z.X,
		ZoomY:    z.Y,
		Selected: slices.Compact(sel),
		Shorten:  o.Shorten,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only the options that influence the given format are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatLaTeX, FormatJSON:
		return k
	case FormatDOT:
		k.Theme = o.Theme.Match
		k.Detailed = o.Detailed
		return k
	}

	if o.IsNodelink() {
		k.Theme = o.Theme.Match
		k.Detailed = o.Detailed
	} else {
		t := o.Theme
		k.Theme = fmt.Sprintf("%s|%s|%s|%s|%s|%t", t.Path, t.Match, t.Selected, t.Token, o.FontFamily, o.EmbedFont)
		k.Interactive = o.Interactive
	}
	switch format {
	case FormatPDF:
		k.Converter = o.Converter
	case FormatPNG:
		k.Converter, k.Scale = o.Converter, o.Scale
	case FormatJPEG:
		k.Converter, k.Scale, k.Quality = o.Converter, o.Scale, o.JPEGQuality
	}
	return k
}
