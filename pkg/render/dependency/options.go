package dependency

import "github.com/matzehuels/depviz/pkg/textmeasure"

const (
	DefaultTokenFontSize = 16.0
	DefaultLabelFontSize = 12.0
)

// Option configures a layout pass.
type Option func(*config)

type config struct {
	measurer      textmeasure.Measurer
	bounds        ScaleBounds
	shouldShorten func(distance int) bool
	selection     *Selection
	zoom          Zoom
	tokenFontSize float64
	labelFontSize float64
}

func newConfig(opts ...Option) config {
	c := config{
		bounds:        DefaultScaleBounds,
		shouldShorten: NeverShorten,
		zoom:          IdentityZoom(),
		tokenFontSize: DefaultTokenFontSize,
		labelFontSize: DefaultLabelFontSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.measurer == nil {
		c.measurer = textmeasure.Default()
	}
	return c
}

// WithMeasurer sets the text measurer. The default measures with the
// embedded TrueType font.
func WithMeasurer(m textmeasure.Measurer) Option {
	return func(c *config) { c.measurer = m }
}

// WithScaleBounds sets the clamp range of the fit scale.
func WithScaleBounds(b ScaleBounds) Option {
	return func(c *config) { c.bounds = b }
}

// WithShortening sets the predicate deciding which token distances get a
// widened arc radius. A nil predicate restores [NeverShorten].
func WithShortening(fn func(distance int) bool) Option {
	return func(c *config) {
		if fn == nil {
			fn = NeverShorten
		}
		c.shouldShorten = fn
	}
}

// WithSelection applies the resolved selection as highlight classes.
func WithSelection(s *Selection) Option {
	return func(c *config) { c.selection = s }
}

// WithZoom sets the zoom transform of the image group.
func WithZoom(z Zoom) Option {
	return func(c *config) { c.zoom = z }
}

// WithFontSizes sets the token and relation label font sizes. Non-positive
// values keep the defaults.
func WithFontSizes(token, label float64) Option {
	return func(c *config) {
		if token > 0 {
			c.tokenFontSize = token
		}
		if label > 0 {
			c.labelFontSize = label
		}
	}
}
