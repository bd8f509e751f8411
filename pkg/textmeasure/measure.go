// Package textmeasure reports the rendered size of text runs.
//
// Layout needs text bounding boxes before anything is drawn, so the
// measurers here stand in for a browser's getBBox. [TrueType] uses real
// glyph advances; [Approx] is a fixed-advance estimate.
package textmeasure

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/depviz/pkg/fonts"
)

// Metrics is the size of one line of text at a font size.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height is ascent plus descent.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Measurer measures single-line text at a font size in user units.
type Measurer interface {
	Measure(text string, size float64) Metrics
}

// Rect is a text bounding box. X and Y are the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Box returns the bounding box of text drawn with its baseline at (x, y).
// Empty text and a nil measurer yield the zero box.
func Box(m Measurer, text string, size, x, y float64) Rect {
	if m == nil || text == "" {
		return Rect{}
	}
	mt := m.Measure(text, size)
	return Rect{X: x, Y: y - mt.Ascent, W: mt.Width, H: mt.Height()}
}

// TrueType measures text with the glyph advances of a TrueType font.
// It is safe for concurrent use.
type TrueType struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewTrueType parses ttf. A nil slice selects the embedded Go Regular font.
func NewTrueType(ttf []byte) (*TrueType, error) {
	if ttf == nil {
		ttf = fonts.RegularTTF()
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &TrueType{font: f, faces: make(map[float64]font.Face)}, nil
}

// Measure implements [Measurer].
func (t *TrueType) Measure(text string, size float64) Metrics {
	if size <= 0 {
		return Metrics{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	face, ok := t.faces[size]
	if !ok {
		// 72 DPI makes one point one user unit.
		face = truetype.NewFace(t.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
		t.faces[size] = face
	}
	fm := face.Metrics()
	return Metrics{
		Width:   fromFixed(font.MeasureString(face, text)),
		Ascent:  fromFixed(fm.Ascent),
		Descent: fromFixed(fm.Descent),
	}
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// DefaultCharWidth is the average advance of a glyph as a fraction of the
// font size.
const DefaultCharWidth = 0.55

// Approx estimates text width from the number of grapheme clusters.
// The zero value uses [DefaultCharWidth].
type Approx struct {
	CharWidth float64
}

// Measure implements [Measurer].
func (a Approx) Measure(text string, size float64) Metrics {
	cw := a.CharWidth
	if cw == 0 {
		cw = DefaultCharWidth
	}
	n := uniseg.GraphemeClusterCount(text)
	return Metrics{
		Width:   float64(n) * size * cw,
		Ascent:  size * 0.8,
		Descent: size * 0.2,
	}
}

var (
	defaultMeasurer     Measurer
	defaultMeasurerOnce sync.Once
)

// Default returns a shared TrueType measurer for the embedded font, or an
// [Approx] measurer if the font cannot be parsed.
func Default() Measurer {
	defaultMeasurerOnce.Do(func() {
		tt, err := NewTrueType(nil)
		if err != nil {
			defaultMeasurer = Approx{}
			return
		}
		defaultMeasurer = tt
	})
	return defaultMeasurer
}
