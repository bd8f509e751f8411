// Package fonts provides the font used to measure and draw dependency trees.
//
// The Go Regular TrueType font ships with golang.org/x/image, so the same
// glyph metrics are available to the layout engine and to rendered SVG
// without external files.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the TTF data as a base64 string for embedding
// in an SVG @font-face rule. The result is cached after first computation.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily is used when the embedded font is not loaded.
const FallbackFontFamily = `'Go', 'DejaVu Sans', Arial, Helvetica, sans-serif`
