// Package render converts rendered SVG into the other export formats.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg). [Chrome]
// screenshots the SVG with headless Chrome instead, which also runs the
// embedded CSS the way a browser would. [ToJPEG] flattens a PNG onto white
// and re-encodes it.
//
//	svg, _ := sink.RenderSVG(res)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Export
//
// [Export] wraps a conversion into a named [Artifact] ready to be written to
// disk or sent over HTTP, defaulting to the file name "visualisation.<ext>".
//
//	art, err := render.Export(ctx, render.RSVG{}, svg, render.FormatPNG, "")
//
// The tree layout itself lives in [dependency], the tikz-dependency
// exporter in [latex] and the Graphviz view in [nodelink].
//
// [dependency]: github.com/matzehuels/depviz/pkg/render/dependency
// [latex]: github.com/matzehuels/depviz/pkg/render/latex
// [nodelink]: github.com/matzehuels/depviz/pkg/render/nodelink
package render
