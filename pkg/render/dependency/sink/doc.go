// Package sink serialises laid-out dependency trees.
//
//   - [RenderSVG]: standalone SVG with embedded CSS and an optional
//     hover/click script that toggles the highlight classes in a browser
//   - [RenderJSON]: layout metrics and positioned primitives
//
// Basic usage:
//
//	res, err := dependency.Layout(in, dependency.DefaultViewport)
//	svg, err := sink.RenderSVG(res, sink.WithInteraction())
//
// Raster and PDF output is produced from the SVG by a render.Converter.
package sink
