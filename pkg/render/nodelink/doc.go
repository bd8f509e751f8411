// Package nodelink renders dependency trees as traditional node-link
// diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// tokens appear as boxes and relations as labelled arrows from head to
// dependent. It's an alternative to the arc view for deep trees where a
// hierarchical drawing reads better.
//
// # Usage
//
// Convert a sentence to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(in, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG output is converted from that SVG by a render.Converter,
// the same path arc diagrams take.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, token labels include lemma and POS
//   - MatchColor: Colour of query-matched tokens and relations
//
// Root relations hang from a synthetic ROOT node.
//
// # Dependencies
//
// SVG rendering uses goccy/go-graphviz (Graphviz compiled to WebAssembly),
// so no system Graphviz is needed.
package nodelink
