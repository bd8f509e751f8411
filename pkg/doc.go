// Package pkg provides the core libraries of depviz, a renderer for
// dependency-annotated sentences.
//
// # Overview
//
// depviz draws a sentence as a row of tokens (text, lemma, part of speech)
// with a labelled arc for every dependency relation, and exports the same
// tree as tikz-dependency LaTeX. The pkg directory is organized as:
//
//  1. [sentence] - Input model, JSON and CoNLL-U readers, link identifiers
//  2. [render] - Layout engines, sinks and image export
//  3. [pipeline] - Orchestration (validate → layout → render) with caching
//  4. [cache], [config], [observability], [errors] - Infrastructure
//  5. [server] - The HTTP render service
//
// # Architecture
//
// The typical data flow:
//
//	sentence JSON / CoNLL-U
//	         ↓
//	    [sentence] package (decode, validate link ids and endpoints)
//	         ↓
//	    [render/dependency] package (token row, arcs, Fit, selection, zoom)
//	         ↓
//	    [render/dependency/sink] package (SVG, layout JSON)
//	         ↓
//	    [render] package (PDF/PNG via rsvg-convert or Chrome, JPEG)
//
// LaTeX export ([render/latex]) and the node-link view ([render/nodelink])
// work from the sentence directly and skip the arc layout.
//
// # Quick Start
//
//	in, _ := sentence.ImportFile("dogs.json")
//
//	res, _ := dependency.Layout(in, dependency.Viewport{Width: 800, Height: 400},
//	    dependency.WithSelection(dependency.NewSelection(1)))
//	svg, _ := sink.RenderSVG(res, sink.WithInteraction())
//
//	tex, ok, _ := latex.Tikz(in)
//
// Or through the pipeline, which adds validation, caching and conversion:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, in, pipeline.Options{
//	    Formats: []string{"svg", "latex", "png"},
//	})
//
// # Main Packages
//
//   - [sentence]: Input, Token, Link, Row; ReadJSON, ReadCoNLLU, ParseLinkID
//   - [textmeasure]: text extents from embedded font metrics
//   - [fonts]: the embedded TrueType font
//   - [render/scene]: retained-mode primitives shared by the sinks
//   - [render/dependency]: the arc layout engine, Fit, Selection and Zoom
//   - [render/dependency/sink]: SVG and layout JSON output
//   - [render/latex]: tikz-dependency export and LaTeX escaping
//   - [render/nodelink]: Graphviz node-link view
//   - [render]: format conversion and the export action
//   - [pipeline]: Options, Runner and artifact caching
//   - [cache]: Null, file, Redis and MongoDB backends
//   - [config]: TOML configuration
//   - [server]: chi-based HTTP API
//   - [observability]: pipeline, cache and HTTP hooks
//   - [errors]: coded errors and their HTTP status
//   - [buildinfo]: version information set via ldflags
package pkg
