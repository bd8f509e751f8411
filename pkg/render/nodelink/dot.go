package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depviz/pkg/sentence"
)

// rootNode is the synthetic node root relations hang from.
const rootNode = "ROOT"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the lemma and POS tag to token labels.
	// When false, only the token text is shown.
	Detailed bool
	// MatchColor colours query-matched tokens and relations. Empty means red.
	MatchColor string
}

// ToDOT converts a sentence to Graphviz DOT format: one node per token and
// one labelled edge per relation, with root relations drawn from a ROOT
// node. The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(in *sentence.Input, opts Options) string {
	match := opts.MatchColor
	if match == "" {
		match = "red"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=18];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	hasRoot := false
	for _, l := range in.Links {
		if l.Source == l.Target {
			hasRoot = true
			break
		}
	}
	if hasRoot {
		fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", fontcolor=grey40];\n", rootNode)
	}

	for i := range in.TokenCount() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(in.Cell(i), opts.Detailed))}
		if in.IsTokenMatched(i) {
			attrs = append(attrs, fmt.Sprintf("color=%q", match), fmt.Sprintf("fontcolor=%q", match))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range in.Links {
		from := nodeID(l.Source)
		matched := in.IsMatched(l, false)
		if l.Source == l.Target {
			from = rootNode
			matched = in.IsMatched(l, true)
		}
		attrs := []string{fmt.Sprintf("label=%q", l.Dependency), fmt.Sprintf("id=%q", l.ID)}
		if matched {
			attrs = append(attrs, fmt.Sprintf("color=%q", match), fmt.Sprintf("fontcolor=%q", match))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, nodeID(l.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(pos int) string { return "t" + strconv.Itoa(pos) }

func fmtLabel(c sentence.Cell, detailed bool) string {
	text := c.Text
	if text == "" {
		text = sentence.Filler
	}
	if !detailed {
		return text
	}

	parts := []string{text}
	if c.HasLemma {
		parts = append(parts, c.Lemma)
	}
	if c.HasPOS {
		parts = append(parts, c.POS)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or conversion by a render.Converter.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
