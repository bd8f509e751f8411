package sink

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/fonts"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/render/scene"
)

const styleCSS = `
    text { font-family: %[1]s; }
    path.svg-path-normal { fill: none; stroke: %[2]s; stroke-width: 1; }
    path.svg-path-match { fill: none; stroke: %[3]s; stroke-width: 2; }
    path.svg-path-selected { fill: none; stroke: %[4]s; stroke-width: 2; }
    polygon.svg-path-normal { fill: %[2]s; stroke: %[2]s; }
    polygon.svg-path-match { fill: %[3]s; stroke: %[3]s; }
    polygon.svg-path-selected { fill: %[4]s; stroke: %[4]s; }
    .svg-label-normal { fill: %[2]s; }
    .svg-label-match { fill: %[3]s; font-weight: bold; }
    .svg-box-selected { fill: %[4]s; font-weight: bold; }
    .svg-token-normal text { fill: %[5]s; }
    .svg-token-match text { fill: %[3]s; font-weight: bold; }
    .svg-token-selected text { fill: %[4]s; font-weight: bold; }
    .svg-token-lemma { font-style: italic; }
    .svg-token-pos { font-family: monospace; }`

const interactionCSS = `
    [id^="node_"] { cursor: pointer; }
    [id^="arc_"], [id^="arrow_"], [id^="label_"] { cursor: default; }`

// interactionJS toggles the same classes layout assigns for a selection.
// It expects a "links" array of {source, target, id} in scope.
const interactionJS = `
    const selected = new Set();
    const hovered = new Set();
    const base = new Map();
    document.querySelectorAll('[id^="node_"], [id^="arc_"], [id^="arrow_"], [id^="label_"]').forEach(el => {
      base.set(el.id, el.getAttribute('class'));
    });
    function setVariant(id, on) {
      const el = document.getElementById(id);
      if (!el) return;
      let cls = base.get(id);
      if (on) {
        if (id.startsWith('node_')) cls = 'svg-token-selected';
        else if (id.startsWith('label_')) cls = 'svg-box-selected';
        else cls = 'svg-path-selected';
      }
      el.setAttribute('class', cls);
    }
    function refresh() {
      const tokens = new Set(selected);
      const arcs = new Set(hovered);
      links.forEach(l => {
        if (selected.has(l.source)) { arcs.add(l.id); tokens.add(l.target); }
      });
      base.forEach((_, id) => {
        if (id.startsWith('node_')) { setVariant(id, tokens.has(Number(id.slice(5)))); return; }
        const linkId = id.slice(id.indexOf('_') + 1);
        setVariant(id, arcs.has(linkId));
      });
    }
    document.querySelectorAll('[id^="node_"]').forEach(el => {
      el.addEventListener('click', () => {
        const pos = Number(el.id.slice(5));
        if (selected.has(pos)) selected.delete(pos); else selected.add(pos);
        refresh();
      });
    });
    links.forEach(l => {
      ['arc_', 'arrow_', 'label_'].forEach(prefix => {
        const el = document.getElementById(prefix + l.id);
        if (!el) return;
        el.addEventListener('mouseenter', () => { hovered.add(l.id); refresh(); });
        el.addEventListener('mouseleave', () => { hovered.delete(l.id); refresh(); });
      });
    });`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme       Theme
	interactive bool
	fontFamily  string
	embedFont   bool
}

func WithTheme(t Theme) SVGOption       { return func(r *svgRenderer) { r.theme = t } }
func WithInteraction() SVGOption        { return func(r *svgRenderer) { r.interactive = true } }
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }
func WithEmbeddedFont() SVGOption       { return func(r *svgRenderer) { r.embedFont = true } }

// RenderSVG serialises the laid-out tree. The viewBox is the layout
// viewport.
func RenderSVG(res *dependency.Result, opts ...SVGOption) ([]byte, error) {
	if res == nil || res.Scene == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to render")
	}
	r := newSVGRenderer(opts...)

	w, h := scene.FormatNumber(res.Viewport.Width), scene.FormatNumber(res.Viewport.Height)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet" width="%s" height="%s">`+"\n",
		w, h, w, h)

	r.renderStyle(&buf)
	renderNode(&buf, res.Scene, 1)
	if r.interactive {
		if err := renderInteraction(&buf, res); err != nil {
			return nil, err
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{theme: DefaultTheme, fontFamily: fonts.FallbackFontFamily}
	for _, opt := range opts {
		opt(&r)
	}
	r.theme = r.theme.withDefaults()
	return r
}

func (r *svgRenderer) renderStyle(buf *bytes.Buffer) {
	buf.WriteString("  <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(buf, styleCSS, r.fontFamily, r.theme.Path, r.theme.Match, r.theme.Selected, r.theme.Token)
	if r.interactive {
		buf.WriteString(interactionCSS)
	}
	buf.WriteString("\n  </style>\n")
}

func renderNode(buf *bytes.Buffer, n scene.Node, depth int) {
	indent := bytes.Repeat([]byte("  "), depth)
	buf.Write(indent)

	switch v := n.(type) {
	case *scene.Group:
		buf.WriteString("<g")
		writeAttr(buf, "id", v.ID)
		writeAttr(buf, "class", v.Class)
		writeAttr(buf, "transform", v.Transform.String())
		if len(v.Children) == 0 {
			buf.WriteString("/>\n")
			return
		}
		buf.WriteString(">\n")
		for _, c := range v.Children {
			renderNode(buf, c, depth+1)
		}
		buf.Write(indent)
		buf.WriteString("</g>\n")
	case *scene.Path:
		buf.WriteString("<path")
		writeAttr(buf, "id", v.ID)
		writeAttr(buf, "class", v.Class)
		writeAttr(buf, "d", v.D)
		if v.NonScalingStroke {
			writeAttr(buf, "vector-effect", "non-scaling-stroke")
		}
		buf.WriteString("/>\n")
	case *scene.Polygon:
		buf.WriteString("<polygon")
		writeAttr(buf, "id", v.ID)
		writeAttr(buf, "class", v.Class)
		writeAttr(buf, "points", v.PointsAttr())
		if v.NonScalingStroke {
			writeAttr(buf, "vector-effect", "non-scaling-stroke")
		}
		buf.WriteString("/>\n")
	case *scene.Text:
		buf.WriteString("<text")
		writeAttr(buf, "id", v.ID)
		writeAttr(buf, "class", v.Class)
		writeAttr(buf, "x", scene.FormatNumber(v.X))
		writeAttr(buf, "y", scene.FormatNumber(v.Y))
		writeAttr(buf, "font-size", scene.FormatNumber(v.Size))
		buf.WriteString(">")
		buf.WriteString(escapeXML(v.Content))
		buf.WriteString("</text>\n")
	}
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, escapeXML(value))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type scriptLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	ID     string `json:"id"`
}

func renderInteraction(buf *bytes.Buffer, res *dependency.Result) error {
	links := make([]scriptLink, len(res.Links))
	for i, l := range res.Links {
		links[i] = scriptLink{Source: l.Source, Target: l.Target, ID: l.ID}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode script links")
	}
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[\n    const links = %s;%s\n  ]]></script>\n", data, interactionJS)
	return nil
}
