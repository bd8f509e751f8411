package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/sentence"
	"github.com/matzehuels/depviz/pkg/textmeasure"
)

func testResult(t *testing.T, opts ...dependency.Option) *dependency.Result {
	t.Helper()
	in := &sentence.Input{
		Sentence: true,
		Nodes:    []sentence.Token{{Position: 0, Text: "Dogs"}, {Position: 1, Text: "bark"}},
		Links: []sentence.Link{
			{Source: 1, Target: 0, Dependency: "<nsubj&>", ID: "arc_1_dep_0"},
			{Source: 1, Target: 1, Dependency: "root", ID: "nr_1_1"},
		},
	}
	opts = append([]dependency.Option{dependency.WithMeasurer(textmeasure.Approx{})}, opts...)
	res, err := dependency.Layout(in, dependency.Viewport{Width: 600, Height: 300}, opts...)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	return res
}

func mustRenderSVG(t *testing.T, res *dependency.Result, opts ...SVGOption) string {
	t.Helper()
	data, err := RenderSVG(res, opts...)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	return string(data)
}

func TestRenderSVG(t *testing.T) {
	svg := mustRenderSVG(t, testResult(t))

	for _, want := range []string{
		`viewBox="0 0 600 300" preserveAspectRatio="xMidYMid meet"`,
		`<g id="image">`,
		`<g id="canvas" transform="scale(`,
		`<g id="movable" transform="translate(`,
		`<g id="node_0" class="svg-token-normal">`,
		`<path id="arc_arc_1_dep_0" class="svg-path-normal" d="M`,
		`vector-effect="non-scaling-stroke"`,
		`<polygon id="arrow_nr_1_1" class="svg-path-normal" points="`,
		`&lt;nsubj&amp;&gt;</text>`,
		DefaultTheme.Match,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "<script") {
		t.Error("script should only be emitted with WithInteraction")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG should end with </svg>")
	}
}

func TestRenderSVGWithoutLayout(t *testing.T) {
	for name, res := range map[string]*dependency.Result{
		"nil result": nil,
		"no scene":   {},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := RenderSVG(res, WithInteraction())
			if !errors.Is(err, errors.ErrCodeInvalidInput) || data != nil {
				t.Errorf("RenderSVG() = %q, %v; want INVALID_INPUT", data, err)
			}
		})
	}
}

func TestRenderSVGOptions(t *testing.T) {
	res := testResult(t, dependency.WithSelection(dependency.NewSelection(1)))
	svg := mustRenderSVG(t, res,
		WithInteraction(),
		WithTheme(Theme{Selected: "#00ff00"}),
		WithFontFamily("Serif"),
		WithEmbeddedFont(),
	)

	for _, want := range []string{
		`<script type="text/javascript"><![CDATA[`,
		`const links = [{"source":1,"target":0,"id":"arc_1_dep_0"}`,
		`#00ff00`,
		DefaultTheme.Path,
		`font-family: Serif;`,
		`@font-face`,
		`class="svg-token-selected"`,
		`class="svg-box-selected"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	res := testResult(t)
	data, err := RenderJSON(res)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.ArcHeight != res.ArcHeight || out.Scale != res.Scale {
		t.Errorf("metrics = %v/%v, want %v/%v", out.ArcHeight, out.Scale, res.ArcHeight, res.Scale)
	}
	if len(out.TokenCenters) != 2 {
		t.Errorf("TokenCenters = %v", out.TokenCenters)
	}

	byID := make(map[string]jsonElement)
	for _, el := range out.Elements {
		if el.ID != "" {
			byID[el.ID] = el
		}
	}
	if el := byID["arc_arc_1_dep_0"]; el.Type != "path" || el.Parent != "arcs" || el.D == "" {
		t.Errorf("arc element = %+v", el)
	}
	if el := byID["label_nr_1_1"]; el.Type != "text" || el.Text != "root" || el.X == nil {
		t.Errorf("root label element = %+v", el)
	}
	if el := byID["image"]; el.Type != "group" || el.Parent != "" {
		t.Errorf("image element = %+v", el)
	}
}
