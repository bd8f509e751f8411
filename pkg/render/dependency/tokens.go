package dependency

import (
	"github.com/matzehuels/depviz/pkg/render/scene"
	"github.com/matzehuels/depviz/pkg/sentence"
	"github.com/matzehuels/depviz/pkg/textmeasure"
)

const (
	tokenPaddingX   = 16.0
	tokenGapY       = 6.0
	lineHeightRatio = 1.25
)

// tokenRow is one line of the token block: the text, lemma or POS tags.
type tokenRow struct {
	class string
	value func(sentence.Cell) (string, bool)
}

var allTokenRows = []tokenRow{
	{"svg-token-text", func(c sentence.Cell) (string, bool) { return c.Text, c.HasText }},
	{"svg-token-lemma", func(c sentence.Cell) (string, bool) { return c.Lemma, c.HasLemma }},
	{"svg-token-pos", func(c sentence.Cell) (string, bool) { return c.POS, c.HasPOS }},
}

type tokenLayout struct {
	group   *scene.Group
	centers []float64
	extent  float64
	height  float64
}

// layoutTokens places one column per token. The text row is always drawn;
// the lemma and POS rows only when some token carries that category, so
// rows stay aligned across columns.
func layoutTokens(in *sentence.Input, c config, h Highlight) tokenLayout {
	n := in.TokenCount()
	cells := make([]sentence.Cell, n)
	rows := []tokenRow{allTokenRows[0]}
	var hasLemma, hasPOS bool
	for i := range cells {
		cells[i] = in.Cell(i)
		hasLemma = hasLemma || cells[i].HasLemma
		hasPOS = hasPOS || cells[i].HasPOS
	}
	if hasLemma {
		rows = append(rows, allTokenRows[1])
	}
	if hasPOS {
		rows = append(rows, allTokenRows[2])
	}

	size := c.tokenFontSize
	lineHeight := size * lineHeightRatio
	ascent := c.measurer.Measure("Hg", size).Ascent

	tl := tokenLayout{
		group:   scene.NewGroup("tokens"),
		centers: make([]float64, n),
	}
	left := 0.0
	for i, cell := range cells {
		type drawn struct {
			class, text string
			width       float64
			row         int
		}
		var texts []drawn
		width := 0.0
		for r, row := range rows {
			text, ok := row.value(cell)
			if !ok || text == "" {
				continue
			}
			w := c.measurer.Measure(text, size).Width
			width = max(width, w)
			texts = append(texts, drawn{row.class, text, w, r})
		}
		width += tokenPaddingX
		center := left + width/2
		tl.centers[i] = center

		variant := h.Variant(TokenID(i))
		if variant == Normal && in.IsTokenMatched(i) {
			variant = Match
		}
		g := &scene.Group{ID: TokenID(i), Class: ClassFor(KindToken, variant)}
		for _, d := range texts {
			x := center - d.width/2
			y := tokenGapY + ascent + float64(d.row)*lineHeight
			g.Append(&scene.Text{
				Class:   d.class,
				X:       x,
				Y:       y,
				Size:    size,
				Content: d.text,
				Box:     scene.Box(textmeasure.Box(c.measurer, d.text, size, x, y)),
			})
		}
		tl.group.Append(g)
		left += width
	}

	tl.extent = left
	if n > 0 {
		tl.height = tokenGapY + float64(len(rows))*lineHeight
	}
	return tl
}
