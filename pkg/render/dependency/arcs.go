package dependency

import (
	"math"
	"slices"

	"github.com/matzehuels/depviz/pkg/render/scene"
	"github.com/matzehuels/depviz/pkg/sentence"
	"github.com/matzehuels/depviz/pkg/textmeasure"
)

const (
	arcRadiusX   = 20.0
	arcRadiusY   = 10.0
	sourceInset  = 3.0
	maxExtraArcX = 20.0
)

// NeverShorten is the default shortening predicate.
func NeverShorten(int) bool { return false }

// OutlierDistances returns a shortening predicate selecting every token
// distance that is more than one longer than the next shorter distance in
// links. Those arcs get a wider radius so they flatten out above the rest.
func OutlierDistances(links []sentence.Link) func(int) bool {
	dists := make([]int, len(links))
	for i, l := range links {
		dists[i] = distance(l)
	}
	slices.Sort(dists)
	slices.Reverse(dists)

	outliers := make(map[int]bool)
	for i := 1; i < len(dists); i++ {
		if dists[i-1]-dists[i] > 1 {
			outliers[dists[i-1]] = true
		}
	}
	return func(d int) bool { return outliers[d] }
}

func distance(l sentence.Link) int {
	d := l.Source - l.Target
	if d < 0 {
		return -d
	}
	return d
}

// extraRadius is a square-root scale from [0, linkCount] onto
// [0, maxExtraArcX].
func extraRadius(dist, linkCount int) float64 {
	if linkCount <= 0 {
		return 0
	}
	return math.Sqrt(float64(dist)/float64(linkCount)) * maxExtraArcX
}

type arcLayout struct {
	group         *scene.Group
	preRootHeight float64
	height        float64
}

type arcBuilder struct {
	in      *sentence.Input
	cfg     config
	hl      Highlight
	centers []float64
	group   *scene.Group
}

// layoutArcs draws the relations above the token row. Links between
// distinct x positions are drawn first, with an arrowhead for every link;
// root links follow once the tallest arc is known.
func layoutArcs(in *sentence.Input, cfg config, hl Highlight, centers []float64) arcLayout {
	b := &arcBuilder{in: in, cfg: cfg, hl: hl, centers: centers, group: scene.NewGroup("arcs")}

	for _, l := range in.Links {
		x1, x2 := centers[l.Source], centers[l.Target]
		if x1 == x2 {
			b.arrow(l, in.IsMatched(l, true))
			continue
		}
		matched := in.IsMatched(l, false)
		b.arc(l, matched)
		b.arrow(l, matched)
	}

	preRoot := b.group.Bounds().H
	for _, l := range in.Links {
		if centers[l.Source] == centers[l.Target] {
			b.root(l, preRoot, in.IsMatched(l, true))
		}
	}

	return arcLayout{
		group:         b.group,
		preRootHeight: preRoot,
		height:        b.group.Bounds().H,
	}
}

func (b *arcBuilder) variant(id string, matched bool) Variant {
	if v := b.hl.Variant(id); v == Selected {
		return v
	}
	if matched {
		return Match
	}
	return Normal
}

func (b *arcBuilder) arc(l sentence.Link, matched bool) {
	src, tgt := b.centers[l.Source], b.centers[l.Target]
	// The source end is pulled inwards; the target end stays on the token
	// center where the arrowhead sits.
	x1, x2 := src+sourceInset, tgt
	if src > tgt {
		x1, x2 = tgt, src-sourceInset
	}

	rx := arcRadiusX
	if dist := distance(l); b.cfg.shouldShorten(dist) {
		rx += extraRadius(dist, len(b.in.Links))
	}

	id := ArcPrefix + l.ID
	d, box := scene.ArcPath(x1, x2, rx, arcRadiusY)
	b.group.Append(&scene.Path{
		ID:               id,
		Class:            ClassFor(KindPath, b.variant(id, matched)),
		D:                d,
		Box:              box,
		NonScalingStroke: true,
	})

	cx, cy := box.TopCenter()
	if cx > 0 {
		b.label(l, cx, cy, matched)
	}
}

func (b *arcBuilder) arrow(l sentence.Link, matched bool) {
	id := ArrowPrefix + l.ID
	b.group.Append(&scene.Polygon{
		ID:               id,
		Class:            ClassFor(KindPath, b.variant(id, matched)),
		Points:           scene.Arrowhead(b.centers[l.Target]),
		NonScalingStroke: true,
	})
}

func (b *arcBuilder) root(l sentence.Link, top float64, matched bool) {
	x := b.centers[l.Source]
	id := ArcPrefix + l.ID
	d, box := scene.VerticalPath(x, top)
	b.group.Append(&scene.Path{
		ID:               id,
		Class:            ClassFor(KindPath, b.variant(id, matched)),
		D:                d,
		Box:              box,
		NonScalingStroke: true,
	})
	b.label(l, x, -top, matched)
}

// label centres the relation name horizontally on cx with its baseline at
// y. Labels that measure zero width are not drawn.
func (b *arcBuilder) label(l sentence.Link, cx, y float64, matched bool) {
	size := b.cfg.labelFontSize
	w := b.cfg.measurer.Measure(l.Dependency, size).Width
	if w <= 0 {
		return
	}
	id := LabelPrefix + l.ID
	x := cx - w/2
	b.group.Append(&scene.Text{
		ID:      id,
		Class:   ClassFor(KindLabel, b.variant(id, matched)),
		X:       x,
		Y:       y,
		Size:    size,
		Content: l.Dependency,
		Box:     scene.Box(textmeasure.Box(b.cfg.measurer, l.Dependency, size, x, y)),
	})
}
