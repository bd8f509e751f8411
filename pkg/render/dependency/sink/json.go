package sink

import (
	"encoding/json"

	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/render/scene"
)

type jsonOutput struct {
	Viewport      dependency.Viewport `json:"viewport"`
	Scale         float64             `json:"scale"`
	OffsetX       float64             `json:"offset_x"`
	TokenExtent   float64             `json:"token_extent"`
	TokenHeight   float64             `json:"token_height"`
	PreRootHeight float64             `json:"pre_root_height"`
	ArcHeight     float64             `json:"arc_height"`
	TokenCenters  []float64           `json:"token_centers"`
	Elements      []jsonElement       `json:"elements"`
}

type jsonElement struct {
	ID        string   `json:"id,omitempty"`
	Type      string   `json:"type"`
	Parent    string   `json:"parent,omitempty"`
	Class     string   `json:"class,omitempty"`
	Transform string   `json:"transform,omitempty"`
	D         string   `json:"d,omitempty"`
	Points    string   `json:"points,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Text      string   `json:"text,omitempty"`
	Bounds    jsonBox  `json:"bounds"`
}

type jsonBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// RenderJSON exports the layout metrics and every scene element in
// depth-first order, each with its parent group id and bounds in its
// parent's user space.
func RenderJSON(res *dependency.Result) ([]byte, error) {
	out := jsonOutput{
		Viewport:      res.Viewport,
		Scale:         res.Scale,
		OffsetX:       res.OffsetX,
		TokenExtent:   res.TokenExtent,
		TokenHeight:   res.TokenHeight,
		PreRootHeight: res.PreRootHeight,
		ArcHeight:     res.ArcHeight,
		TokenCenters:  res.TokenCenters,
	}
	if out.TokenCenters == nil {
		out.TokenCenters = []float64{}
	}
	out.Elements = collectElements(res.Scene, "", nil)
	return json.MarshalIndent(out, "", "  ")
}

func collectElements(n scene.Node, parent string, acc []jsonElement) []jsonElement {
	el := jsonElement{ID: n.NodeID(), Parent: parent}
	b := n.Bounds()

	switch v := n.(type) {
	case *scene.Group:
		el.Type = "group"
		el.Class = v.Class
		el.Transform = v.Transform.String()
		b = v.Transform.Apply(b)
	case *scene.Path:
		el.Type = "path"
		el.Class = v.Class
		el.D = v.D
	case *scene.Polygon:
		el.Type = "polygon"
		el.Class = v.Class
		el.Points = v.PointsAttr()
	case *scene.Text:
		el.Type = "text"
		el.Class = v.Class
		el.X, el.Y = ptr(v.X), ptr(v.Y)
		el.Text = v.Content
	}
	el.Bounds = jsonBox{X: b.X, Y: b.Y, W: b.W, H: b.H}
	acc = append(acc, el)

	if g, ok := n.(*scene.Group); ok {
		for _, c := range g.Children {
			acc = collectElements(c, g.ID, acc)
		}
	}
	return acc
}

func ptr(v float64) *float64 { return &v }
