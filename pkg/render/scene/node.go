package scene

import "strings"

// Node is an element of the scene tree.
type Node interface {
	NodeID() string
	Bounds() Box
}

// Group is a container with an optional transform.
type Group struct {
	ID        string
	Class     string
	Transform Transform
	Children  []Node
}

// NewGroup returns an empty group.
func NewGroup(id string) *Group { return &Group{ID: id} }

func (g *Group) NodeID() string { return g.ID }

// Append adds nodes to the end of the group.
func (g *Group) Append(nodes ...Node) { g.Children = append(g.Children, nodes...) }

// Bounds is the union of the children, with child group transforms applied.
func (g *Group) Bounds() Box {
	var b Box
	for _, c := range g.Children {
		cb := c.Bounds()
		if cg, ok := c.(*Group); ok {
			cb = cg.Transform.Apply(cb)
		}
		b = b.Union(cb)
	}
	return b
}

// Find returns the first node with the given id in depth-first order.
func (g *Group) Find(id string) Node {
	if g.ID == id {
		return g
	}
	for _, c := range g.Children {
		if c.NodeID() == id {
			return c
		}
		if cg, ok := c.(*Group); ok {
			if n := cg.Find(id); n != nil {
				return n
			}
		}
	}
	return nil
}

// Walk calls fn for every node in depth-first order, starting with g.
// Returning false from fn skips the node's children.
func (g *Group) Walk(fn func(Node) bool) {
	if !fn(g) {
		return
	}
	for _, c := range g.Children {
		if cg, ok := c.(*Group); ok {
			cg.Walk(fn)
			continue
		}
		fn(c)
	}
}

// Path is an SVG path with precomputed bounds.
type Path struct {
	ID               string
	Class            string
	D                string
	Box              Box
	NonScalingStroke bool
}

func (p *Path) NodeID() string { return p.ID }
func (p *Path) Bounds() Box    { return p.Box }

// Point is a polygon vertex.
type Point struct{ X, Y float64 }

// Polygon is a closed SVG polygon.
type Polygon struct {
	ID               string
	Class            string
	Points           []Point
	NonScalingStroke bool
}

func (p *Polygon) NodeID() string { return p.ID }

func (p *Polygon) Bounds() Box {
	if len(p.Points) == 0 {
		return Box{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// PointsAttr renders the SVG points attribute.
func (p *Polygon) PointsAttr() string {
	parts := make([]string, len(p.Points))
	for i, pt := range p.Points {
		parts[i] = FormatNumber(pt.X) + "," + FormatNumber(pt.Y)
	}
	return strings.Join(parts, " ")
}

// Text is a single line of text anchored at its baseline start (X, Y).
// Box is the measured bounding box.
type Text struct {
	ID      string
	Class   string
	X, Y    float64
	Size    float64
	Content string
	Box     Box
}

func (t *Text) NodeID() string { return t.ID }
func (t *Text) Bounds() Box    { return t.Box }
