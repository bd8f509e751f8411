package scene

import (
	"math"
	"strconv"
)

// Box is an axis-aligned bounding box. X and Y are the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// IsZero reports whether the box has no extent in either direction.
// Zero boxes do not contribute to unions.
func (b Box) IsZero() bool { return b.W == 0 && b.H == 0 }

func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	x, y := math.Min(b.X, o.X), math.Min(b.Y, o.Y)
	return Box{
		X: x,
		Y: y,
		W: math.Max(b.Right(), o.Right()) - x,
		H: math.Max(b.Bottom(), o.Bottom()) - y,
	}
}

// TopCenter returns the horizontal center of the top edge.
func (b Box) TopCenter() (x, y float64) {
	return b.X + b.W/2, b.Y
}

// FormatNumber prints v as the shortest decimal that round-trips, without
// exponent, so coordinates match what a browser would serialise.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Transform is a translate followed by a uniform scale. A zero Scale means
// no scaling.
type Transform struct {
	TX, TY float64
	Scale  float64
}

func (t Transform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Apply maps a box from the transformed space into the parent space.
func (t Transform) Apply(b Box) Box {
	if b.IsZero() {
		return b
	}
	s := t.scale()
	return Box{X: b.X*s + t.TX, Y: b.Y*s + t.TY, W: b.W * s, H: b.H * s}
}

// String renders the SVG transform attribute value, or "" for identity.
func (t Transform) String() string {
	var out string
	if t.TX != 0 || t.TY != 0 {
		out = "translate(" + FormatNumber(t.TX) + " " + FormatNumber(t.TY) + ")"
	}
	if t.Scale != 0 && t.Scale != 1 {
		if out != "" {
			out += " "
		}
		s := FormatNumber(t.Scale)
		out += "scale(" + s + " " + s + ")"
	}
	return out
}
