package scene

import "math"

// ArcPath returns the upward elliptical arc from (x1, 0) to (x2, 0) with
// radii rx and ry, large-arc 0 and sweep 1. x1 must not exceed x2.
//
// The bounds follow SVG out-of-range radius correction: when the half
// chord is longer than rx both radii grow by the same factor and the arc
// becomes a half ellipse.
func ArcPath(x1, x2, rx, ry float64) (d string, bounds Box) {
	d = "M" + FormatNumber(x1) + ",0 A" + FormatNumber(rx) + "," + FormatNumber(ry) +
		" 0 0,1 " + FormatNumber(x2) + ",0"

	half := math.Abs(x2-x1) / 2
	var height float64
	switch {
	case rx <= 0 || ry <= 0:
		height = 0
	case half/rx > 1:
		height = ry * (half / rx)
	default:
		lambda := half / rx
		height = ry - ry*math.Sqrt(1-lambda*lambda)
	}
	return d, Box{X: math.Min(x1, x2), Y: -height, W: math.Abs(x2 - x1), H: height}
}

// VerticalPath returns the line from (x, -top) down to (x, 0).
func VerticalPath(x, top float64) (d string, bounds Box) {
	d = "M" + FormatNumber(x) + "," + FormatNumber(-top) + " L" + FormatNumber(x) + ",0"
	return d, Box{X: x, Y: -top, W: 0, H: top}
}

// Arrowhead returns the kite-shaped arrow whose tip sits at (x, 1).
func Arrowhead(x float64) []Point {
	const level = 1
	return []Point{
		{x, level},
		{x + 1, level - 2},
		{x, level - 1},
		{x - 1, level - 2},
	}
}
