package dependency

import "github.com/matzehuels/depviz/pkg/render/scene"

// Zoom extent and step factors of the interactive view.
const (
	MinZoom       = 0.8
	MaxZoom       = 10.0
	ZoomInFactor  = 1.5
	ZoomOutFactor = 0.5
)

// Zoom is the pan and zoom transform of the image group: a point p is
// shown at K*p + (X, Y).
type Zoom struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IdentityZoom is the unzoomed, unpanned view.
func IdentityZoom() Zoom { return Zoom{K: 1} }

// ScaleBy multiplies the zoom level by factor, clamped to
// [MinZoom, MaxZoom], keeping the point (cx, cy) fixed on screen.
func (z Zoom) ScaleBy(factor, cx, cy float64) Zoom {
	k := z.K
	if k == 0 {
		k = 1
	}
	nk := max(MinZoom, min(k*factor, MaxZoom))
	// Point under (cx, cy) before zooming, in image coordinates.
	px, py := (cx-z.X)/k, (cy-z.Y)/k
	return Zoom{K: nk, X: cx - px*nk, Y: cy - py*nk}
}

// ZoomIn zooms in one step around (cx, cy).
func (z Zoom) ZoomIn(cx, cy float64) Zoom { return z.ScaleBy(ZoomInFactor, cx, cy) }

// ZoomOut zooms out one step around (cx, cy).
func (z Zoom) ZoomOut(cx, cy float64) Zoom { return z.ScaleBy(ZoomOutFactor, cx, cy) }

// Translate pans by (dx, dy) screen units.
func (z Zoom) Translate(dx, dy float64) Zoom {
	z.X += dx
	z.Y += dy
	return z
}

// Transform returns the scene transform of the image group.
func (z Zoom) Transform() scene.Transform {
	return scene.Transform{TX: z.X, TY: z.Y, Scale: z.K}
}
