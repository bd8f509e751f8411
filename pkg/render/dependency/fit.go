package dependency

// Viewport is the drawing area the tree is fitted into.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewport matches the maximal image height of the browser view.
var DefaultViewport = Viewport{Width: 800, Height: 400}

// ScaleBounds is the clamp range of the fit scale.
type ScaleBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultScaleBounds allows halving and one-and-a-half times enlargement.
var DefaultScaleBounds = ScaleBounds{Min: 0.5, Max: 1.5}

// Clamp limits v to the bounds.
func (b ScaleBounds) Clamp(v float64) float64 {
	return max(b.Min, min(v, b.Max))
}

// Fit computes the uniform scale and horizontal centering offset of a tree
// with the given token extent and heights.
//
// The scale starts at 1. A nonzero token extent that differs from the
// viewport width scales the tree to the width. If the scaled tree is then
// taller than the viewport, it is scaled to the height instead and
// centred horizontally; offsetX is in unscaled units. Every computed
// scale is clamped to bounds.
func Fit(vp Viewport, tokenExtent, tokenHeight, arcHeight float64, bounds ScaleBounds) (scale, offsetX float64) {
	scale = 1
	if tokenExtent != 0 && vp.Width != tokenExtent {
		scale = bounds.Clamp(vp.Width / tokenExtent)
	}

	total := arcHeight + tokenHeight
	if total*scale > vp.Height {
		scale = bounds.Clamp(vp.Height / total)
		offsetX = ((vp.Width - tokenExtent*scale) / scale) / 2
	}
	return scale, offsetX
}
