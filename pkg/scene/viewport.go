package scene

import "github.com/philipparndt/gopin/pkg/geometry"

// Viewport is the drawable area in pixels
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width / height, or 1 for a degenerate viewport
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// ToNDC maps pixel coordinates to [-1, 1] on each axis with Y pointing up
func (v Viewport) ToNDC(x, y float64) geometry.Vector2 {
	return geometry.Vector2{
		X: (x/float64(v.Width))*2 - 1,
		Y: (y/float64(v.Height))*-2 + 1,
	}
}

// FromNDC maps normalized device coordinates back to pixels
func (v Viewport) FromNDC(ndc geometry.Vector2) geometry.Vector2 {
	return geometry.Vector2{
		X: (ndc.X + 1) / 2 * float64(v.Width),
		Y: (1 - ndc.Y) / 2 * float64(v.Height),
	}
}
