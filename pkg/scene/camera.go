package scene

import (
	"math"

	"github.com/philipparndt/gopin/pkg/geometry"
)

// Camera is a perspective camera looking from Position at Target
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	Fovy     float64 // vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewPerspectiveCamera creates a camera at (0,0,1) looking at the origin
func NewPerspectiveCamera(fovy, aspect, near, far float64) *Camera {
	return &Camera{
		Position: geometry.NewVector3(0, 0, 1),
		Up:       geometry.NewVector3(0, 1, 0),
		Fovy:     fovy,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// FrameBox positions the camera so the whole box is in view, keeping the
// current viewing direction. An empty box leaves the camera unchanged.
func (c *Camera) FrameBox(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		return
	}
	center := bbox.Center()
	distance := bbox.MaxDimension() * 2.0
	if distance == 0 {
		distance = 1
	}

	dir := c.Position.Sub(c.Target).Normalize()
	if dir == (geometry.Vector3{}) {
		dir = geometry.NewVector3(0, 0, 1)
	}
	c.Target = center
	c.Position = center.Add(dir.Mul(distance))
}

// SetAspect updates the aspect ratio. Non-positive values are ignored.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 && !math.IsInf(aspect, 0) {
		c.Aspect = aspect
	}
}

// Basis returns the normalized forward, right and up vectors of the view
func (c *Camera) Basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

func (c *Camera) fovScale() float64 {
	return math.Tan(c.Fovy * math.Pi / 180 / 2)
}

// RayFromNDC builds a ray from the camera through a point in normalized
// device coordinates
func (c *Camera) RayFromNDC(ndc geometry.Vector2) geometry.Ray {
	forward, right, up := c.Basis()
	scale := c.fovScale()

	dir := forward.
		Add(right.Mul(ndc.X * scale * c.Aspect)).
		Add(up.Mul(ndc.Y * scale))

	return geometry.NewRay(c.Position, dir)
}

// Project maps a world point to normalized device coordinates. ok is false
// when the point lies behind the near plane or beyond the far plane.
func (c *Camera) Project(point geometry.Vector3) (ndc geometry.Vector2, depth float64, ok bool) {
	forward, right, up := c.Basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z < c.Near || (c.Far > 0 && z > c.Far) {
		return geometry.Vector2{}, z, false
	}

	scale := c.fovScale()
	return geometry.Vector2{
		X: x / (z * scale * c.Aspect),
		Y: y / (z * scale),
	}, z, true
}
