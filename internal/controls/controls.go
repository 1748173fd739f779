// Package controls implements damped orbit, pan and dolly camera controls.
package controls

import (
	"math"

	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
)

// maxElevation keeps the camera off the poles where the up vector degenerates
const maxElevation = math.Pi/2 - 0.01

// movementEpsilon is the smallest change Update reports as movement
const movementEpsilon = 1e-6

// Settings tune the controls
type Settings struct {
	Damping     float64 // per second; 0 applies input immediately
	RotateSpeed float64 // radians per pixel
	PanSpeed    float64 // world units per pixel per unit of distance
	ZoomSpeed   float64 // log distance per wheel step
	MinDistance float64
	MaxDistance float64
}

// DefaultSettings returns settings suitable for models around unit size
func DefaultSettings() Settings {
	return Settings{
		Damping:     5,
		RotateSpeed: 0.005,
		PanSpeed:    0.001,
		ZoomSpeed:   0.1,
		MinDistance: 0.5,
		MaxDistance: 500,
	}
}

// View is a preset camera orientation
type View int

const (
	ViewFront View = iota
	ViewBack
	ViewLeft
	ViewRight
	ViewTop
	ViewBottom
)

// Orbit moves a camera on a sphere around its target. Input accumulates as
// pending motion that Update applies with exponential damping.
type Orbit struct {
	camera   *scene.Camera
	settings Settings

	distance  float64
	elevation float64
	azimuth   float64
	target    geometry.Vector3

	home struct {
		distance, elevation, azimuth float64
		target                       geometry.Vector3
	}

	pendingAzimuth   float64
	pendingElevation float64
	pendingPan       geometry.Vector2
	pendingZoom      float64
}

// New creates controls for camera, starting from its current position and target
func New(camera *scene.Camera, settings Settings) *Orbit {
	o := &Orbit{camera: camera, settings: settings}
	o.syncFromCamera()
	o.SaveHome()
	return o
}

func (o *Orbit) syncFromCamera() {
	offset := o.camera.Position.Sub(o.camera.Target)
	o.target = o.camera.Target
	o.distance = offset.Length()
	if o.distance == 0 {
		o.distance = o.settings.MinDistance
		o.elevation, o.azimuth = 0, 0
		return
	}
	o.elevation = math.Asin(clamp(offset.Y/o.distance, -1, 1))
	o.azimuth = math.Atan2(offset.X, offset.Z)
	o.elevation = clamp(o.elevation, -maxElevation, maxElevation)
	o.distance = clamp(o.distance, o.settings.MinDistance, o.settings.MaxDistance)
}

// SaveHome records the current camera state as the reset target
func (o *Orbit) SaveHome() {
	o.home.distance = o.distance
	o.home.elevation = o.elevation
	o.home.azimuth = o.azimuth
	o.home.target = o.target
}

// Frame points the camera at a bounding box and makes that the home view.
// Empty boxes are ignored.
func (o *Orbit) Frame(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		return
	}
	o.camera.FrameBox(bbox)
	o.syncFromCamera()
	o.Stop()
	o.SaveHome()
}

// LookAt places the camera at position facing target and makes that the
// home view
func (o *Orbit) LookAt(position, target geometry.Vector3) {
	o.camera.Position = position
	o.camera.Target = target
	o.syncFromCamera()
	o.Stop()
	o.SaveHome()
}

// Rotate queues an orbit by a pointer delta in pixels
func (o *Orbit) Rotate(dx, dy float64) {
	o.pendingAzimuth -= dx * o.settings.RotateSpeed
	o.pendingElevation += dy * o.settings.RotateSpeed
}

// Pan queues a target translation by a pointer delta in pixels
func (o *Orbit) Pan(dx, dy float64) {
	o.pendingPan.X += dx
	o.pendingPan.Y += dy
}

// Zoom queues a dolly; positive steps move toward the target
func (o *Orbit) Zoom(steps float64) {
	o.pendingZoom += steps * o.settings.ZoomSpeed
}

// Stop discards pending motion
func (o *Orbit) Stop() {
	o.pendingAzimuth, o.pendingElevation, o.pendingZoom = 0, 0, 0
	o.pendingPan = geometry.Vector2{}
}

// Reset returns to the home view
func (o *Orbit) Reset() {
	o.Stop()
	o.distance = o.home.distance
	o.elevation = o.home.elevation
	o.azimuth = o.home.azimuth
	o.target = o.home.target
	o.apply()
}

// SetView switches to a preset orientation around the current target
func (o *Orbit) SetView(v View) {
	o.Stop()
	switch v {
	case ViewFront:
		o.elevation, o.azimuth = 0, 0
	case ViewBack:
		o.elevation, o.azimuth = 0, math.Pi
	case ViewLeft:
		o.elevation, o.azimuth = 0, -math.Pi/2
	case ViewRight:
		o.elevation, o.azimuth = 0, math.Pi/2
	case ViewTop:
		o.elevation, o.azimuth = maxElevation, 0
	case ViewBottom:
		o.elevation, o.azimuth = -maxElevation, 0
	}
	o.apply()
}

// Distance returns the current distance to the target
func (o *Orbit) Distance() float64 {
	return o.distance
}

// Update applies the share of pending motion due after dt seconds and
// writes the camera. It reports whether the camera moved.
func (o *Orbit) Update(dt float64) bool {
	factor := 1.0
	if o.settings.Damping > 0 {
		factor = 1 - math.Exp(-o.settings.Damping*math.Max(dt, 0))
	}

	before := o.camera.Position
	beforeTarget := o.camera.Target

	dAzimuth := o.pendingAzimuth * factor
	dElevation := o.pendingElevation * factor
	dPan := geometry.Vector2{X: o.pendingPan.X * factor, Y: o.pendingPan.Y * factor}
	dZoom := o.pendingZoom * factor

	o.pendingAzimuth -= dAzimuth
	o.pendingElevation -= dElevation
	o.pendingPan.X -= dPan.X
	o.pendingPan.Y -= dPan.Y
	o.pendingZoom -= dZoom

	o.azimuth = math.Mod(o.azimuth+dAzimuth, 2*math.Pi)
	o.elevation = clamp(o.elevation+dElevation, -maxElevation, maxElevation)
	o.distance = clamp(o.distance*math.Exp(-dZoom), o.settings.MinDistance, o.settings.MaxDistance)

	if dPan.X != 0 || dPan.Y != 0 {
		_, right, up := o.camera.Basis()
		speed := o.distance * o.settings.PanSpeed
		o.target = o.target.
			Add(right.Mul(-dPan.X * speed)).
			Add(up.Mul(dPan.Y * speed))
	}

	o.apply()
	return !o.camera.Position.ApproxEqual(before, movementEpsilon) ||
		!o.camera.Target.ApproxEqual(beforeTarget, movementEpsilon)
}

func (o *Orbit) apply() {
	cosEl := math.Cos(o.elevation)
	offset := geometry.NewVector3(
		o.distance*cosEl*math.Sin(o.azimuth),
		o.distance*math.Sin(o.elevation),
		o.distance*cosEl*math.Cos(o.azimuth),
	)
	o.camera.Target = o.target
	o.camera.Position = o.target.Add(offset)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
