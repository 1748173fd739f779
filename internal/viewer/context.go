// Package viewer holds the application context shared by input handling
// and rendering: scene, camera, viewport, overlay, controls and the
// interaction controllers.
package viewer

import (
	"time"

	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/controls"
	"github.com/philipparndt/gopin/internal/highlight"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/overlay"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/rs/zerolog"
)

// Renderer is a drawing surface sized to the viewport
type Renderer interface {
	SetSize(width, height int)
}

// SceneRenderer draws the 3D scene
type SceneRenderer interface {
	Renderer
	RenderScene(s *scene.Scene, camera scene.Camera)
}

// OverlayRenderer draws the 2D overlay on top of the scene
type OverlayRenderer interface {
	Renderer
	RenderOverlay(layout []overlay.Placed, camera scene.Camera)
}

// Options configure a new Context
type Options struct {
	Width, Height int
	Fov           float64
	Near, Far     float64
	Controls      controls.Settings
	Now           func() time.Time
}

// Context is the state of one viewer window
type Context struct {
	Scene    *scene.Scene
	Camera   *scene.Camera
	Viewport *scene.Viewport
	Overlay  *overlay.Overlay
	Controls *controls.Orbit

	Highlight   *highlight.Controller
	Annotations *annotation.Controller

	model       *scene.Object
	framed      bool
	renderers   []Renderer
	scenePass   SceneRenderer
	overlayPass OverlayRenderer

	clock       *Clock
	now         func() time.Time
	doubleClick *DoubleClickDetector

	log zerolog.Logger
}

// New creates a context with an empty scene
func New(opts Options) *Context {
	vp := &scene.Viewport{Width: opts.Width, Height: opts.Height}
	cam := scene.NewPerspectiveCamera(opts.Fov, vp.Aspect(), opts.Near, opts.Far)
	cam.Position = geometry.NewVector3(0, 0, 5)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Context{
		Scene:       scene.New(),
		Camera:      cam,
		Viewport:    vp,
		Overlay:     overlay.New(),
		Controls:    controls.New(cam, opts.Controls),
		clock:       NewClock(now),
		now:         now,
		doubleClick: NewDoubleClickDetector(),
		log:         logging.For("viewer"),
	}
}

// SetRenderers registers the scene and overlay passes and sizes them
func (c *Context) SetRenderers(scenePass SceneRenderer, overlayPass OverlayRenderer) {
	c.scenePass = scenePass
	c.overlayPass = overlayPass
	c.renderers = c.renderers[:0]
	if scenePass != nil {
		c.renderers = append(c.renderers, scenePass)
	}
	if overlayPass != nil {
		c.renderers = append(c.renderers, overlayPass)
	}
	for _, r := range c.renderers {
		r.SetSize(c.Viewport.Width, c.Viewport.Height)
	}
}

// EnableHighlight starts hover highlighting over candidates. Their current
// colors become the colors restored on exit.
func (c *Context) EnableHighlight(candidates []*scene.Object, color geometry.Color) {
	c.Highlight = highlight.New(highlight.NewRegistry(candidates), c.Camera, c.Viewport, color)
}

// EnableAnnotations starts double-click annotation of the loaded model
func (c *Context) EnableAnnotations(prompter annotation.Prompter, opts ...annotation.Option) {
	c.Annotations = annotation.New(c.Camera, c.Viewport, c, c.Overlay, prompter, opts...)
}

// Model returns the loaded model, or nil before loading completes
func (c *Context) Model() *scene.Object {
	return c.model
}

// SetModel adds the model to the scene, replacing any previous one. The
// camera is framed on the first model with geometry only so reloads keep
// the view.
func (c *Context) SetModel(m *scene.Object) {
	if c.model != nil {
		c.Scene.Remove(c.model)
	}
	c.model = m
	if m == nil {
		return
	}
	c.Scene.Add(m)
	if bbox := m.WorldBoundingBox(); !c.framed && !bbox.IsEmpty() {
		c.Controls.Frame(bbox)
		c.framed = true
	}
	c.log.Info().Str("model", m.Name).Int("triangles", len(m.Mesh)).Msg("model ready")
}

// Resize adapts the camera and all renderers to a new window size
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		c.log.Debug().Int("width", width).Int("height", height).Msg("ignoring degenerate resize")
		return
	}
	c.Viewport.Width = width
	c.Viewport.Height = height
	c.Camera.SetAspect(float64(width) / float64(height))
	for _, r := range c.renderers {
		r.SetSize(width, height)
	}
}

// Frame advances one frame using the context clock
func (c *Context) Frame() {
	c.Step(c.clock.Delta())
}

// Step advances one frame of dt seconds: controls first, then the scene
// pass, then the overlay pass with the same camera value.
func (c *Context) Step(dt float64) {
	c.Controls.Update(dt)

	camera := *c.Camera
	if c.scenePass != nil {
		c.scenePass.RenderScene(c.Scene, camera)
	}
	if c.overlayPass != nil {
		c.overlayPass.RenderOverlay(c.Overlay.Layout(&camera, *c.Viewport), camera)
	}
}

// PointerMove handles a pointer move in window pixels
func (c *Context) PointerMove(x, y float64) {
	if c.Highlight != nil {
		c.Highlight.HandleMove(x, y)
	}
}

// PointerPress handles a primary button press in window pixels. A press on
// a delete button is consumed; otherwise two close presses form a double
// click that creates an annotation.
func (c *Context) PointerPress(x, y float64) {
	if c.Annotations == nil {
		return
	}
	if c.Annotations.HandleClick(x, y) {
		c.doubleClick.Cancel()
		return
	}
	if !c.doubleClick.Press(geometry.NewVector2(x, y), c.now()) {
		return
	}
	if _, err := c.Annotations.HandleDoubleClick(x, y); err != nil {
		c.log.Debug().Err(err).Msg("no annotation created")
	}
}
