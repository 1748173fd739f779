// Package highlight colors the candidate object under the pointer and
// restores its original color when the pointer leaves it.
package highlight

import (
	"github.com/google/uuid"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/rs/zerolog"
)

// DefaultColor is the highlight color used when none is configured
const DefaultColor geometry.Color = 0xffa500

// State is the controller state
type State int

const (
	// Idle means no candidate is highlighted
	Idle State = iota
	// Highlighting means exactly one candidate carries the highlight color
	Highlighting
)

func (s State) String() string {
	if s == Highlighting {
		return "highlighting"
	}
	return "idle"
}

// Registry records the original color of every candidate. It is built once
// and never changes, so a restore always writes back the recorded value.
type Registry struct {
	candidates []*scene.Object
	colors     map[uuid.UUID]geometry.Color
}

// NewRegistry snapshots the current material color of each candidate
func NewRegistry(candidates []*scene.Object) *Registry {
	r := &Registry{
		candidates: make([]*scene.Object, 0, len(candidates)),
		colors:     make(map[uuid.UUID]geometry.Color, len(candidates)),
	}
	for _, o := range candidates {
		if o == nil {
			continue
		}
		if _, dup := r.colors[o.ID]; dup {
			continue
		}
		r.candidates = append(r.candidates, o)
		r.colors[o.ID] = o.Material.Color
	}
	return r
}

// Candidates returns the objects eligible for highlighting
func (r *Registry) Candidates() []*scene.Object {
	return r.candidates
}

// Original returns the color recorded for id
func (r *Registry) Original(id uuid.UUID) (geometry.Color, bool) {
	c, ok := r.colors[id]
	return c, ok
}

// Controller drives the hover state machine
type Controller struct {
	registry  *Registry
	camera    *scene.Camera
	viewport  *scene.Viewport
	color     geometry.Color
	raycaster *scene.Raycaster
	current   *scene.Object
	log       zerolog.Logger
}

// New creates a controller over an already populated registry
func New(registry *Registry, camera *scene.Camera, viewport *scene.Viewport, color geometry.Color) *Controller {
	return &Controller{
		registry:  registry,
		camera:    camera,
		viewport:  viewport,
		color:     color,
		raycaster: scene.NewRaycaster(),
		log:       logging.For("highlight"),
	}
}

// State returns Idle or Highlighting
func (c *Controller) State() State {
	if c.current == nil {
		return Idle
	}
	return Highlighting
}

// Highlighted returns the highlighted object, if any
func (c *Controller) Highlighted() (*scene.Object, bool) {
	return c.current, c.current != nil
}

// HandleMove processes one pointer move at pixel coordinates (x, y).
//
// A move from one candidate directly onto another only restores the first;
// the new candidate is highlighted by the following move.
func (c *Controller) HandleMove(x, y float64) {
	c.raycaster.SetFromCamera(c.viewport.ToNDC(x, y), c.camera)
	hits := c.raycaster.IntersectObjects(c.registry.Candidates(), false)

	if len(hits) == 0 {
		c.Reset()
		return
	}

	target := hits[0].Object
	if c.current != nil && c.current != target {
		c.Reset()
		return
	}
	if c.current == target {
		return
	}

	c.current = target
	target.Material.Color = c.color
	c.log.Debug().Str("object", target.Name).Msg("highlight")
}

// Reset restores the highlighted object, if any, and returns to Idle
func (c *Controller) Reset() {
	if c.current == nil {
		return
	}
	if original, ok := c.registry.Original(c.current.ID); ok {
		c.current.Material.Color = original
	} else {
		c.log.Warn().Str("object", c.current.Name).Msg("highlighted object missing from registry")
	}
	c.log.Debug().Str("object", c.current.Name).Msg("restore")
	c.current = nil
}
