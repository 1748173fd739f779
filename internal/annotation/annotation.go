// Package annotation turns double clicks on the loaded model into comment
// pins anchored at the clicked surface point.
package annotation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/overlay"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/rs/zerolog"
)

// PromptMessage is shown when asking for the comment text
const PromptMessage = "Add comment:"

var (
	// ErrModelNotLoaded is returned for interactions before the model is available
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrNoTarget is returned when the pointer ray misses the model
	ErrNoTarget = errors.New("no model surface under pointer")
	// ErrPromptCancelled is returned when the user dismisses the prompt
	ErrPromptCancelled = errors.New("comment prompt cancelled")
	// ErrNotFound is returned when deleting an unknown annotation
	ErrNotFound = errors.New("annotation not found")
)

// Annotation is a user comment pinned to a point on the model
type Annotation struct {
	ID        uuid.UUID
	Anchor    geometry.Vector3
	Text      string
	CreatedAt time.Time
}

// Prompter asks the user for a line of text. It blocks until the user
// confirms (ok is true) or cancels.
type Prompter interface {
	Prompt(message string) (text string, ok bool)
}

// PrompterFunc adapts a function to the Prompter interface
type PrompterFunc func(message string) (string, bool)

// Prompt calls f
func (f PrompterFunc) Prompt(message string) (string, bool) {
	return f(message)
}

// Store persists annotations
type Store interface {
	Save(a Annotation) error
	Delete(id uuid.UUID) error
}

// ModelSource yields the loaded model, or nil while it is still loading
type ModelSource interface {
	Model() *scene.Object
}

// Controller owns the annotations of one model
type Controller struct {
	camera    *scene.Camera
	viewport  *scene.Viewport
	models    ModelSource
	overlay   *overlay.Overlay
	prompter  Prompter
	store     Store
	raycaster *scene.Raycaster
	now       func() time.Time

	order       []uuid.UUID
	annotations map[uuid.UUID]*Annotation

	log zerolog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithStore persists every created and deleted annotation
func WithStore(s Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller. Pins are registered on ov.
func New(camera *scene.Camera, viewport *scene.Viewport, models ModelSource, ov *overlay.Overlay, prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		camera:      camera,
		viewport:    viewport,
		models:      models,
		overlay:     ov,
		prompter:    prompter,
		raycaster:   scene.NewRaycaster(),
		now:         time.Now,
		annotations: make(map[uuid.UUID]*Annotation),
		log:         logging.For("annotation"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleDoubleClick creates an annotation at the model surface under the
// pixel coordinates (x, y). Nothing is created on error.
func (c *Controller) HandleDoubleClick(x, y float64) (*Annotation, error) {
	model := c.models.Model()
	if model == nil {
		c.log.Debug().Msg("double click before model load ignored")
		return nil, ErrModelNotLoaded
	}

	c.raycaster.SetFromCamera(c.viewport.ToNDC(x, y), c.camera)
	hits := c.raycaster.IntersectObject(model, true)
	if len(hits) == 0 {
		c.log.Debug().Float64("x", x).Float64("y", y).Msg("no surface under pointer")
		return nil, ErrNoTarget
	}
	anchor := hits[0].Point

	text, ok := c.prompter.Prompt(PromptMessage)
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		return nil, ErrPromptCancelled
	}

	a := Annotation{
		ID:        uuid.New(),
		Anchor:    anchor,
		Text:      text,
		CreatedAt: c.now(),
	}
	c.attach(a)

	if c.store != nil {
		if err := c.store.Save(a); err != nil {
			c.log.Warn().Err(err).Str("id", a.ID.String()).Msg("failed to persist annotation")
		}
	}

	c.log.Info().Str("id", a.ID.String()).Str("text", a.Text).Msg("annotation added")
	return &a, nil
}

// HandleClick activates the delete button under (x, y), if any. It reports
// whether the click hit a delete button; a failed delete still consumes it.
func (c *Controller) HandleClick(x, y float64) bool {
	layout := c.overlay.Layout(c.camera, *c.viewport)
	id, ok := overlay.HitDelete(layout, geometry.NewVector2(x, y))
	if !ok {
		return false
	}
	if _, known := c.annotations[id]; !known {
		return false
	}
	if err := c.Delete(id); err != nil {
		c.log.Warn().Err(err).Msg("delete failed")
	}
	return true
}

// Delete removes the annotation and its pin. The store is updated first;
// when that fails the annotation stays so it does not reappear on restore.
func (c *Controller) Delete(id uuid.UUID) error {
	if _, ok := c.annotations[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	if c.store != nil {
		if err := c.store.Delete(id); err != nil {
			return fmt.Errorf("delete %s from store: %w", id, err)
		}
	}

	c.overlay.Remove(id)
	delete(c.annotations, id)
	for i, other := range c.order {
		if other == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.log.Info().Str("id", id.String()).Msg("annotation deleted")
	return nil
}

// Restore re-attaches previously persisted annotations without saving them again
func (c *Controller) Restore(list []Annotation) {
	for _, a := range list {
		c.attach(a)
	}
	if len(list) > 0 {
		c.log.Info().Int("count", len(list)).Msg("annotations restored")
	}
}

// Annotations returns the annotations in creation order
func (c *Controller) Annotations() []Annotation {
	result := make([]Annotation, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, *c.annotations[id])
	}
	return result
}

// Get returns the annotation with the given id
func (c *Controller) Get(id uuid.UUID) (Annotation, bool) {
	a, ok := c.annotations[id]
	if !ok {
		return Annotation{}, false
	}
	return *a, true
}

func (c *Controller) attach(a Annotation) {
	if _, exists := c.annotations[a.ID]; !exists {
		c.order = append(c.order, a.ID)
	}
	stored := a
	c.annotations[a.ID] = &stored
	c.overlay.Add(&overlay.Element{
		ID:        a.ID,
		Anchor:    a.Anchor,
		Text:      a.Text,
		Deletable: true,
	})
}
