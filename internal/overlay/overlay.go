// Package overlay keeps 2D UI elements pinned to world-space anchors. It knows
// nothing about how the elements are drawn; renderers consume the layout.
package overlay

import (
	"github.com/google/uuid"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
)

// Label metrics in pixels, shared by layout and drawing
const (
	CharWidth    = 8.0
	LineHeight   = 16.0
	Padding      = 6.0
	ButtonSize   = 16.0
	ButtonMargin = 4.0
	MaxTextWidth = 240.0
)

// Element is a piece of UI attached to a point in the scene
type Element struct {
	ID     uuid.UUID
	Anchor geometry.Vector3
	Text   string
	// Deletable elements get a delete button in their layout
	Deletable bool
}

// Placed is an element projected into screen space for one frame
type Placed struct {
	Element *Element
	Anchor  geometry.Vector2 // pixel position of the anchor
	Depth   float64
	Label   geometry.Rect
	Delete  geometry.Rect // zero when the element is not deletable
}

// Overlay is the set of elements currently attached to the scene
type Overlay struct {
	order    []uuid.UUID
	elements map[uuid.UUID]*Element
}

// New creates an empty overlay
func New() *Overlay {
	return &Overlay{elements: make(map[uuid.UUID]*Element)}
}

// Add attaches an element, replacing any element with the same id
func (o *Overlay) Add(e *Element) {
	if _, exists := o.elements[e.ID]; !exists {
		o.order = append(o.order, e.ID)
	}
	o.elements[e.ID] = e
}

// Remove detaches an element and drops every reference to it
func (o *Overlay) Remove(id uuid.UUID) bool {
	if _, exists := o.elements[id]; !exists {
		return false
	}
	delete(o.elements, id)
	for i, existing := range o.order {
		if existing == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the element with the given id
func (o *Overlay) Get(id uuid.UUID) (*Element, bool) {
	e, ok := o.elements[id]
	return e, ok
}

// Len returns the number of attached elements
func (o *Overlay) Len() int {
	return len(o.order)
}

// Elements returns the attached elements in insertion order
func (o *Overlay) Elements() []*Element {
	out := make([]*Element, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.elements[id])
	}
	return out
}

// Layout projects every element through camera into the viewport. Elements
// behind the camera are left out. The result is in insertion order, so later
// elements draw on top.
func (o *Overlay) Layout(camera *scene.Camera, viewport scene.Viewport) []Placed {
	placed := make([]Placed, 0, len(o.order))
	for _, e := range o.Elements() {
		ndc, depth, ok := camera.Project(e.Anchor)
		if !ok {
			continue
		}
		placed = append(placed, place(e, viewport.FromNDC(ndc), depth))
	}
	return placed
}

// place computes the label box above the anchor, centered horizontally,
// with the delete button in its top-right corner
func place(e *Element, anchor geometry.Vector2, depth float64) Placed {
	textWidth := float64(len([]rune(e.Text))) * CharWidth
	if textWidth > MaxTextWidth {
		textWidth = MaxTextWidth
	}

	width := textWidth + 2*Padding
	if e.Deletable {
		width += ButtonSize + ButtonMargin
	}
	height := LineHeight + 2*Padding

	p := Placed{
		Element: e,
		Anchor:  anchor,
		Depth:   depth,
		Label: geometry.Rect{
			X:      anchor.X - width/2,
			Y:      anchor.Y - height - ButtonMargin,
			Width:  width,
			Height: height,
		},
	}
	if e.Deletable {
		p.Delete = geometry.Rect{
			X:      p.Label.X + p.Label.Width - ButtonSize - ButtonMargin,
			Y:      p.Label.Y + (height-ButtonSize)/2,
			Width:  ButtonSize,
			Height: ButtonSize,
		}
	}
	return p
}

// HitDelete returns the id of the element whose delete button contains point.
// Later elements are on top and win.
func HitDelete(layout []Placed, point geometry.Vector2) (uuid.UUID, bool) {
	for i := len(layout) - 1; i >= 0; i-- {
		p := layout[i]
		if p.Element.Deletable && p.Delete.Contains(point) {
			return p.Element.ID, true
		}
	}
	return uuid.Nil, false
}

// HitLabel returns the topmost element whose label contains point
func HitLabel(layout []Placed, point geometry.Vector2) (*Element, bool) {
	for i := len(layout) - 1; i >= 0; i-- {
		if layout[i].Label.Contains(point) {
			return layout[i].Element, true
		}
	}
	return nil, false
}
