package scene

import (
	"github.com/google/uuid"
	"github.com/philipparndt/gopin/pkg/geometry"
)

// Material holds the surface properties an object is drawn with
type Material struct {
	Color geometry.Color
}

// Object is a node in the scene graph. Objects without a mesh act as groups.
type Object struct {
	ID       uuid.UUID
	Name     string
	Mesh     []geometry.Triangle // local space
	Position geometry.Vector3
	Scale    geometry.Vector3
	Material Material
	Visible  bool

	parent   *Object
	children []*Object
}

// NewObject creates a visible mesh object with unit scale
func NewObject(name string, mesh []geometry.Triangle, color geometry.Color) *Object {
	return &Object{
		ID:       uuid.New(),
		Name:     name,
		Mesh:     mesh,
		Scale:    geometry.NewVector3(1, 1, 1),
		Material: Material{Color: color},
		Visible:  true,
	}
}

// NewGroup creates an object with no geometry of its own
func NewGroup(name string) *Object {
	return NewObject(name, nil, 0)
}

// Parent returns the parent object or nil for roots
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns the direct children
func (o *Object) Children() []*Object {
	return o.children
}

// Add attaches children, detaching them from any previous parent
func (o *Object) Add(children ...*Object) {
	for _, c := range children {
		if c == nil || c == o {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = o
		o.children = append(o.children, c)
	}
}

// Remove detaches a direct child. It returns false if child was not attached here.
func (o *Object) Remove(child *Object) bool {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits the object and all descendants depth first
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Traverse(fn)
	}
}

// LocalToWorld maps a point from the object's local space to world space
func (o *Object) LocalToWorld(p geometry.Vector3) geometry.Vector3 {
	for n := o; n != nil; n = n.parent {
		p = p.MulComponents(n.Scale).Add(n.Position)
	}
	return p
}

// WorldPosition returns the object's origin in world space
func (o *Object) WorldPosition() geometry.Vector3 {
	return o.LocalToWorld(geometry.Vector3{})
}

// WorldTriangles returns the object's own mesh transformed to world space
func (o *Object) WorldTriangles() []geometry.Triangle {
	out := make([]geometry.Triangle, len(o.Mesh))
	for i, t := range o.Mesh {
		out[i] = t.Transform(o.LocalToWorld)
	}
	return out
}

// WorldBoundingBox returns the bounds of the object's own mesh in world space
func (o *Object) WorldBoundingBox() geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	for _, t := range o.Mesh {
		box.Extend(o.LocalToWorld(t.V1))
		box.Extend(o.LocalToWorld(t.V2))
		box.Extend(o.LocalToWorld(t.V3))
	}
	return box
}

// IsVisible reports whether the object and all its ancestors are visible
func (o *Object) IsVisible() bool {
	for n := o; n != nil; n = n.parent {
		if !n.Visible {
			return false
		}
	}
	return true
}
