package scene

import "github.com/google/uuid"

// Scene is the root of the object graph
type Scene struct {
	objects []*Object
}

// New creates an empty scene
func New() *Scene {
	return &Scene{}
}

// Add attaches root objects. Adding an object twice is a no-op.
func (s *Scene) Add(objects ...*Object) {
	for _, o := range objects {
		if o == nil || s.contains(o) {
			continue
		}
		if o.parent != nil {
			o.parent.Remove(o)
		}
		s.objects = append(s.objects, o)
	}
}

// Remove detaches a root object or, failing that, removes it from its parent.
// It returns false if the object was not part of the scene.
func (s *Scene) Remove(o *Object) bool {
	for i, root := range s.objects {
		if root == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	if o.parent != nil && s.Find(o.ID) != nil {
		return o.parent.Remove(o)
	}
	return false
}

// Objects returns the root objects
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Traverse visits every object in the scene depth first
func (s *Scene) Traverse(fn func(*Object)) {
	for _, o := range s.objects {
		o.Traverse(fn)
	}
}

// Find looks up an object by id anywhere in the graph
func (s *Scene) Find(id uuid.UUID) *Object {
	var found *Object
	s.Traverse(func(o *Object) {
		if found == nil && o.ID == id {
			found = o
		}
	})
	return found
}

func (s *Scene) contains(o *Object) bool {
	for _, root := range s.objects {
		if root == o {
			return true
		}
	}
	return false
}
