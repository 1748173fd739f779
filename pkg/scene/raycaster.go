package scene

import (
	"sort"

	"github.com/philipparndt/gopin/pkg/geometry"
)

// Intersection is a single ray hit
type Intersection struct {
	Distance float64
	Point    geometry.Vector3
	Object   *Object
	Face     int // index into Object.Mesh
}

// Raycaster tests a ray against scene objects
type Raycaster struct {
	Ray geometry.Ray
	// Far limits the hit distance; zero means unlimited
	Far float64
}

// NewRaycaster creates a raycaster with no ray set
func NewRaycaster() *Raycaster {
	return &Raycaster{}
}

// SetFromCamera points the ray from the camera through ndc
func (r *Raycaster) SetFromCamera(ndc geometry.Vector2, camera *Camera) {
	r.Ray = camera.RayFromNDC(ndc)
	r.Far = camera.Far
}

// IntersectObject returns every hit on the object (and, if recursive, its
// descendants), nearest first
func (r *Raycaster) IntersectObject(o *Object, recursive bool) []Intersection {
	var hits []Intersection
	if recursive {
		o.Traverse(func(n *Object) {
			hits = r.intersectMesh(n, hits)
		})
	} else {
		hits = r.intersectMesh(o, hits)
	}
	sortByDistance(hits)
	return hits
}

// IntersectObjects tests each object and merges the hits, nearest first
func (r *Raycaster) IntersectObjects(objects []*Object, recursive bool) []Intersection {
	var hits []Intersection
	for _, o := range objects {
		hits = append(hits, r.IntersectObject(o, recursive)...)
	}
	sortByDistance(hits)
	return hits
}

func (r *Raycaster) intersectMesh(o *Object, hits []Intersection) []Intersection {
	if len(o.Mesh) == 0 || !o.IsVisible() {
		return hits
	}
	if _, ok := r.Ray.IntersectBox(o.WorldBoundingBox()); !ok {
		return hits
	}

	for i, t := range o.Mesh {
		dist, ok := r.Ray.IntersectTriangle(t.Transform(o.LocalToWorld))
		if !ok || (r.Far > 0 && dist > r.Far) {
			continue
		}
		hits = append(hits, Intersection{
			Distance: dist,
			Point:    r.Ray.At(dist),
			Object:   o,
			Face:     i,
		})
	}
	return hits
}

func sortByDistance(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
}
