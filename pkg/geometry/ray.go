package geometry

import "math"

// rayEpsilon rejects near-parallel rays and hits behind the origin
const rayEpsilon = 1e-9

// Ray is a half-line from Origin along the unit vector Direction
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray; direction is normalized
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectTriangle returns the distance to the triangle along the ray
// (Möller–Trumbore). Both faces are hit.
func (r Ray) IntersectTriangle(t Triangle) (float64, bool) {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	// Comparisons are written so that NaN fails them
	if !(math.Abs(a) >= rayEpsilon) {
		return 0, false
	}

	f := 1.0 / a
	s := r.Origin.Sub(t.V1)
	u := f * s.Dot(h)
	if !(u >= 0 && u <= 1) {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if !(v >= 0 && u+v <= 1) {
		return 0, false
	}

	dist := f * edge2.Dot(q)
	if !(dist > rayEpsilon) {
		return 0, false
	}
	return dist, true
}

// IntersectBox reports whether the ray crosses the box and the entry distance
// (slab method). A ray starting inside the box enters at 0.
func (r Ray) IntersectBox(b BoundingBox) (float64, bool) {
	if b.IsEmpty() {
		return 0, false
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < rayEpsilon {
			if !(origin[i] >= lo[i] && origin[i] <= hi[i]) {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if !(tMin <= tMax) {
			return 0, false
		}
	}

	if !(tMax >= 0) {
		return 0, false
	}
	return math.Max(tMin, 0), true
}
