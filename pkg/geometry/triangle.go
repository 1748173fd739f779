package geometry

// Triangle is a single facet with its stored normal
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a triangle from a normal and three vertices
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// CalculateNormal derives the face normal from the winding order.
// Degenerate triangles return the zero vector.
func (t Triangle) CalculateNormal() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2
}

// EdgeLengths returns the lengths of V1-V2, V2-V3 and V3-V1
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the sum of the edge lengths
func (t Triangle) Perimeter() float64 {
	e := t.EdgeLengths()
	return e[0] + e[1] + e[2]
}

// Center returns the centroid
func (t Triangle) Center() Vector3 {
	sum := t.V1.Add(t.V2).Add(t.V3)
	return Vector3{X: sum.X / 3, Y: sum.Y / 3, Z: sum.Z / 3}
}

// SignedVolume returns the signed volume of the tetrahedron spanned with the origin.
// Summed over a closed mesh it yields the enclosed volume.
func (t Triangle) SignedVolume() float64 {
	return t.V1.Dot(t.V2.Cross(t.V3)) / 6
}

// Transform maps every vertex through fn and recomputes the normal
func (t Triangle) Transform(fn func(Vector3) Vector3) Triangle {
	out := Triangle{V1: fn(t.V1), V2: fn(t.V2), V3: fn(t.V3)}
	out.Normal = out.CalculateNormal()
	return out
}
