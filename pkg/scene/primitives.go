package scene

import (
	"math"

	"github.com/philipparndt/gopin/pkg/geometry"
)

// BoxMesh returns a box of the given size centered on the origin
func BoxMesh(width, height, depth float64) []geometry.Triangle {
	mesh := make([]geometry.Triangle, 0, 12)
	for _, f := range BoxFaces(width, height, depth) {
		mesh = append(mesh, f[:]...)
	}
	return mesh
}

// BoxFaces returns the six faces of a box in +Z, -Z, +X, -X, +Y, -Y order.
// Each face is a quad split into (q0, q1, q2) and (q0, q2, q3), where q0 is
// the bottom left corner seen from outside and the corners run counter-clockwise.
func BoxFaces(width, height, depth float64) [6][2]geometry.Triangle {
	x, y, z := width/2, height/2, depth/2
	v := func(a, b, c float64) geometry.Vector3 { return geometry.NewVector3(a, b, c) }

	quads := [6][4]geometry.Vector3{
		{v(-x, -y, z), v(x, -y, z), v(x, y, z), v(-x, y, z)},     // +Z
		{v(x, -y, -z), v(-x, -y, -z), v(-x, y, -z), v(x, y, -z)}, // -Z
		{v(x, -y, z), v(x, -y, -z), v(x, y, -z), v(x, y, z)},     // +X
		{v(-x, -y, -z), v(-x, -y, z), v(-x, y, z), v(-x, y, -z)}, // -X
		{v(-x, y, z), v(x, y, z), v(x, y, -z), v(-x, y, -z)},     // +Y
		{v(-x, -y, -z), v(x, -y, -z), v(x, -y, z), v(-x, -y, z)}, // -Y
	}

	var faces [6][2]geometry.Triangle
	for i, q := range quads {
		faces[i] = [2]geometry.Triangle{face(q[0], q[1], q[2]), face(q[0], q[2], q[3])}
	}
	return faces
}

// SphereMesh returns a UV sphere centered on the origin
func SphereMesh(radius float64, widthSegments, heightSegments int) []geometry.Triangle {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	point := func(u, v int) geometry.Vector3 {
		phi := float64(u) / float64(widthSegments) * 2 * math.Pi
		theta := float64(v) / float64(heightSegments) * math.Pi
		return geometry.NewVector3(
			-radius*math.Cos(phi)*math.Sin(theta),
			radius*math.Cos(theta),
			radius*math.Sin(phi)*math.Sin(theta),
		)
	}

	var mesh []geometry.Triangle
	for v := 0; v < heightSegments; v++ {
		for u := 0; u < widthSegments; u++ {
			a := point(u, v)
			b := point(u+1, v)
			c := point(u+1, v+1)
			d := point(u, v+1)
			if v != 0 {
				mesh = append(mesh, face(a, d, b))
			}
			if v != heightSegments-1 {
				mesh = append(mesh, face(b, d, c))
			}
		}
	}
	return mesh
}

// SpherePoints returns the vertices of a UV sphere without duplicates at the poles
func SpherePoints(radius float64, widthSegments, heightSegments int) []geometry.Vector3 {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	points := []geometry.Vector3{geometry.NewVector3(0, radius, 0)}
	for v := 1; v < heightSegments; v++ {
		theta := float64(v) / float64(heightSegments) * math.Pi
		for u := 0; u < widthSegments; u++ {
			phi := float64(u) / float64(widthSegments) * 2 * math.Pi
			points = append(points, geometry.NewVector3(
				-radius*math.Cos(phi)*math.Sin(theta),
				radius*math.Cos(theta),
				radius*math.Sin(phi)*math.Sin(theta),
			))
		}
	}
	return append(points, geometry.NewVector3(0, -radius, 0))
}

func face(a, b, c geometry.Vector3) geometry.Triangle {
	t := geometry.Triangle{V1: a, V2: b, V3: c}
	t.Normal = t.CalculateNormal()
	return t
}
