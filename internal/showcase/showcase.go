// Package showcase builds the primitive demo scene: a cube collection, two
// hover cubes, a small solar system, a star field and a photo cube whose
// faces are textured once remote images arrive.
package showcase

import (
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
)

// Colors of the scene objects
const (
	CubeColor      geometry.Color = 0xffa500
	BigCubeColor   geometry.Color = 0x6030ff
	SmallCubeColor geometry.Color = 0xff5555
	HoverColor     geometry.Color = 0x0000ff
	Hover2Color    geometry.Color = 0x00aaff
	SunColor       geometry.Color = 0xffff00
	EarthColor     geometry.Color = 0x0000ff
	MoonColor      geometry.Color = 0xffffff
	StarColor      geometry.Color = 0xffffff
	PhotoColor     geometry.Color = 0xffffff
)

// CubeSize is the edge length shared by all cubes before scaling
const CubeSize = 0.5

// Scene is the assembled showcase
type Scene struct {
	Collection *scene.Object
	Cube       *scene.Object
	BigCube    *scene.Object
	SmallCube  *scene.Object

	HoverCube  *scene.Object
	HoverCube2 *scene.Object

	SolarSystem *scene.Object
	Sun         *scene.Object
	Earth       *scene.Object
	Moon        *scene.Object

	// Stars are drawn as points, not meshes
	Stars []geometry.Vector3

	// PhotoCube is nil until AddPhotoCube
	PhotoCube *scene.Object
	// PhotoFaces are the six face objects of the photo cube in +Z, -Z, +X,
	// -X, +Y, -Y order
	PhotoFaces []*scene.Object
}

// CameraPosition is where the showcase camera starts
var CameraPosition = geometry.NewVector3(-6, 1, 3)

// Build creates the showcase objects and adds them to s
func Build(s *scene.Scene) *Scene {
	box := scene.BoxMesh(CubeSize, CubeSize, CubeSize)
	sc := &Scene{}

	sc.Cube = scene.NewObject("cube", box, CubeColor)
	sc.Cube.Position = geometry.NewVector3(1, 0, 0)

	sc.BigCube = scene.NewObject("bigCube", box, BigCubeColor)
	sc.BigCube.Scale = geometry.NewVector3(2, 2, 2)
	sc.BigCube.Position = geometry.NewVector3(3, 0, 0)

	sc.SmallCube = scene.NewObject("smallCube", box, SmallCubeColor)
	sc.SmallCube.Position = geometry.NewVector3(-0.75, 0, 0)
	sc.SmallCube.Scale = geometry.NewVector3(1.5, 1.5, 1.5)

	sc.Collection = scene.NewGroup("cubeCollection")
	sc.Collection.Add(sc.Cube, sc.SmallCube, sc.BigCube)

	sc.HoverCube = scene.NewObject("hoverCube", box, HoverColor)
	sc.HoverCube.Position = geometry.NewVector3(0, -1, 0)

	sc.HoverCube2 = scene.NewObject("hoverCube2", box, Hover2Color)
	sc.HoverCube2.Position = geometry.NewVector3(0, -2, 0)

	sphere := scene.SphereMesh(0.5, 32, 16)
	sc.Sun = scene.NewObject("sun", sphere, SunColor)
	sc.Earth = scene.NewObject("earth", sphere, EarthColor)
	sc.Earth.Position = geometry.NewVector3(5, 0, 0)
	sc.Moon = scene.NewObject("moon", sphere, MoonColor)
	sc.Moon.Scale = geometry.NewVector3(0.5, 0.5, 0.5)
	sc.Moon.Position = geometry.NewVector3(1, 0, 0)
	sc.Earth.Add(sc.Moon)
	sc.Sun.Add(sc.Earth)
	sc.SolarSystem = scene.NewGroup("solarSystem")
	sc.SolarSystem.Add(sc.Sun)

	sc.Stars = scene.SpherePoints(10, 24, 28)

	s.Add(sc.Collection, sc.HoverCube, sc.HoverCube2, sc.SolarSystem)
	return sc
}

// HoverCandidates returns the objects that highlight under the pointer
func (sc *Scene) HoverCandidates() []*scene.Object {
	return []*scene.Object{sc.HoverCube, sc.HoverCube2}
}

// AddPhotoCube creates the photo cube, moves it into the collection and
// lifts the collection. Calling it again returns the existing cube.
func (sc *Scene) AddPhotoCube() *scene.Object {
	if sc.PhotoCube != nil {
		return sc.PhotoCube
	}

	sc.PhotoCube = scene.NewGroup("photoCube")
	sc.PhotoCube.Position = geometry.NewVector3(-3, 0, 0)
	sc.PhotoCube.Scale = geometry.NewVector3(2, 2, 2)

	for _, f := range scene.BoxFaces(CubeSize, CubeSize, CubeSize) {
		obj := scene.NewObject("photoFace", f[:], PhotoColor)
		sc.PhotoCube.Add(obj)
		sc.PhotoFaces = append(sc.PhotoFaces, obj)
	}

	sc.Collection.Add(sc.PhotoCube)
	sc.Collection.Position = geometry.NewVector3(0, 5, 0)
	return sc.PhotoCube
}
