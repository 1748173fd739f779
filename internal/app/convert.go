package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
)

func toRaylibColor(c geometry.Color) rl.Color {
	return rl.NewColor(c.R(), c.G(), c.B(), 255)
}

func toRaylibVector(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func toRaylibCamera(c scene.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   toRaylibVector(c.Position),
		Target:     toRaylibVector(c.Target),
		Up:         toRaylibVector(c.Up),
		Fovy:       float32(c.Fovy),
		Projection: rl.CameraPerspective,
	}
}

func toRaylibRect(r geometry.Rect) rl.Rectangle {
	return rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.Width), Height: float32(r.Height)}
}
