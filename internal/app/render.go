package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/internal/overlay"
	"github.com/philipparndt/gopin/pkg/scene"
)

// Label style
var (
	labelBackground = rl.NewColor(20, 20, 20, 220)
	labelBorder     = rl.NewColor(255, 200, 0, 255)
	labelText       = rl.White
	deleteHover     = rl.NewColor(220, 60, 50, 255)
	pinColor        = rl.NewColor(224, 60, 49, 255)
)

const labelFontSize = float32(16)

// scenePass draws scene objects through the mesh cache. Decorations such as
// grids or point clouds are drawn inside the same 3D mode.
type scenePass struct {
	meshes      *meshCache
	decorations []func()
	width       int
	height      int
}

func newScenePass(meshes *meshCache) *scenePass {
	return &scenePass{meshes: meshes}
}

func (p *scenePass) SetSize(width, height int) {
	p.width, p.height = width, height
}

func (p *scenePass) RenderScene(s *scene.Scene, camera scene.Camera) {
	rl.BeginMode3D(toRaylibCamera(camera))

	s.Traverse(func(o *scene.Object) {
		if len(o.Mesh) == 0 || !o.IsVisible() {
			return
		}
		p.meshes.draw(o)
	})
	p.meshes.sweep()

	for _, decorate := range p.decorations {
		decorate()
	}

	rl.EndMode3D()
}

// overlayPass draws annotation labels with a pin at the anchor and a delete
// button
type overlayPass struct {
	font   rl.Font
	width  int
	height int
}

func newOverlayPass(font rl.Font) *overlayPass {
	return &overlayPass{font: font}
}

func (p *overlayPass) SetSize(width, height int) {
	p.width, p.height = width, height
}

func (p *overlayPass) RenderOverlay(layout []overlay.Placed, _ scene.Camera) {
	mouse := rl.GetMousePosition()

	for _, placed := range layout {
		anchor := rl.Vector2{X: float32(placed.Anchor.X), Y: float32(placed.Anchor.Y)}
		rect := toRaylibRect(placed.Label)

		rl.DrawLineEx(anchor, rl.Vector2{X: anchor.X, Y: rect.Y + rect.Height}, 2, labelBorder)
		rl.DrawCircleV(anchor, 4, pinColor)

		rl.DrawRectangleRec(rect, labelBackground)
		rl.DrawRectangleLinesEx(rect, 1.5, labelBorder)

		textRect := rect
		textRect.X += overlay.Padding
		textRect.Width -= 2 * overlay.Padding
		if placed.Element.Deletable {
			textRect.Width -= overlay.ButtonSize + overlay.ButtonMargin
		}
		rl.BeginScissorMode(int32(textRect.X), int32(rect.Y), int32(textRect.Width), int32(rect.Height))
		rl.DrawTextEx(p.font, placed.Element.Text,
			rl.Vector2{X: textRect.X, Y: rect.Y + overlay.Padding}, labelFontSize, 1, labelText)
		rl.EndScissorMode()

		if placed.Element.Deletable {
			p.drawDeleteButton(toRaylibRect(placed.Delete), mouse)
		}
	}
}

func (p *overlayPass) drawDeleteButton(rect rl.Rectangle, mouse rl.Vector2) {
	color := labelBorder
	if rl.CheckCollisionPointRec(mouse, rect) {
		color = deleteHover
		rl.DrawRectangleRec(rect, rl.NewColor(60, 20, 20, 220))
	}
	inset := float32(4)
	rl.DrawLineEx(
		rl.Vector2{X: rect.X + inset, Y: rect.Y + inset},
		rl.Vector2{X: rect.X + rect.Width - inset, Y: rect.Y + rect.Height - inset}, 2, color)
	rl.DrawLineEx(
		rl.Vector2{X: rect.X + rect.Width - inset, Y: rect.Y + inset},
		rl.Vector2{X: rect.X + inset, Y: rect.Y + rect.Height - inset}, 2, color)
}
