package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/internal/controls"
)

var viewKeys = map[int32]controls.View{
	rl.KeyOne:   controls.ViewFront,
	rl.KeyTwo:   controls.ViewBack,
	rl.KeyThree: controls.ViewLeft,
	rl.KeyFour:  controls.ViewRight,
	rl.KeyT:     controls.ViewTop,
	rl.KeyB:     controls.ViewBottom,
}

// handleInput turns this frame's mouse and keyboard state into viewer events
// and camera control input
func (a *App) handleInput() {
	mousePos := rl.GetMousePosition()
	delta := rl.GetMouseDelta()
	x, y := float64(mousePos.X), float64(mousePos.Y)

	if delta.X != 0 || delta.Y != 0 {
		a.ctx.PointerMove(x, y)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.ctx.PointerPress(x, y)
	}

	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	leftDown := rl.IsMouseButtonDown(rl.MouseLeftButton)
	panDown := rl.IsMouseButtonDown(rl.MouseMiddleButton) || rl.IsMouseButtonDown(rl.MouseRightButton)

	switch {
	case leftDown && !shiftPressed:
		a.ctx.Controls.Rotate(float64(delta.X), float64(delta.Y))
	case leftDown || panDown:
		a.ctx.Controls.Pan(float64(delta.X), float64(delta.Y))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.ctx.Controls.Zoom(float64(wheel))
	}

	if rl.IsKeyPressed(rl.KeyHome) || rl.IsKeyPressed(rl.KeyR) {
		a.ctx.Controls.Reset()
	}
	for key, view := range viewKeys {
		if rl.IsKeyPressed(key) {
			a.ctx.Controls.SetView(view)
		}
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.hud.showHelp = !a.hud.showHelp
	}
}
