package app

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const maxPromptLength = 200

// Prompt shows a modal text input and blocks until Enter or Esc. It keeps
// drawing the scene while it waits, so the window stays responsive.
func (a *App) Prompt(message string) (string, bool) {
	var text []rune
	start := time.Now()

	for !rl.WindowShouldClose() {
		for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
			if len(text) < maxPromptLength {
				text = append(text, r)
			}
		}
		if rl.IsKeyPressed(rl.KeyBackspace) && len(text) > 0 {
			text = text[:len(text)-1]
		}
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
			return string(text), true
		}
		if rl.IsKeyPressed(rl.KeyEscape) {
			return "", false
		}

		if rl.IsWindowResized() {
			a.ctx.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		rl.BeginDrawing()
		rl.ClearBackground(background)
		a.ctx.Step(0)
		a.drawUI()
		a.drawPrompt(message, string(text), time.Since(start))
		rl.EndDrawing()
	}
	return "", false
}

func (a *App) drawPrompt(message, text string, elapsed time.Duration) {
	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, int32(screenWidth), int32(screenHeight), rl.NewColor(0, 0, 0, 120))

	box := rl.Rectangle{
		X:      screenWidth/2 - 220,
		Y:      screenHeight/2 - 55,
		Width:  440,
		Height: 110,
	}
	rl.DrawRectangleRec(box, labelBackground)
	rl.DrawRectangleLinesEx(box, 2, labelBorder)
	rl.DrawTextEx(a.font, message, rl.Vector2{X: box.X + 15, Y: box.Y + 12}, 18, 1, labelBorder)

	field := rl.Rectangle{X: box.X + 15, Y: box.Y + 42, Width: box.Width - 30, Height: 28}
	rl.DrawRectangleRec(field, rl.NewColor(40, 40, 40, 255))
	rl.DrawRectangleLinesEx(field, 1, rl.Gray)

	// Show the tail of long input
	shown := text
	for len(shown) > 0 && rl.MeasureTextEx(a.font, shown, 16, 1).X > field.Width-16 {
		shown = string([]rune(shown)[1:])
	}
	if elapsed.Milliseconds()/500%2 == 0 {
		shown += "_"
	}
	rl.DrawTextEx(a.font, shown, rl.Vector2{X: field.X + 6, Y: field.Y + 6}, 16, 1, labelText)

	rl.DrawTextEx(a.font, "Enter: save   Esc: cancel", rl.Vector2{X: box.X + 15, Y: box.Y + 82}, 12, 1, rl.LightGray)
}
