package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/version"
)

const errorDisplayTime = 6 * time.Second

var helpLines = []string{
	"Left drag: rotate   Right/middle drag: pan   Wheel: zoom",
	"Double-click model: add comment   X: delete comment",
	"1-4/T/B: views   Home/R: reset   H: hide help",
}

type hudState struct {
	loading      bool
	loadingStart time.Time
	progress     float64 // percent

	info []string

	err   string
	errAt time.Time

	showHelp bool
}

func (h *hudState) startLoading() {
	h.loading = true
	h.loadingStart = time.Now()
	h.progress = 0
}

func (h *hudState) stopLoading() {
	h.loading = false
}

func (h *hudState) showError(err error) {
	h.err = err.Error()
	h.errAt = time.Now()
}

// drawUI draws the HUD on top of the scene and overlay
func (a *App) drawUI() {
	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())

	y := float32(10)
	for i, line := range a.hud.info {
		color := rl.White
		size := float32(14)
		if i == 0 {
			color = rl.Yellow
			size = 16
		}
		rl.DrawTextEx(a.font, line, rl.Vector2{X: 10, Y: y}, size, 1, color)
		y += 20
	}

	if a.hud.loading {
		a.drawLoading(screenWidth)
	}

	if a.hud.err != "" && time.Since(a.hud.errAt) < errorDisplayTime {
		text := "Error: " + a.hud.err
		size := rl.MeasureTextEx(a.font, text, 16, 1)
		boxY := screenHeight - size.Y - 60
		rl.DrawRectangle(10, int32(boxY), int32(size.X+20), int32(size.Y+16), rl.NewColor(60, 0, 0, 200))
		rl.DrawRectangleLines(10, int32(boxY), int32(size.X+20), int32(size.Y+16), rl.Red)
		rl.DrawTextEx(a.font, text, rl.Vector2{X: 20, Y: boxY + 8}, 16, 1, rl.Red)
	}

	if a.hud.showHelp {
		helpY := screenHeight - float32(len(helpLines))*18 - 10
		for _, line := range helpLines {
			rl.DrawTextEx(a.font, line, rl.Vector2{X: screenWidth - 470, Y: helpY}, 12, 1, rl.LightGray)
			helpY += 18
		}
	}

	// Version and FPS (bottom left)
	versionText := fmt.Sprintf("gopin %s", version.GetVersion())
	rl.DrawTextEx(a.font, versionText, rl.Vector2{X: 10, Y: screenHeight - 25}, 12, 1, rl.Gray)
	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	rl.DrawTextEx(a.font, fpsText, rl.Vector2{X: 110, Y: screenHeight - 25}, 12, 1, rl.Gray)
}

// drawLoading draws the progress box in the top-right corner
func (a *App) drawLoading(screenWidth float32) {
	elapsed := time.Since(a.hud.loadingStart).Seconds()
	spinnerChars := []string{"|", "/", "-", "\\"}
	spinnerIdx := int(elapsed*10) % len(spinnerChars)
	loadingText := fmt.Sprintf("%s Loading: %.2f%%", spinnerChars[spinnerIdx], a.hud.progress)

	boxWidth := float32(250)
	boxHeight := float32(48)
	boxX := screenWidth - boxWidth - 20
	boxY := float32(20)

	rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)

	textSize := rl.MeasureTextEx(a.font, loadingText, 18, 1)
	textX := boxX + (boxWidth-textSize.X)/2
	rl.DrawTextEx(a.font, loadingText, rl.Vector2{X: textX, Y: boxY + 8}, 18, 1, rl.Yellow)

	barWidth := (boxWidth - 20) * float32(a.hud.progress/100)
	rl.DrawRectangle(int32(boxX+10), int32(boxY+boxHeight-12), int32(barWidth), 4, rl.Yellow)
}
