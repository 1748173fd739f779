// Package app is the raylib runtime: it opens the window, turns input into
// viewer events and draws the scene, the overlay and the HUD every frame.
package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/internal/config"
	"github.com/philipparndt/gopin/internal/controls"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/viewer"
	"github.com/rs/zerolog"
)

var background = rl.NewColor(15, 18, 25, 255)

// App is one open window
type App struct {
	ctx         *viewer.Context
	meshes      *meshCache
	scenePass   *scenePass
	overlayPass *overlayPass
	font        rl.Font
	hud         hudState

	// pollers run once per frame before input, on the main thread
	pollers []func()
	// closers run in reverse order when the window closes
	closers []func()

	log zerolog.Logger
}

// newApp opens the window titled for subject and wires the viewer context
// to the raylib render passes
func newApp(cfg *config.Config, subject string) *App {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.TitleFor(subject))
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))
	// Esc cancels prompts instead of closing the window
	rl.SetExitKey(rl.KeyNull)

	ctx := viewer.New(viewer.Options{
		Width:    rl.GetScreenWidth(),
		Height:   rl.GetScreenHeight(),
		Fov:      cfg.Camera.Fov,
		Near:     cfg.Camera.Near,
		Far:      cfg.Camera.Far,
		Controls: controlSettings(cfg.Controls),
	})

	a := &App{
		ctx:    ctx,
		meshes: newMeshCache(),
		font:   rl.GetFontDefault(),
		hud:    hudState{showHelp: true},
		log:    logging.For("app"),
	}
	a.scenePass = newScenePass(a.meshes)
	a.overlayPass = newOverlayPass(a.font)
	ctx.SetRenderers(a.scenePass, a.overlayPass)
	return a
}

func controlSettings(c config.ControlsConfig) controls.Settings {
	return controls.Settings{
		Damping:     c.Damping,
		RotateSpeed: c.RotateSpeed,
		PanSpeed:    c.PanSpeed,
		ZoomSpeed:   c.ZoomSpeed,
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
	}
}

// onClose registers cleanup that must run before the window closes
func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// run drives the main loop until the window is closed
func (a *App) run() {
	defer a.close()

	for !rl.WindowShouldClose() {
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyC) {
			break
		}

		if rl.IsWindowResized() {
			a.ctx.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		// Deliver background results on the main thread
		for _, poll := range a.pollers {
			poll()
		}

		a.handleInput()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		a.ctx.Frame()
		a.drawUI()
		rl.EndDrawing()
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.meshes.close()
	rl.CloseWindow()
}
