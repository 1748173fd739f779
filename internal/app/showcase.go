package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gopin/internal/config"
	"github.com/philipparndt/gopin/internal/loader"
	"github.com/philipparndt/gopin/internal/showcase"
	"github.com/philipparndt/gopin/pkg/geometry"
)

// RunShowcase opens the primitive scene with hover highlighting and the
// photo cube, and blocks until the window is closed
func RunShowcase(cfg *config.Config) error {
	highlightColor, err := geometry.ParseColor(cfg.Highlight.Color)
	if err != nil {
		return fmt.Errorf("invalid highlight color: %w", err)
	}
	timeout, err := time.ParseDuration(cfg.Textures.Timeout)
	if err != nil {
		return fmt.Errorf("invalid texture timeout: %w", err)
	}

	a := newApp(cfg, "Showcase")

	sc := showcase.Build(a.ctx.Scene)
	a.ctx.Controls.LookAt(showcase.CameraPosition, geometry.Vector3{})
	a.ctx.EnableHighlight(sc.HoverCandidates(), highlightColor)
	a.scenePass.decorations = append(a.scenePass.decorations, drawHelpers, starField(sc.Stars))
	a.hud.info = []string{"Showcase", "  Hover the blue cubes below the collection"}

	ctx, cancel := context.WithCancel(context.Background())
	a.onClose(cancel)

	textures := loader.NewTextureManager(&http.Client{Timeout: timeout}, cfg.Textures.MaxSize)
	a.pollers = append(a.pollers, func() { textures.Poll() })

	a.hud.startLoading()
	textures.LoadAll(ctx, cfg.Textures.URLs,
		func(url string, loaded, total int) {
			a.hud.progress = loader.Percent(int64(loaded), int64(total))
		},
		func(results []loader.Texture) {
			a.hud.stopLoading()
			applyPhotoCube(a, sc, results)
		})

	a.run()
	return nil
}

// applyPhotoCube adds the photo cube and maps one texture per face, cycling
// when fewer textures than faces arrived. Failed faces stay white.
func applyPhotoCube(a *App, sc *showcase.Scene, results []loader.Texture) {
	sc.AddPhotoCube()
	if len(results) == 0 {
		return
	}

	failed := 0
	for i, face := range sc.PhotoFaces {
		tex := results[i%len(results)]
		if tex.Err != nil || tex.Image == nil {
			failed++
			continue
		}
		a.meshes.setTexture(face.ID, tex.Image)
	}
	if failed > 0 {
		a.hud.showError(fmt.Errorf("%d photo cube face(s) without texture", failed))
	}
}

// drawHelpers draws the ground grid and the world axes
func drawHelpers() {
	rl.DrawGrid(10, 1)
	origin := rl.Vector3{}
	rl.DrawLine3D(origin, rl.Vector3{X: 3}, rl.Red)
	rl.DrawLine3D(origin, rl.Vector3{Y: 3}, rl.Green)
	rl.DrawLine3D(origin, rl.Vector3{Z: 3}, rl.Blue)
}

func starField(points []geometry.Vector3) func() {
	stars := make([]rl.Vector3, len(points))
	for i, p := range points {
		stars[i] = toRaylibVector(p)
	}
	color := toRaylibColor(showcase.StarColor)
	return func() {
		for _, s := range stars {
			rl.DrawCubeV(s, rl.Vector3{X: 0.05, Y: 0.05, Z: 0.05}, color)
		}
	}
}
