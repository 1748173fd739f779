package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/config"
	"github.com/philipparndt/gopin/internal/loader"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/internal/store"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/philipparndt/gopin/pkg/stl"
	"github.com/philipparndt/gopin/pkg/watcher"
)

const (
	modelColor     geometry.Color = 0x6478c8
	reloadDebounce                = 500 * time.Millisecond
)

// RunViewer opens the annotation viewer for a model path, http(s) URL or
// s3:// location and blocks until the window is closed
func RunViewer(cfg *config.Config, source string) error {
	local := loader.IsLocalSource(source)

	var objects *objstore.Client
	if objstore.IsLocation(source) {
		client, err := objstore.New(cfg.S3)
		if err != nil {
			return err
		}
		objects = client
	}

	var models *store.ModelStore
	if cfg.Storage.Enabled {
		path := cfg.Storage.Path
		if path == "" {
			var err error
			if path, err = store.DefaultPath(source, local); err != nil {
				return err
			}
		}
		db, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open annotation store: %w", err)
		}
		defer db.Close()
		models = db.ForModel(store.ModelKey(source, local))
	}

	a := newApp(cfg, filepath.Base(source))

	ctx, cancel := context.WithCancel(context.Background())
	a.onClose(cancel)

	var opts []annotation.Option
	if models != nil {
		opts = append(opts, annotation.WithStore(models))
	}
	a.ctx.EnableAnnotations(a, opts...)

	v := &modelView{app: a, source: source, store: models, loader: loader.NewModelLoader(nil, objects)}
	a.pollers = append(a.pollers, func() { v.loader.Poll() }, v.reloadIfChanged)
	v.load(ctx)

	if local {
		if err := v.watch(); err != nil {
			a.log.Warn().Err(err).Msg("auto-reload will not be available")
		}
	}

	a.run()
	return nil
}

// modelView loads the model into the app and keeps it current
type modelView struct {
	app      *App
	source   string
	store    *store.ModelStore
	loader   *loader.ModelLoader
	restored bool

	ctx         context.Context
	needsReload atomic.Bool
}

func (v *modelView) load(ctx context.Context) {
	v.ctx = ctx
	v.app.hud.startLoading()
	v.loader.Load(ctx, v.source, loader.Callbacks{
		OnProgress: func(loaded, total int64) {
			v.app.hud.progress = loader.Percent(loaded, total)
		},
		OnLoad: v.apply,
		OnError: func(err error) {
			v.app.hud.stopLoading()
			v.app.hud.showError(err)
		},
	})
}

// apply swaps in a freshly loaded model. Runs on the main thread.
func (v *modelView) apply(model *stl.Model) {
	v.app.hud.stopLoading()
	v.app.ctx.SetModel(scene.NewObject(model.Name, model.Triangles, modelColor))

	bbox := model.BoundingBox()
	size := bbox.Size()
	v.app.hud.info = []string{
		model.Name,
		fmt.Sprintf("  Triangles: %d", model.TriangleCount()),
		fmt.Sprintf("  Size: %.2f x %.2f x %.2f", size.X, size.Y, size.Z),
	}

	if v.restored || v.store == nil {
		return
	}
	v.restored = true
	list, err := v.store.List()
	if err != nil {
		v.app.log.Warn().Err(err).Msg("failed to restore annotations")
		return
	}
	v.app.ctx.Annotations.Restore(list)
	v.app.log.Info().Int("count", len(list)).Msg("annotations restored")
}

func (v *modelView) watch() error {
	fw, err := watcher.NewFileWatcher(reloadDebounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Watch([]string{v.source}, func(string) { v.needsReload.Store(true) }); err != nil {
		fw.Close()
		return err
	}
	fw.Start()
	v.app.onClose(func() { fw.Close() })
	return nil
}

// reloadIfChanged starts a reload once the previous load has finished.
// Annotations stay attached across reloads.
func (v *modelView) reloadIfChanged() {
	if v.loader.Busy() || !v.needsReload.CompareAndSwap(true, false) {
		return
	}
	v.app.log.Info().Str("source", v.source).Msg("model changed, reloading")
	v.load(v.ctx)
}
