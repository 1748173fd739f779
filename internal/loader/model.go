// Package loader fetches models and textures off the main thread and hands
// the results back through Poll.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/pkg/stl"
	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedSource is returned for sources that are neither a local
	// path, an http(s) URL nor an s3:// location
	ErrUnsupportedSource = errors.New("unsupported model source")
	// ErrNoObjectStore is returned for s3:// sources without a configured client
	ErrNoObjectStore = errors.New("object storage not configured")
)

// Callbacks receive load events on the goroutine that calls Poll
type Callbacks struct {
	OnProgress func(loaded, total int64)
	OnLoad     func(model *stl.Model)
	OnError    func(err error)
}

// ModelLoader loads STL models from files, http(s) or object storage
type ModelLoader struct {
	client  *http.Client
	objects *objstore.Client
	events  queue
	active  atomic.Int32
	log     zerolog.Logger
}

// NewModelLoader creates a loader. objects may be nil when s3:// sources
// are not needed.
func NewModelLoader(client *http.Client, objects *objstore.Client) *ModelLoader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ModelLoader{client: client, objects: objects, log: logging.For("loader")}
}

// Load starts loading source in the background. Exactly one of OnLoad or
// OnError follows, delivered by Poll.
func (l *ModelLoader) Load(ctx context.Context, source string, cb Callbacks) {
	l.active.Add(1)
	go func() {
		start := time.Now()
		model, err := l.load(ctx, source, cb.OnProgress)
		if err != nil {
			l.log.Warn().Err(err).Str("source", source).Msg("model load failed")
			l.events.post(func() {
				l.active.Add(-1)
				if cb.OnError != nil {
					cb.OnError(err)
				}
			})
			return
		}

		l.log.Info().
			Str("source", source).
			Int("triangles", model.TriangleCount()).
			Dur("elapsed", time.Since(start)).
			Msg("model loaded")
		l.events.post(func() {
			l.active.Add(-1)
			if cb.OnLoad != nil {
				cb.OnLoad(model)
			}
		})
	}()
}

// Busy reports whether a load is in flight or its result awaits Poll
func (l *ModelLoader) Busy() bool {
	return l.active.Load() > 0
}

// LoadNow loads source on the calling goroutine, for command line use where
// there is no frame loop to deliver results
func (l *ModelLoader) LoadNow(ctx context.Context, source string) (*stl.Model, error) {
	return l.load(ctx, source, nil)
}

// Poll runs pending callbacks on the calling goroutine and returns how many ran
func (l *ModelLoader) Poll() int {
	return l.events.drain()
}

func (l *ModelLoader) load(ctx context.Context, source string, onProgress func(loaded, total int64)) (*stl.Model, error) {
	body, size, name, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	if size < 0 {
		size = 0
	}

	var lastPercent float64 = -1
	progress := func(loaded, total int64) {
		if onProgress == nil {
			return
		}
		// Only queue events that change the displayed value
		p := Percent(loaded, total)
		if p == lastPercent && loaded != total {
			return
		}
		lastPercent = p
		l.events.post(func() { onProgress(loaded, total) })
	}

	model, err := stl.ParseReader(body, size, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if model.Name == "" {
		model.Name = name
	}
	return model, nil
}

// open returns the model bytes, their size (-1 when unknown) and a display name
func (l *ModelLoader) open(ctx context.Context, source string) (io.ReadCloser, int64, string, error) {
	switch {
	case objstore.IsLocation(source):
		if l.objects == nil {
			return nil, 0, "", fmt.Errorf("%s: %w", source, ErrNoObjectStore)
		}
		loc, err := objstore.ParseLocation(source)
		if err != nil {
			return nil, 0, "", err
		}
		body, size, err := l.objects.Get(ctx, loc)
		if err != nil {
			return nil, 0, "", err
		}
		return body, size, path.Base(loc.Key), nil

	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, 0, "", fmt.Errorf("invalid url %s: %w", source, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, 0, "", fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, "", fmt.Errorf("failed to fetch %s: status %s", source, resp.Status)
		}
		name := source
		if u, err := url.Parse(source); err == nil {
			name = path.Base(u.Path)
		}
		return resp.Body, resp.ContentLength, name, nil

	case strings.Contains(source, "://"):
		return nil, 0, "", fmt.Errorf("%s: %w", source, ErrUnsupportedSource)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to open %s: %w", source, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, "", fmt.Errorf("failed to stat %s: %w", source, err)
	}
	return f, info.Size(), filepath.Base(source), nil
}

// IsLocalSource reports whether source refers to a local file
func IsLocalSource(source string) bool {
	return !strings.Contains(source, "://")
}
