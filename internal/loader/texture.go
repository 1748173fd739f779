package loader

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"github.com/nfnt/resize"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Texture is a decoded image ready for upload. Err is set when the image
// could not be fetched or decoded; Image is nil then.
type Texture struct {
	URL   string
	Image *image.RGBA
	Err   error
}

// TextureProgressFunc receives the last finished URL with the number of
// finished items and the total
type TextureProgressFunc func(url string, loaded, total int)

// TextureManager loads groups of remote images with aggregate progress
type TextureManager struct {
	client  *http.Client
	maxSize uint
	events  queue
	log     zerolog.Logger
}

// NewTextureManager creates a manager. Images larger than maxSize on either
// edge are scaled down; 0 keeps the original size.
func NewTextureManager(client *http.Client, maxSize uint) *TextureManager {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TextureManager{client: client, maxSize: maxSize, log: logging.For("textures")}
}

// LoadAll fetches every URL concurrently. onProgress runs once per finished
// item, failures included, and onLoad runs once with all results in input
// order. Both are delivered by Poll.
func (m *TextureManager) LoadAll(ctx context.Context, urls []string, onProgress TextureProgressFunc, onLoad func([]Texture)) {
	results := make([]Texture, len(urls))
	total := len(urls)

	if total == 0 {
		if onLoad != nil {
			m.events.post(func() { onLoad(results) })
		}
		return
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		loaded int
	)
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()

			img, err := m.fetch(ctx, u)
			if err != nil {
				m.log.Warn().Err(err).Str("url", u).Msg("texture load failed")
			}
			results[i] = Texture{URL: u, Image: img, Err: err}

			mu.Lock()
			loaded++
			n := loaded
			// Posting under the lock keeps progress counts ordered
			if onProgress != nil {
				m.events.post(func() { onProgress(u, n, total) })
			}
			mu.Unlock()
		}(i, u)
	}

	go func() {
		wg.Wait()
		m.log.Info().Int("count", total).Msg("textures loaded")
		if onLoad != nil {
			m.events.post(func() { onLoad(results) })
		}
	}()
}

// Poll runs pending callbacks on the calling goroutine and returns how many ran
func (m *TextureManager) Poll() int {
	return m.events.drain()
}

func (m *TextureManager) fetch(ctx context.Context, url string) (*image.RGBA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	m.log.Debug().Str("url", url).Str("format", format).Msg("decoded")

	return m.normalize(img), nil
}

// normalize downsizes img to the configured maximum and converts it to RGBA
func (m *TextureManager) normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	if m.maxSize > 0 && (uint(b.Dx()) > m.maxSize || uint(b.Dy()) > m.maxSize) {
		img = resize.Thumbnail(m.maxSize, m.maxSize, img, resize.Lanczos3)
		b = img.Bounds()
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
