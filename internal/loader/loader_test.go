package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		loaded, total int64
		want          float64
	}{
		{50, 200, 25},
		{1, 3, 33.33},
		{2, 3, 66.66},
		{999, 1000, 99.9},
		{12345, 100000, 12.34},
		{100, 100, 100},
		{10, 0, 0},
		{10, -1, 0},
		{0, 100, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.loaded, tt.total), "%d/%d", tt.loaded, tt.total)
	}
}

// binarySTL builds a binary STL with n copies of one triangle
func binarySTL(n int) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(n))
	for i := 0; i < n; i++ {
		facet := [12]float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0}
		_ = binary.Write(&buf, binary.LittleEndian, facet)
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

type result struct {
	model    *stl.Model
	err      error
	progress [][2]int64
}

func loadAndWait(t *testing.T, l *ModelLoader, source string) result {
	t.Helper()
	var r result
	done := false
	l.Load(context.Background(), source, Callbacks{
		OnProgress: func(loaded, total int64) { r.progress = append(r.progress, [2]int64{loaded, total}) },
		OnLoad:     func(m *stl.Model) { r.model = m; done = true },
		OnError:    func(err error) { r.err = err; done = true },
	})

	deadline := time.Now().Add(5 * time.Second)
	for !done {
		require.True(t, time.Now().Before(deadline), "load of %s timed out", source)
		l.Poll()
		time.Sleep(time.Millisecond)
	}
	assert.False(t, l.Busy())
	return r
}

func TestLoadFile(t *testing.T) {
	data := binarySTL(2000)
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r := loadAndWait(t, NewModelLoader(nil, nil), path)

	require.NoError(t, r.err)
	assert.Equal(t, 2000, r.model.TriangleCount())
	assert.Equal(t, "part.stl", r.model.Name)

	require.NotEmpty(t, r.progress)
	last := r.progress[len(r.progress)-1]
	assert.Equal(t, int64(len(data)), last[0])
	assert.Equal(t, int64(len(data)), last[1])
	for i := 1; i < len(r.progress); i++ {
		assert.GreaterOrEqual(t, r.progress[i][0], r.progress[i-1][0])
	}
}

func TestLoadNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, binarySTL(3), 0o644))
	l := NewModelLoader(nil, nil)

	model, err := l.LoadNow(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 3, model.TriangleCount())
	assert.Zero(t, l.Poll())
	assert.False(t, l.Busy())
}

func TestLoadHTTP(t *testing.T) {
	data := binarySTL(10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/bracket.stl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewModelLoader(srv.Client(), nil)

	r := loadAndWait(t, l, srv.URL+"/models/bracket.stl")
	require.NoError(t, r.err)
	assert.Equal(t, 10, r.model.TriangleCount())
	assert.Equal(t, "bracket.stl", r.model.Name)

	r = loadAndWait(t, l, srv.URL+"/missing.stl")
	require.Error(t, r.err)
	assert.Nil(t, r.model)
	assert.Contains(t, r.err.Error(), "404")
}

type fakeS3 struct {
	s3iface.S3API
	data []byte
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if *in.Bucket != "models" || *in.Key != "parts/hinge.stl" {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(f.data)),
		ContentLength: aws.Int64(int64(len(f.data))),
	}, nil
}

func TestLoadObjectStore(t *testing.T) {
	objects := objstore.NewWithAPI(&fakeS3{data: binarySTL(4)}, "")

	r := loadAndWait(t, NewModelLoader(nil, objects), "s3://models/parts/hinge.stl")

	require.NoError(t, r.err)
	assert.Equal(t, 4, r.model.TriangleCount())
	assert.Equal(t, "hinge.stl", r.model.Name)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		is     error
	}{
		{"unsupported scheme", "ftp://host/part.stl", ErrUnsupportedSource},
		{"no object store", "s3://models/part.stl", ErrNoObjectStore},
		{"missing file", filepath.Join(t.TempDir(), "missing.stl"), os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := loadAndWait(t, NewModelLoader(nil, nil), tt.source)
			assert.ErrorIs(t, r.err, tt.is)
			assert.Nil(t, r.model)
		})
	}
}

func TestIsLocalSource(t *testing.T) {
	assert.True(t, IsLocalSource("models/part.stl"))
	assert.False(t, IsLocalSource("https://example.com/part.stl"))
	assert.False(t, IsLocalSource("s3://bucket/part.stl"))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTextureManagerLoadAll(t *testing.T) {
	large := pngBytes(t, 400, 200)
	small := pngBytes(t, 20, 30)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/large.png":
			_, _ = w.Write(large)
		case "/small.png":
			_, _ = w.Write(small)
		case "/garbage.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	urls := []string{
		srv.URL + "/large.png",
		srv.URL + "/missing.png",
		srv.URL + "/small.png",
		srv.URL + "/garbage.png",
	}

	m := NewTextureManager(srv.Client(), 100)
	var counts []int
	var totals []int
	var textures []Texture
	loads := 0
	m.LoadAll(context.Background(), urls,
		func(url string, loaded, total int) {
			assert.Contains(t, urls, url)
			counts = append(counts, loaded)
			totals = append(totals, total)
		},
		func(ts []Texture) {
			loads++
			textures = ts
		})

	deadline := time.Now().Add(5 * time.Second)
	for loads == 0 {
		require.True(t, time.Now().Before(deadline), "textures timed out")
		m.Poll()
		time.Sleep(time.Millisecond)
	}
	m.Poll()

	assert.Equal(t, 1, loads)
	assert.Equal(t, []int{1, 2, 3, 4}, counts)
	assert.Equal(t, []int{4, 4, 4, 4}, totals)

	require.Len(t, textures, 4)
	for i, tex := range textures {
		assert.Equal(t, urls[i], tex.URL)
	}

	require.NoError(t, textures[0].Err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), textures[0].Image.Bounds())

	assert.Error(t, textures[1].Err)
	assert.Nil(t, textures[1].Image)

	require.NoError(t, textures[2].Err)
	assert.Equal(t, image.Rect(0, 0, 20, 30), textures[2].Image.Bounds())

	assert.Error(t, textures[3].Err)
}

func TestTextureManagerEmpty(t *testing.T) {
	m := NewTextureManager(nil, 0)
	called := false

	m.LoadAll(context.Background(), nil, nil, func(ts []Texture) {
		called = true
		assert.Empty(t, ts)
	})
	m.Poll()

	assert.True(t, called)
}
