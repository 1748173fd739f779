// Package snapshot renders a model and its annotations to an image without
// a window, using a software rasterizer.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/internal/overlay"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/philipparndt/gopin/pkg/stl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyModel is returned for models without triangles
var ErrEmptyModel = errors.New("model has no triangles")

// PinRadius is the radius of annotation dots in pixels
const PinRadius = 5

// Options control the rendering
type Options struct {
	Width, Height int
	// Supersampling factor; the image is rendered this many times larger
	// and scaled down
	Scale      int
	Fov        float64
	Color      geometry.Color
	Background geometry.Color
	PinColor   geometry.Color
	// Direction from the model center toward the camera
	ViewDirection geometry.Vector3
	Labels        bool
}

// DefaultOptions returns a 1024x768 render from the front right
func DefaultOptions() Options {
	return Options{
		Width:         1024,
		Height:        768,
		Scale:         2,
		Fov:           45,
		Color:         0x6496c8,
		Background:    0xf0f0f0,
		PinColor:      0xe03c31,
		ViewDirection: geometry.NewVector3(1, 0.8, 1.4),
		Labels:        true,
	}
}

// Camera returns the camera the snapshot of model is rendered with
func Camera(model *stl.Model, opts Options) *scene.Camera {
	bbox := model.BoundingBox()
	radius := bbox.Diagonal() / 2
	if radius == 0 {
		radius = 1
	}

	cam := scene.NewPerspectiveCamera(opts.Fov, float64(opts.Width)/float64(opts.Height), radius/100, radius*100)
	dir := opts.ViewDirection.Normalize()
	if dir == (geometry.Vector3{}) {
		dir = geometry.NewVector3(0, 0, 1)
	}
	// Distance at which the bounding sphere fits the vertical field of view
	distance := radius / math.Sin(opts.Fov*math.Pi/180/2)
	cam.Target = bbox.Center()
	cam.Position = cam.Target.Add(dir.Mul(distance))
	return cam
}

// Render draws model shaded with its annotations pinned on top
func Render(model *stl.Model, annotations []annotation.Annotation, opts Options) (*image.RGBA, error) {
	if len(model.Triangles) == 0 {
		return nil, ErrEmptyModel
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", opts.Width, opts.Height)
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}

	log := logging.For("snapshot")
	cam := Camera(model, opts)

	dc := fauxgl.NewContext(opts.Width*opts.Scale, opts.Height*opts.Scale)
	dc.ClearColorBufferWith(toFauxColor(opts.Background))
	dc.Cull = fauxgl.CullNone

	eye := toFauxVector(cam.Position)
	matrix := fauxgl.LookAt(eye, toFauxVector(cam.Target), toFauxVector(cam.Up)).
		Perspective(cam.Fovy, cam.Aspect, cam.Near, cam.Far)
	light := toFauxVector(cam.Position.Sub(cam.Target)).Normalize()
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = toFauxColor(opts.Color)
	dc.Shader = shader

	dc.DrawMesh(toFauxMesh(model))

	rendered := dc.Image()
	if opts.Scale > 1 {
		rendered = resize.Resize(uint(opts.Width), uint(opts.Height), rendered, resize.Bilinear)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), rendered, rendered.Bounds().Min, draw.Src)

	drawPins(img, cam, annotations, opts)

	log.Info().
		Int("triangles", len(model.Triangles)).
		Int("annotations", len(annotations)).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Msg("rendered")
	return img, nil
}

func drawPins(img *image.RGBA, cam *scene.Camera, annotations []annotation.Annotation, opts Options) {
	ov := overlay.New()
	for _, a := range annotations {
		ov.Add(&overlay.Element{ID: a.ID, Anchor: a.Anchor, Text: a.Text})
	}

	viewport := scene.Viewport{Width: opts.Width, Height: opts.Height}
	pin := toRGBA(opts.PinColor)
	for _, p := range ov.Layout(cam, viewport) {
		fillCircle(img, p.Anchor, PinRadius, pin)
		if opts.Labels {
			drawLabel(img, p)
		}
	}
}

func drawLabel(img *image.RGBA, p overlay.Placed) {
	r := p.Label
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	draw.Draw(img, rect, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	text := p.Element.Text
	maxChars := int((r.Width - 2*overlay.Padding) / overlay.CharWidth)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	baseline := int(r.Y + r.Height/2 + float64(face.Ascent-face.Descent)/2)
	d.Dot = fixed.P(int(r.X+r.Width/2)-width/2, baseline)
	d.DrawString(text)
}

func fillCircle(img *image.RGBA, center geometry.Vector2, radius int, c color.RGBA) {
	cx, cy := int(math.Round(center.X)), int(math.Round(center.Y))
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > r2 {
				continue
			}
			px, py := cx+x, cy+y
			if image.Pt(px, py).In(img.Rect) {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img to fit within size x size
func Thumbnail(img image.Image, size uint) image.Image {
	return resize.Thumbnail(size, size, img, resize.Lanczos3)
}

// Upload stores PNG data in object storage
func Upload(ctx context.Context, client *objstore.Client, loc objstore.Location, data []byte) error {
	return client.Put(ctx, loc, data, "image/png")
}

func toFauxMesh(model *stl.Model) *fauxgl.Mesh {
	triangles := make([]*fauxgl.Triangle, 0, len(model.Triangles))
	for _, t := range model.Triangles {
		if t.Area() == 0 {
			continue
		}
		triangles = append(triangles, fauxgl.NewTriangleForPoints(
			toFauxVector(t.V1), toFauxVector(t.V2), toFauxVector(t.V3)))
	}
	return fauxgl.NewTriangleMesh(triangles)
}

func toFauxVector(v geometry.Vector3) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func toFauxColor(c geometry.Color) fauxgl.Color {
	return fauxgl.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
		A: 1,
	}
}

func toRGBA(c geometry.Color) color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 255}
}
