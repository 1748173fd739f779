package viewer

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/controls"
	"github.com/philipparndt/gopin/internal/highlight"
	"github.com/philipparndt/gopin/internal/overlay"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	pass   string
	camera scene.Camera
	count  int
}

type recorder struct {
	calls []call
}

type recordingRenderer struct {
	name          string
	width, height int
	rec           *recorder
}

func (r *recordingRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *recordingRenderer) RenderScene(s *scene.Scene, camera scene.Camera) {
	r.rec.calls = append(r.rec.calls, call{pass: r.name, camera: camera, count: len(s.Objects())})
}

func (r *recordingRenderer) RenderOverlay(layout []overlay.Placed, camera scene.Camera) {
	r.rec.calls = append(r.rec.calls, call{pass: r.name, camera: camera, count: len(layout)})
}

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	return f.t
}

func (f *fakeTime) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newContext(clock *fakeTime) (*Context, *recordingRenderer, *recordingRenderer, *recorder) {
	ctx := New(Options{
		Width:    1400,
		Height:   900,
		Fov:      75,
		Near:     0.1,
		Far:      1000,
		Controls: controls.DefaultSettings(),
		Now:      clock.now,
	})
	rec := &recorder{}
	webgl := &recordingRenderer{name: "scene", rec: rec}
	labels := &recordingRenderer{name: "overlay", rec: rec}
	ctx.SetRenderers(webgl, labels)
	return ctx, webgl, labels, rec
}

func TestSetRenderersSizesToViewport(t *testing.T) {
	_, webgl, labels, _ := newContext(&fakeTime{})

	assert.Equal(t, 1400, webgl.width)
	assert.Equal(t, 900, labels.height)
}

func TestResize(t *testing.T) {
	ctx, webgl, labels, _ := newContext(&fakeTime{})

	ctx.Resize(800, 600)

	assert.InDelta(t, 800.0/600.0, ctx.Camera.Aspect, 1e-12)
	assert.Equal(t, 800, webgl.width)
	assert.Equal(t, 600, webgl.height)
	assert.Equal(t, 800, labels.width)
	assert.Equal(t, 600, labels.height)
	assert.Equal(t, scene.Viewport{Width: 800, Height: 600}, *ctx.Viewport)
}

func TestResizeIgnoresDegenerateSize(t *testing.T) {
	ctx, webgl, _, _ := newContext(&fakeTime{})

	ctx.Resize(0, 600)

	assert.InDelta(t, 1400.0/900.0, ctx.Camera.Aspect, 1e-12)
	assert.Equal(t, 1400, webgl.width)
}

func TestStepOrderAndSharedCamera(t *testing.T) {
	ctx, _, _, rec := newContext(&fakeTime{})
	ctx.Overlay.Add(&overlay.Element{ID: uuid.New(), Text: "pin"})
	ctx.Controls.Rotate(-100, 0)

	ctx.Step(1.0 / 60)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, "scene", rec.calls[0].pass)
	assert.Equal(t, "overlay", rec.calls[1].pass)
	assert.Equal(t, rec.calls[0].camera, rec.calls[1].camera)
	// Controls ran before rendering
	assert.Equal(t, *ctx.Camera, rec.calls[0].camera)
	assert.NotEqual(t, 0.0, rec.calls[0].camera.Position.X)
	assert.Equal(t, 1, rec.calls[1].count)
}

func TestFrameUsesClockDelta(t *testing.T) {
	clock := &fakeTime{t: time.Unix(1000, 0)}
	ctx, _, _, rec := newContext(clock)
	ctx.Controls.Rotate(-100, 0)

	// First frame has no elapsed time, so nothing moves
	ctx.Frame()
	assert.InDelta(t, 0.0, rec.calls[0].camera.Position.X, 1e-12)

	clock.advance(100 * time.Millisecond)
	ctx.Frame()
	assert.Greater(t, rec.calls[2].camera.Position.X, 0.0)
}

func TestClock(t *testing.T) {
	clock := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(clock.now)

	assert.Zero(t, c.Delta())
	clock.advance(250 * time.Millisecond)
	assert.InDelta(t, 0.25, c.Delta(), 1e-12)
	assert.Zero(t, c.Delta())
}

func TestDoubleClickDetector(t *testing.T) {
	start := time.Unix(0, 0)
	tests := []struct {
		name  string
		delay time.Duration
		move  float64
		want  bool
	}{
		{"double", 200 * time.Millisecond, 0, true},
		{"jitter", 200 * time.Millisecond, 3, true},
		{"too slow", 400 * time.Millisecond, 0, false},
		{"moved", 100 * time.Millisecond, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoubleClickDetector()
			assert.False(t, d.Press(geometry.NewVector2(100, 100), start))
			assert.Equal(t, tt.want, d.Press(geometry.NewVector2(100+tt.move, 100), start.Add(tt.delay)))
		})
	}
}

func TestDoubleClickDoesNotChain(t *testing.T) {
	d := NewDoubleClickDetector()
	at := time.Unix(0, 0)
	p := geometry.NewVector2(5, 5)

	assert.False(t, d.Press(p, at))
	assert.True(t, d.Press(p, at.Add(50*time.Millisecond)))
	assert.False(t, d.Press(p, at.Add(100*time.Millisecond)))
}

func TestSetModelReplacesPrevious(t *testing.T) {
	ctx, _, _, _ := newContext(&fakeTime{})
	first := scene.NewObject("first", scene.BoxMesh(1, 1, 1), 0x808080)
	second := scene.NewObject("second", scene.BoxMesh(1, 1, 1), 0x808080)

	ctx.SetModel(first)
	target := ctx.Camera.Target
	ctx.SetModel(second)

	assert.Same(t, second, ctx.Model())
	assert.Nil(t, ctx.Scene.Find(first.ID))
	assert.NotNil(t, ctx.Scene.Find(second.ID))
	assert.Equal(t, target, ctx.Camera.Target)
}

func TestSetModelWithoutGeometryKeepsCamera(t *testing.T) {
	ctx, _, _, _ := newContext(&fakeTime{})
	position, target := ctx.Camera.Position, ctx.Camera.Target

	ctx.SetModel(scene.NewObject("empty", nil, 0x808080))
	ctx.Step(0.016)

	assert.Equal(t, position, ctx.Camera.Position)
	assert.Equal(t, target, ctx.Camera.Target)

	// A reload with geometry still frames the camera
	ctx.SetModel(scene.NewObject("part", scene.BoxMesh(2, 2, 2), 0x808080))
	ctx.Step(0.016)
	assert.NotEqual(t, position, ctx.Camera.Position)
	assert.False(t, math.IsNaN(ctx.Camera.Position.X))

	framed := ctx.Camera.Position
	ctx.Controls.Rotate(300, 0)
	for i := 0; i < 300; i++ {
		ctx.Step(0.016)
	}
	ctx.Controls.Reset()
	assert.True(t, ctx.Camera.Position.ApproxEqual(framed, 1e-9))
}

func TestPointerPressCreatesAnnotationOnDoubleClick(t *testing.T) {
	clock := &fakeTime{t: time.Unix(0, 0)}
	ctx, _, _, _ := newContext(clock)
	prompts := 0
	ctx.EnableAnnotations(annotation.PrompterFunc(func(string) (string, bool) {
		prompts++
		return "note", true
	}))

	// Double click before the model arrives does nothing
	ctx.PointerPress(700, 450)
	clock.advance(100 * time.Millisecond)
	ctx.PointerPress(700, 450)
	assert.Zero(t, prompts)
	assert.Empty(t, ctx.Annotations.Annotations())

	ctx.SetModel(scene.NewObject("model", scene.BoxMesh(2, 2, 2), 0x808080))
	x, y := 700.0+7, 450.0+13

	clock.advance(time.Second)
	ctx.PointerPress(x, y)
	assert.Zero(t, prompts)
	clock.advance(100 * time.Millisecond)
	ctx.PointerPress(x, y)

	assert.Equal(t, 1, prompts)
	require.Len(t, ctx.Annotations.Annotations(), 1)
	assert.Equal(t, 1, ctx.Overlay.Len())
}

func TestPointerMoveDrivesHighlight(t *testing.T) {
	ctx, _, _, _ := newContext(&fakeTime{})
	cube := scene.NewObject("hover", scene.BoxMesh(1, 1, 1), 0x0000ff)
	ctx.Scene.Add(cube)
	ctx.EnableHighlight([]*scene.Object{cube}, highlight.DefaultColor)

	ctx.PointerMove(700+7, 450+13)
	assert.Equal(t, highlight.DefaultColor, cube.Material.Color)

	ctx.PointerMove(5, 5)
	assert.Equal(t, geometry.Color(0x0000ff), cube.Material.Color)
}
