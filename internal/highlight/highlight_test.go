package highlight

import (
	"math/rand"
	"testing"

	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	camera   *scene.Camera
	viewport *scene.Viewport
	a, b     *scene.Object
	ctrl     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	vp := &scene.Viewport{Width: 800, Height: 600}
	cam := scene.NewPerspectiveCamera(75, vp.Aspect(), 0.1, 1000)
	cam.Position = geometry.NewVector3(0, 0, 10)

	a := scene.NewObject("hoverCube", scene.BoxMesh(1, 1, 1), 0x0000ff)
	a.Position = geometry.NewVector3(0, -1, 0)
	b := scene.NewObject("hoverCube2", scene.BoxMesh(1, 1, 1), 0x00aaff)
	b.Position = geometry.NewVector3(0, -2, 0)

	return &fixture{
		camera:   cam,
		viewport: vp,
		a:        a,
		b:        b,
		ctrl:     New(NewRegistry([]*scene.Object{a, b}), cam, vp, DefaultColor),
	}
}

// over returns pixel coordinates that hit the front face of o off its diagonals
func (f *fixture) over(o *scene.Object) (float64, float64) {
	ndc, _, ok := f.camera.Project(o.LocalToWorld(geometry.NewVector3(0.1, 0.15, 0.5)))
	if !ok {
		panic("object not in view")
	}
	p := f.viewport.FromNDC(ndc)
	return p.X, p.Y
}

func (f *fixture) empty() (float64, float64) {
	return 10, 10
}

func TestNewRegistryRecordsOriginalColors(t *testing.T) {
	f := newFixture(t)
	reg := NewRegistry([]*scene.Object{f.a, f.b, f.a, nil})

	assert.Len(t, reg.Candidates(), 2)
	c, ok := reg.Original(f.a.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.Color(0x0000ff), c)
	c, ok = reg.Original(f.b.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.Color(0x00aaff), c)
}

func TestIdleToHighlighting(t *testing.T) {
	f := newFixture(t)

	f.ctrl.HandleMove(f.over(f.a))

	assert.Equal(t, Highlighting, f.ctrl.State())
	got, ok := f.ctrl.Highlighted()
	require.True(t, ok)
	assert.Same(t, f.a, got)
	assert.Equal(t, DefaultColor, f.a.Material.Color)
	assert.Equal(t, geometry.Color(0x00aaff), f.b.Material.Color)
}

func TestDegenerateViewportNeverHighlights(t *testing.T) {
	f := newFixture(t)
	f.viewport.Width, f.viewport.Height = 0, 0

	f.ctrl.HandleMove(0, 0)

	assert.Equal(t, Idle, f.ctrl.State())
	assert.Equal(t, geometry.Color(0x0000ff), f.a.Material.Color)
	assert.Equal(t, geometry.Color(0x00aaff), f.b.Material.Color)
}

func TestHighlightingToIdleOnMiss(t *testing.T) {
	f := newFixture(t)

	f.ctrl.HandleMove(f.over(f.a))
	f.ctrl.HandleMove(f.empty())

	assert.Equal(t, Idle, f.ctrl.State())
	assert.Equal(t, geometry.Color(0x0000ff), f.a.Material.Color)
}

func TestMissWhileIdleIsNoop(t *testing.T) {
	f := newFixture(t)

	f.ctrl.HandleMove(f.empty())

	assert.Equal(t, Idle, f.ctrl.State())
	assert.Equal(t, geometry.Color(0x0000ff), f.a.Material.Color)
	assert.Equal(t, geometry.Color(0x00aaff), f.b.Material.Color)
}

func TestTwoStepSwap(t *testing.T) {
	f := newFixture(t)

	f.ctrl.HandleMove(f.over(f.a))
	require.Equal(t, DefaultColor, f.a.Material.Color)

	// First move onto B only restores A
	f.ctrl.HandleMove(f.over(f.b))
	assert.Equal(t, Idle, f.ctrl.State())
	assert.Equal(t, geometry.Color(0x0000ff), f.a.Material.Color)
	assert.Equal(t, geometry.Color(0x00aaff), f.b.Material.Color)

	// The next move over B highlights it
	f.ctrl.HandleMove(f.over(f.b))
	assert.Equal(t, Highlighting, f.ctrl.State())
	got, _ := f.ctrl.Highlighted()
	assert.Same(t, f.b, got)
	assert.Equal(t, DefaultColor, f.b.Material.Color)
	assert.Equal(t, geometry.Color(0x0000ff), f.a.Material.Color)
}

func TestRepeatedMoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	x, y := f.over(f.a)

	f.ctrl.HandleMove(x, y)
	// Any write after the first would overwrite this marker
	f.a.Material.Color = 0x123456
	f.ctrl.HandleMove(x, y)
	f.ctrl.HandleMove(x, y)

	assert.Equal(t, geometry.Color(0x123456), f.a.Material.Color)
	assert.Equal(t, Highlighting, f.ctrl.State())
}

func TestNearestCandidateWins(t *testing.T) {
	f := newFixture(t)
	front := scene.NewObject("front", scene.BoxMesh(1, 1, 1), 0x111111)
	front.Position = geometry.NewVector3(0, 0, 2)
	back := scene.NewObject("back", scene.BoxMesh(3, 3, 1), 0x222222)
	back.Position = geometry.NewVector3(0, 0, -2)

	ctrl := New(NewRegistry([]*scene.Object{back, front}), f.camera, f.viewport, DefaultColor)
	ctrl.HandleMove(f.over(front))

	got, ok := ctrl.Highlighted()
	require.True(t, ok)
	assert.Same(t, front, got)
	assert.Equal(t, geometry.Color(0x222222), back.Material.Color)
}

func TestRoundTripRestoresExactColor(t *testing.T) {
	f := newFixture(t)
	odd := scene.NewObject("odd", scene.BoxMesh(1, 1, 1), 0xabcdef)
	odd.Position = geometry.NewVector3(2, 0, 0)
	ctrl := New(NewRegistry([]*scene.Object{odd}), f.camera, f.viewport, geometry.Color(0xff00ff))

	ctrl.HandleMove(f.over(odd))
	require.Equal(t, geometry.Color(0xff00ff), odd.Material.Color)
	ctrl.Reset()

	assert.Equal(t, geometry.Color(0xabcdef), odd.Material.Color)
	assert.Equal(t, Idle, ctrl.State())
}

func TestAtMostOneHighlighted(t *testing.T) {
	f := newFixture(t)
	originals := map[*scene.Object]geometry.Color{f.a: 0x0000ff, f.b: 0x00aaff}
	moves := []func() (float64, float64){
		func() (float64, float64) { return f.over(f.a) },
		func() (float64, float64) { return f.over(f.b) },
		f.empty,
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		f.ctrl.HandleMove(moves[rng.Intn(len(moves))]())

		changed := 0
		for o, c := range originals {
			if o.Material.Color != c {
				changed++
			}
		}
		require.LessOrEqual(t, changed, 1, "step %d", i)
		if f.ctrl.State() == Idle {
			require.Zero(t, changed, "step %d", i)
		}
	}
}
