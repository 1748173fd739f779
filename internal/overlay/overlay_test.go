package overlay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() *scene.Camera {
	cam := scene.NewPerspectiveCamera(75, 800.0/600.0, 0.1, 1000)
	cam.Position = geometry.NewVector3(0, 0, 10)
	return cam
}

func TestAddRemove(t *testing.T) {
	o := New()
	a := &Element{ID: uuid.New(), Text: "a"}
	b := &Element{ID: uuid.New(), Text: "b"}

	o.Add(a)
	o.Add(b)
	o.Add(a)
	assert.Equal(t, 2, o.Len())
	assert.Equal(t, []*Element{a, b}, o.Elements())

	assert.True(t, o.Remove(a.ID))
	assert.False(t, o.Remove(a.ID))
	_, ok := o.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []*Element{b}, o.Elements())
}

func TestLayoutProjectsAnchor(t *testing.T) {
	o := New()
	e := &Element{ID: uuid.New(), Text: "center", Deletable: true}
	o.Add(e)

	layout := o.Layout(testCamera(), scene.Viewport{Width: 800, Height: 600})
	require.Len(t, layout, 1)

	p := layout[0]
	assert.InDelta(t, 400, p.Anchor.X, 1e-9)
	assert.InDelta(t, 300, p.Anchor.Y, 1e-9)
	assert.InDelta(t, 10, p.Depth, 1e-9)
	assert.Less(t, p.Label.Y+p.Label.Height, p.Anchor.Y, "label sits above the anchor")
	assert.True(t, p.Label.Contains(geometry.NewVector2(p.Delete.X+1, p.Delete.Y+1)), "button inside label")
}

func TestLayoutSkipsBehindCamera(t *testing.T) {
	o := New()
	o.Add(&Element{ID: uuid.New(), Anchor: geometry.NewVector3(0, 0, 50)})

	assert.Empty(t, o.Layout(testCamera(), scene.Viewport{Width: 800, Height: 600}))
}

func TestLayoutFollowsCamera(t *testing.T) {
	o := New()
	o.Add(&Element{ID: uuid.New(), Anchor: geometry.NewVector3(1, 0, 0)})
	cam := testCamera()
	vp := scene.Viewport{Width: 800, Height: 600}

	before := o.Layout(cam, vp)[0].Anchor
	cam.Position = geometry.NewVector3(0, 0, 20)
	after := o.Layout(cam, vp)[0].Anchor

	assert.Greater(t, before.X, after.X, "anchor moves toward center as camera backs off")
}

func TestHitDelete(t *testing.T) {
	o := New()
	first := &Element{ID: uuid.New(), Text: "first", Deletable: true}
	second := &Element{ID: uuid.New(), Text: "second", Deletable: true}
	plain := &Element{ID: uuid.New(), Text: "plain", Anchor: geometry.NewVector3(3, 0, 0)}
	o.Add(first)
	o.Add(second)
	o.Add(plain)

	layout := o.Layout(testCamera(), scene.Viewport{Width: 800, Height: 600})
	require.Len(t, layout, 3)

	btn := layout[1].Delete
	id, ok := HitDelete(layout, geometry.NewVector2(btn.X+btn.Width/2, btn.Y+btn.Height/2))
	require.True(t, ok)
	assert.Equal(t, second.ID, id, "topmost element wins")

	_, ok = HitDelete(layout, geometry.NewVector2(0, 0))
	assert.False(t, ok)

	hit, ok := HitLabel(layout, layout[2].Anchor.Sub(geometry.NewVector2(0, 10)))
	require.True(t, ok)
	assert.Same(t, plain, hit)
}

func TestLabelWidthClamped(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	p := place(&Element{Text: string(long)}, geometry.Vector2{}, 1)
	assert.Equal(t, MaxTextWidth+2*Padding, p.Label.Width)
}
