package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAnnotation(text string, at time.Time) annotation.Annotation {
	return annotation.Annotation{
		ID:        uuid.New(),
		Anchor:    geometry.NewVector3(1.5, -2.25, 3),
		Text:      text,
		CreatedAt: at,
	}
}

func TestSaveList(t *testing.T) {
	db := openMemory(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second := newAnnotation("second", base.Add(time.Minute))
	first := newAnnotation("first", base)

	require.NoError(t, db.Save("part.stl", second))
	require.NoError(t, db.Save("part.stl", first))
	require.NoError(t, db.Save("other.stl", newAnnotation("other", base)))

	list, err := db.List("part.stl")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, first.Anchor, list[0].Anchor)
	assert.True(t, first.CreatedAt.Equal(list[0].CreatedAt))
	assert.Equal(t, second.ID, list[1].ID)
}

func TestSaveUpdatesExisting(t *testing.T) {
	db := openMemory(t)
	a := newAnnotation("draft", time.Now())
	require.NoError(t, db.Save("m", a))

	a.Text = "final"
	require.NoError(t, db.Save("m", a))

	list, err := db.List("m")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "final", list[0].Text)
}

func TestDelete(t *testing.T) {
	db := openMemory(t)
	a := newAnnotation("gone", time.Now())
	b := newAnnotation("kept", time.Now())
	require.NoError(t, db.Save("m", a))
	require.NoError(t, db.Save("m", b))

	require.NoError(t, db.Delete(a.ID))
	require.NoError(t, db.Delete(uuid.New()))

	list, err := db.List("m")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestModelStore(t *testing.T) {
	db := openMemory(t)
	s := db.ForModel("/models/part.stl")
	a := newAnnotation("pin", time.Now())

	require.NoError(t, s.Save(a))
	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/models/part.stl", s.Key())

	require.NoError(t, s.Delete(a.ID))
	list, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl"+SidecarSuffix)
	a := newAnnotation("durable", time.Now())

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Save("k", a))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	list, err := db.List("k")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestDefaultPathLocal(t *testing.T) {
	path, err := DefaultPath("models/part.stl", true)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "part.stl.gopin.db", filepath.Base(path))
	assert.Equal(t, "https://example.com/a.stl", ModelKey("https://example.com/a.stl", false))
	assert.True(t, filepath.IsAbs(ModelKey("models/part.stl", true)))
}
