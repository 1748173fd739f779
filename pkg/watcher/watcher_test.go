package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	files []string
}

func (r *recorder) record(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, file)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func newWatcher(t *testing.T) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })
	fw.Start()
	return fw
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(file, []byte("solid a"), 0o644))

	fw := newWatcher(t)
	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{file}, rec.record))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte("solid b"), 0o644))
	}

	abs, _ := filepath.Abs(file)
	assert.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{abs}, rec.snapshot())
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(file, []byte("solid a"), 0o644))

	fw := newWatcher(t)
	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{file}, rec.record))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.stl"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestWatchNoticesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(file, []byte("solid a"), 0o644))

	fw := newWatcher(t)
	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{file}, rec.record))

	tmp := filepath.Join(dir, "model.stl.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("solid b"), 0o644))
	require.NoError(t, os.Rename(tmp, file))

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestUnwatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(file, []byte("solid a"), 0o644))

	fw := newWatcher(t)
	rec := &recorder{}
	require.NoError(t, fw.Watch([]string{file}, rec.record))
	require.NoError(t, fw.Unwatch(file))

	require.NoError(t, os.WriteFile(file, []byte("solid b"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestCloseIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)

	assert.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())
}
