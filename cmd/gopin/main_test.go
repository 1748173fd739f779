package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCube(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	tris := [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 1, 1}, {1, 0, 1}},
		{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}},
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(tris))))
	for _, tri := range tris {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{}))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	path := filepath.Join(t.TempDir(), "plate.stl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GOPIN_STORAGE_ENABLED", "false")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInfoCommand(t *testing.T) {
	path := writeCube(t)

	out, err := execute(t, "info", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 4")
	assert.Contains(t, out, "Max: (1.000000, 1.000000, 1.000000)")
}

func TestSnapshotCommand(t *testing.T) {
	path := writeCube(t)
	output := filepath.Join(t.TempDir(), "plate.png")

	out, err := execute(t, "snapshot", path, "-o", output, "--width", "64", "--height", "48", "--thumbnail")

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+output)
	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(filepath.Dir(output), "plate.thumb.png"))
}

func TestSnapshotRejectsBadUploadLocation(t *testing.T) {
	path := writeCube(t)

	_, err := execute(t, "snapshot", path, "-o", filepath.Join(t.TempDir(), "x.png"), "--upload", "https://example.com/x.png")

	assert.Error(t, err)
}

func TestThumbnailName(t *testing.T) {
	assert.Equal(t, "out/plate.thumb.png", thumbnailName("out/plate.png"))
	assert.Equal(t, "plate.thumb", thumbnailName("plate"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
