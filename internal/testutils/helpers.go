package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// PNG returns a small encoded image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// WriteBook creates a descriptor book named name under root: story.yaml plus
// an assets folder holding the given files. It returns the book folder.
// It fails the test immediately on error.
func WriteBook(t *testing.T, root, name, story string, assets map[string][]byte) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "story.yaml"), []byte(story), 0o644))
	for file, data := range assets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", file), data, 0o644))
	}
	return dir
}
