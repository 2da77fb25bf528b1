package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewMask returns a width x height grayscale mask with the given points set to 255.
func NewMask(width, height int, points ...image.Point) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for _, p := range points {
		img.SetGray(p.X, p.Y, color.Gray{Y: 255})
	}
	return img
}

// WritePNG encodes img as a PNG at path, creating parent directories.
func WritePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// WriteFile writes raw content at path, creating parent directories.
func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// DatasetLayout creates <root>/images and <root>/masks. Every image gets a
// 4x4 mask with one positive pixel unless it is listed in withoutMask.
func DatasetLayout(t *testing.T, root string, images []string, withoutMask ...string) {
	t.Helper()
	skip := make(map[string]bool, len(withoutMask))
	for _, name := range withoutMask {
		skip[name] = true
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "masks"), 0755))
	for _, name := range images {
		WritePNG(t, filepath.Join(root, "images", name), NewMask(4, 4))
		if !skip[name] {
			WritePNG(t, filepath.Join(root, "masks", name), NewMask(4, 4, image.Pt(1, 2)))
		}
	}
}
