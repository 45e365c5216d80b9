package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, images.Save(img, path))
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestMaskCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeImage(t, in, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	require.NoError(t, execute(t, "mask", "--input", in, "--output", out, "--channel", "green"))

	img, err := images.Open(out)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 20, G: 20, B: 20, A: 255}, img.NRGBAAt(3, 3))
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	target := filepath.Join(dir, "target.png")
	out := filepath.Join(dir, "out.png")
	writeImage(t, src, color.NRGBA{A: 255})
	writeImage(t, target, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	require.NoError(t, execute(t, "match", "-s", src, "-t", target, "-o", out, "--width", "4", "--height", "4"))

	img, err := images.Open(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Rect)
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(0, 0))
}

func TestGuideCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "guide.png")
	writeImage(t, in, color.NRGBA{R: 255, A: 255})

	require.NoError(t, execute(t, "guide", "-i", in, "-o", out, "--width", "5", "--height", "6", "--kernel", "box"))

	img, err := images.Open(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 6), img.Rect)
	c := img.NRGBAAt(2, 2)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	inputs := filepath.Join(dir, "frames")
	outputs := filepath.Join(dir, "matched")
	require.NoError(t, os.Mkdir(inputs, 0o755))
	writeImage(t, filepath.Join(inputs, "frame-1.png"), color.NRGBA{R: 40, A: 255})
	writeImage(t, filepath.Join(inputs, "frame-2.png"), color.NRGBA{R: 80, A: 255})
	reference := filepath.Join(dir, "reference.png")
	writeImage(t, reference, color.NRGBA{R: 200, A: 255})

	require.NoError(t, execute(t, "batch", "-d", inputs, "-r", reference, "-o", outputs, "--concurrency", "2"))

	for _, name := range []string{"frame-1.png", "frame-2.png"} {
		_, err := os.Stat(filepath.Join(outputs, name))
		assert.NoError(t, err, name)
	}
}

func TestConfigFileAndErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "imgprep.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("mask: nope\n"), 0o644))

	in := filepath.Join(dir, "in.png")
	writeImage(t, in, color.NRGBA{A: 255})

	assert.Error(t, execute(t, "histogram", "-i", in, "--config", cfg))
	assert.Error(t, execute(t, "mask", "-i", in, "-o", filepath.Join(dir, "o.png"), "-c", "purple", "--config", ""))
}
