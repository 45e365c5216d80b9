package kernels

import (
	"image"
	"image/color"
	"testing"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxBlurRadiusZeroReturnsCopy(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 18, 27)) // non-zero Min
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	out := BoxBlur(img, Options{Radius: 0, Edge: images.ClampEdgeMode})
	assert.Equal(t, image.Rect(0, 0, 8, 7), out.Rect)
	assert.Equal(t, img.NRGBAAt(10, 20), out.NRGBAAt(0, 0))
}

func TestBoxBlurBoundsMinNotZero(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 7, 9, 12))
	img.SetNRGBA(5, 7, color.NRGBA{255, 0, 0, 255})
	out := BoxBlur(img, Options{Radius: 1})
	require.Equal(t, 4, out.Rect.Dx())
	require.Equal(t, 5, out.Rect.Dy())
	// Top-left should be non-zero due to blur; ensure we touched correct pixels.
	assert.NotEqual(t, color.NRGBA{}, out.NRGBAAt(0, 0))
	assert.NotEqual(t, color.NRGBA{}, out.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(3, 4))
}

func TestBoxBlurEdgeModes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{0, 0, 0, 255})

	tests := []struct {
		edge images.EdgeMode
		want [3]uint8
	}{
		{images.ClampEdgeMode, [3]uint8{85, 85, 85}},
		{images.MirrorEdgeMode, [3]uint8{85, 85, 85}},
		{images.WrapEdgeMode, [3]uint8{85, 85, 85}},
	}
	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			out := BoxBlur(img, Options{Radius: 1, Edge: tt.edge})
			for x := 0; x < 3; x++ {
				assert.Equal(t, tt.want[x], out.NRGBAAt(x, 0).R, "x=%d", x)
			}
		})
	}
}

func TestBoxBlurParallelMatchesSerial(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 97, 61))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 31)
	}
	serial := BoxBlur(img, Options{Radius: 3})
	parallel := BoxBlur(img, Options{Radius: 3, Parallel: true})
	assert.Equal(t, serial.Pix, parallel.Pix)
}

func TestBoxRadii(t *testing.T) {
	tests := []struct {
		sigma float32
		want  []int
	}{
		{0.5, []int{0, 0, 0}},
		{1, []int{0, 0, 1}},
		{2, []int{1, 1, 2}},
		{5, []int{4, 4, 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BoxRadii(tt.sigma, 3), "sigma=%v", tt.sigma)
	}
	assert.Nil(t, BoxRadii(1, 0))
}

func TestGaussianApproxPreservesConstant(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], []uint8{40, 80, 120, 255})
	}
	pool := &Pool{}
	out := GaussianApprox(img, 2, Options{Pool: pool})
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, []uint8{40, 80, 120, 255}, out.Pix[i:i+4])
	}
}
