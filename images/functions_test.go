package images

import (
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(w, h int, c color.NRGBA) *image.NRGBA {
	img := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResizeDimensions(t *testing.T) {
	filters := []ResampleFilter{
		NearestNeighborFilter, TriangleFilter, CatmullRomFilter, LanczosFilter, MitchellNetravaliFilter,
	}
	sizes := []Size{{64, 64}, {240, 240}, {7, 300}, {1, 1}}

	for _, f := range filters {
		for _, s := range sizes {
			t.Run(f.String()+"/"+s.String(), func(t *testing.T) {
				out := Resize(getTestImage(), s.Width, s.Height, f)
				assert.True(t, s.Matches(out))
				assert.True(t, IsCanonical(out))
			})
		}
	}
}

func TestResizePreservesConstantColor(t *testing.T) {
	c := color.NRGBA{R: 12, G: 130, B: 250, A: 255}
	for _, f := range []ResampleFilter{TriangleFilter, CatmullRomFilter, LanczosFilter} {
		out := Resize(constant(33, 21, c), 50, 10, f)
		for y := 0; y < 10; y++ {
			for x := 0; x < 50; x++ {
				require.Equal(t, c, out.NRGBAAt(x, y), "filter %s at (%d,%d)", f, x, y)
			}
		}
	}
}

func TestResizeInvalidDimensions(t *testing.T) {
	out := Resize(getTestImage(), 0, 10, CatmullRomFilter)
	assert.Equal(t, 0, PixelCount(out))
}

func TestResizeSameSizeCopies(t *testing.T) {
	src := constant(4, 4, color.NRGBA{R: 9, A: 255})
	out := Resize(src, 4, 4, CatmullRomFilter)
	assert.Equal(t, src.Pix, out.Pix)
	out.Pix[0] = 1
	assert.Equal(t, uint8(9), src.Pix[0], "result must not alias the input")
}

func TestGrayscale(t *testing.T) {
	img := NewBuffer(3, 1)
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 128})
	img.SetNRGBA(2, 0, color.NRGBA{R: 77, G: 77, B: 77, A: 255})

	gray := Grayscale(img)
	assert.Equal(t, color.NRGBA{R: 54, G: 54, B: 54, A: 255}, gray.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 182, G: 182, B: 182, A: 128}, gray.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, gray.NRGBAAt(2, 0))
}

func TestBlurZeroSigmaReturnsCopy(t *testing.T) {
	src := getTestImage().(*image.NRGBA)
	for _, sigma := range []float32{0, -1} {
		out := Blur(src, sigma)
		assert.Equal(t, src.Pix, out.Pix)
		assert.NotSame(t, src, out)
	}
}

func TestBlurPreservesConstantColor(t *testing.T) {
	c := color.NRGBA{R: 100, G: 150, B: 200, A: 255}
	out := Blur(constant(20, 20, c), 2.5)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			require.Equal(t, c, out.NRGBAAt(x, y))
		}
	}
}

func TestBlurSpreadsImpulse(t *testing.T) {
	img := constant(9, 9, color.NRGBA{A: 255})
	img.SetNRGBA(4, 4, color.NRGBA{R: 255, A: 255})

	out := Blur(img, 1.0)
	center := out.NRGBAAt(4, 4).R
	neighbor := out.NRGBAAt(5, 4).R
	assert.Less(t, center, uint8(255))
	assert.Greater(t, neighbor, uint8(0))
	assert.Greater(t, center, neighbor)
	assert.Equal(t, out.NRGBAAt(3, 4), out.NRGBAAt(5, 4), "blur must be symmetric")
}

func TestGaussianKernelNormalized(t *testing.T) {
	k := GaussianKernel(3, 1.0)
	require.Len(t, k, 7)
	var sum float32
	for _, v := range k {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
	assert.Equal(t, k[0], k[6])
	assert.Greater(t, k[3], k[2])
}

func TestParallelCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		hits := make([]int32, n)
		Parallel(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i := range hits {
			require.Equal(t, int32(1), hits[i], "index %d of %d", i, n)
		}
	}
}

func TestMapCoord(t *testing.T) {
	tests := []struct {
		coord, max int
		mode       EdgeMode
		want       int
	}{
		{-1, 5, ClampEdgeMode, 0},
		{7, 5, ClampEdgeMode, 4},
		{-1, 5, MirrorEdgeMode, 0},
		{-2, 5, MirrorEdgeMode, 1},
		{5, 5, MirrorEdgeMode, 4},
		{-1, 5, WrapEdgeMode, 4},
		{6, 5, WrapEdgeMode, 1},
		{3, 1, WrapEdgeMode, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCoord(tt.coord, tt.max, tt.mode), "%+v", tt)
	}
}

func TestNormalize(t *testing.T) {
	canonical := NewBuffer(3, 3)
	assert.Same(t, canonical, Normalize(canonical))

	sub := canonical.SubImage(image.Rect(1, 1, 3, 3))
	n := Normalize(sub)
	assert.True(t, IsCanonical(n))
	assert.Equal(t, 2, n.Rect.Dx())

	assert.Nil(t, Normalize(nil))
	var typedNil *image.NRGBA
	assert.Nil(t, Normalize(typedNil))
	assert.Equal(t, 0, PixelCount(typedNil))
}

func TestSize(t *testing.T) {
	s := Size{Width: 50, Height: 40}
	assert.Equal(t, "50x40", s.String())
	assert.False(t, s.Empty())
	assert.True(t, Size{Width: 0, Height: 3}.Empty())
	assert.True(t, s.Matches(NewBuffer(50, 40)))
	assert.False(t, s.Matches(NewBuffer(40, 50)))
}
