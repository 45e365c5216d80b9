package images

import (
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
)

// ResampleFilter defines the resampling algorithm used for image scaling.
type ResampleFilter int

const (
	// NearestNeighborFilter uses nearest-neighbor interpolation (fastest, lowest quality).
	NearestNeighborFilter ResampleFilter = iota
	// TriangleFilter uses linear (tent) interpolation; smooth and area-preserving when shrinking.
	TriangleFilter
	// CatmullRomFilter uses the Catmull-Rom cubic (B=0, C=0.5): sharp with little ringing.
	CatmullRomFilter
	// LanczosFilter uses Lanczos resampling with a=3.
	LanczosFilter
	// MitchellNetravaliFilter uses the Mitchell-Netravali cubic (B=1/3, C=1/3).
	MitchellNetravaliFilter
)

// String returns the filter name.
func (f ResampleFilter) String() string {
	switch f {
	case NearestNeighborFilter:
		return "nearest"
	case TriangleFilter:
		return "triangle"
	case CatmullRomFilter:
		return "catmullrom"
	case LanczosFilter:
		return "lanczos"
	case MitchellNetravaliFilter:
		return "mitchell"
	default:
		return "unknown"
	}
}

// kernel represents a resampling kernel function.
type kernel struct {
	// Support is the radius of the kernel in source pixels at scale 1.
	Support float64
	// At evaluates the kernel weight at distance x.
	At func(x float64) float64
}

var kernels = map[ResampleFilter]kernel{
	NearestNeighborFilter: {
		Support: 0.5,
		At: func(x float64) float64 {
			if math.Abs(x) < 0.5 {
				return 1.0
			}
			return 0.0
		},
	},
	TriangleFilter: {
		Support: 1.0,
		At: func(x float64) float64 {
			x = math.Abs(x)
			if x < 1.0 {
				return 1.0 - x
			}
			return 0.0
		},
	},
	CatmullRomFilter: {
		Support: 2.0,
		At: func(x float64) float64 {
			x = math.Abs(x)
			if x < 1.0 {
				return (1.5*x-2.5)*x*x + 1.0
			}
			if x < 2.0 {
				return ((-0.5*x+2.5)*x-4.0)*x + 2.0
			}
			return 0.0
		},
	},
	LanczosFilter: {
		Support: 3.0,
		At: func(x float64) float64 {
			if x == 0.0 {
				return 1.0
			}
			x = math.Abs(x)
			if x >= 3.0 {
				return 0.0
			}
			pix := math.Pi * x
			return (math.Sin(pix) / pix) * (math.Sin(pix/3.0) / (pix / 3.0))
		},
	},
	MitchellNetravaliFilter: {
		Support: 2.0,
		At: func(x float64) float64 {
			x = math.Abs(x)
			if x < 1.0 {
				return ((1.16666666666667*x-2.0)*x)*x + 0.888888888888889
			}
			if x < 2.0 {
				return ((-0.388888888888889*x+2.0)*x-3.333333333333333)*x + 1.777777777777778
			}
			return 0.0
		},
	},
}

// contribution is a single source pixel's weight in one output sample.
type contribution struct {
	pixel  int
	weight float64
}

// Resize performs image resizing using the specified resampling filter.
// Horizontal and vertical passes are applied separately.
//
// Arguments:
// - img: The source image to resize.
// - width: The target width in pixels.
// - height: The target height in pixels.
// - filter: The resampling filter to use for interpolation.
//
// Returns:
//   - A new canonical pixel buffer. A 0x0 buffer is returned for non-positive
//     dimensions; a copy is returned when no resizing is needed.
//
// @example
// resized := Resize(src, 512, 512, CatmullRomFilter)
func Resize(img image.Image, width, height int, filter ResampleFilter) *image.NRGBA {
	if width <= 0 || height <= 0 || PixelCount(img) == 0 {
		return NewBuffer(0, 0)
	}

	src := Normalize(img)
	srcWidth := src.Rect.Dx()
	srcHeight := src.Rect.Dy()

	if srcWidth == width && srcHeight == height {
		return imaging.Clone(src)
	}

	if filter == NearestNeighborFilter {
		return resizeNearest(src, width, height)
	}

	k, ok := kernels[filter]
	if !ok {
		k = kernels[TriangleFilter]
	}

	intermediate := NewBuffer(width, srcHeight)
	resizeHorizontal(src, intermediate, k)

	dst := NewBuffer(width, height)
	resizeVertical(intermediate, dst, k)

	return dst
}

// resizeNearest copies the closest source pixel for every destination pixel.
func resizeNearest(src *image.NRGBA, width, height int) *image.NRGBA {
	srcWidth := src.Rect.Dx()
	srcHeight := src.Rect.Dy()
	dst := NewBuffer(width, height)

	xRatio := float64(srcWidth) / float64(width)
	yRatio := float64(srcHeight) / float64(height)

	Parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			srcY := int((float64(y) + 0.5) * yRatio)
			if srcY >= srcHeight {
				srcY = srcHeight - 1
			}
			for x := 0; x < width; x++ {
				srcX := int((float64(x) + 0.5) * xRatio)
				if srcX >= srcWidth {
					srcX = srcWidth - 1
				}
				si := srcY*src.Stride + srcX*4
				di := y*dst.Stride + x*4
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
			}
		}
	})

	return dst
}

// contributions precomputes, for each of dstLen output samples, the normalized
// weights of the source samples in [0, srcLen).
func contributions(srcLen, dstLen int, k kernel) [][]contribution {
	scale := float64(srcLen) / float64(dstLen)

	// Widen the kernel when shrinking so every source pixel contributes.
	filterScale := math.Max(scale, 1.0)
	support := k.Support * filterScale

	out := make([][]contribution, dstLen)
	for i := 0; i < dstLen; i++ {
		center := (float64(i) + 0.5) * scale

		left := int(math.Floor(center - support))
		right := int(math.Ceil(center + support))
		if left < 0 {
			left = 0
		}
		if right >= srcLen {
			right = srcLen - 1
		}

		var weights []contribution
		var sum float64
		for s := left; s <= right; s++ {
			w := k.At((float64(s) + 0.5 - center) / filterScale)
			if w != 0 {
				weights = append(weights, contribution{pixel: s, weight: w})
				sum += w
			}
		}
		if sum != 0 {
			for j := range weights {
				weights[j].weight /= sum
			}
		}
		out[i] = weights
	}
	return out
}

// resizeHorizontal resamples rows of src into dst, which must have the target
// width and the source height.
func resizeHorizontal(src, dst *image.NRGBA, k kernel) {
	dstWidth := dst.Rect.Dx()
	height := src.Rect.Dy()
	weights := contributions(src.Rect.Dx(), dstWidth, k)

	Parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			srcRow := y * src.Stride
			dstRow := y * dst.Stride
			for x := 0; x < dstWidth; x++ {
				var r, g, b, a float64
				for _, c := range weights[x] {
					i := srcRow + c.pixel*4
					r += float64(src.Pix[i+0]) * c.weight
					g += float64(src.Pix[i+1]) * c.weight
					b += float64(src.Pix[i+2]) * c.weight
					a += float64(src.Pix[i+3]) * c.weight
				}
				di := dstRow + x*4
				dst.Pix[di+0] = uint8(Clamp(r, 0, 255) + 0.5)
				dst.Pix[di+1] = uint8(Clamp(g, 0, 255) + 0.5)
				dst.Pix[di+2] = uint8(Clamp(b, 0, 255) + 0.5)
				dst.Pix[di+3] = uint8(Clamp(a, 0, 255) + 0.5)
			}
		}
	})
}

// resizeVertical resamples columns of src into dst, which must have the target
// dimensions and the same width as src.
func resizeVertical(src, dst *image.NRGBA, k kernel) {
	dstHeight := dst.Rect.Dy()
	width := dst.Rect.Dx()
	weights := contributions(src.Rect.Dy(), dstHeight, k)

	Parallel(width, func(partStart, partEnd int) {
		for x := partStart; x < partEnd; x++ {
			for y := 0; y < dstHeight; y++ {
				var r, g, b, a float64
				for _, c := range weights[y] {
					i := c.pixel*src.Stride + x*4
					r += float64(src.Pix[i+0]) * c.weight
					g += float64(src.Pix[i+1]) * c.weight
					b += float64(src.Pix[i+2]) * c.weight
					a += float64(src.Pix[i+3]) * c.weight
				}
				di := y*dst.Stride + x*4
				dst.Pix[di+0] = uint8(Clamp(r, 0, 255) + 0.5)
				dst.Pix[di+1] = uint8(Clamp(g, 0, 255) + 0.5)
				dst.Pix[di+2] = uint8(Clamp(b, 0, 255) + 0.5)
				dst.Pix[di+3] = uint8(Clamp(a, 0, 255) + 0.5)
			}
		}
	})
}

// BT.709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Grayscale converts an image to grayscale using ITU-R BT.709 luma coefficients.
// The result stores the luma in R, G and B; alpha is preserved.
//
// Arguments:
// - img: The source image to convert.
//
// Returns:
// - A new canonical pixel buffer with the same dimensions.
//
// @example
// gray := Grayscale(colorImage)
func Grayscale(img image.Image) *image.NRGBA {
	if PixelCount(img) == 0 {
		return NewBuffer(0, 0)
	}
	src := Normalize(img)
	width := src.Rect.Dx()
	height := src.Rect.Dy()
	dst := NewBuffer(width, height)

	Parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			row := y * src.Stride
			for x := 0; x < width; x++ {
				i := row + x*4
				luma := lumaR*float64(src.Pix[i+0]) + lumaG*float64(src.Pix[i+1]) + lumaB*float64(src.Pix[i+2])
				gray := uint8(Clamp(luma, 0, 255) + 0.5)
				dst.Pix[i+0] = gray
				dst.Pix[i+1] = gray
				dst.Pix[i+2] = gray
				dst.Pix[i+3] = src.Pix[i+3]
			}
		}
	})

	return dst
}

// Blur applies a separable Gaussian blur.
//
// Arguments:
// - img: The source image to blur.
// - sigma: Standard deviation of the Gaussian; values <= 0 return an unblurred copy.
//
// Returns:
// - A new canonical pixel buffer with the same dimensions.
//
// @example
// blurred := Blur(img, 1.5)
func Blur(img image.Image, sigma float32) *image.NRGBA {
	if PixelCount(img) == 0 {
		return NewBuffer(0, 0)
	}
	src := Normalize(img)
	if sigma <= 0 {
		return imaging.Clone(src)
	}

	// 3*sigma covers 99.7% of the distribution.
	radius := int(math32.Ceil(sigma * 3))
	kernel := GaussianKernel(radius, sigma)

	intermediate := NewBuffer(src.Rect.Dx(), src.Rect.Dy())
	blurHorizontal(src, intermediate, kernel)

	dst := NewBuffer(src.Rect.Dx(), src.Rect.Dy())
	blurVertical(intermediate, dst, kernel)

	return dst
}

// GaussianKernel creates a normalized 1D Gaussian kernel of size 2*radius+1.
//
// Arguments:
// - radius: The kernel radius.
// - sigma: Standard deviation of the Gaussian.
//
// Returns:
// - Kernel weights summing to 1.
func GaussianKernel(radius int, sigma float32) []float32 {
	size := 2*radius + 1
	kernel := make([]float32, size)
	denom := 2 * sigma * sigma

	var sum float32
	for i := 0; i < size; i++ {
		x := float32(i - radius)
		kernel[i] = math32.Exp(-(x * x) / denom)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func blurHorizontal(src, dst *image.NRGBA, kernel []float32) {
	width := src.Rect.Dx()
	height := src.Rect.Dy()
	radius := len(kernel) / 2

	Parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			row := y * src.Stride
			for x := 0; x < width; x++ {
				var r, g, b, a float32
				for i, w := range kernel {
					sx := MapCoord(x+i-radius, width, ClampEdgeMode)
					si := row + sx*4
					r += float32(src.Pix[si+0]) * w
					g += float32(src.Pix[si+1]) * w
					b += float32(src.Pix[si+2]) * w
					a += float32(src.Pix[si+3]) * w
				}
				di := row + x*4
				dst.Pix[di+0] = clamp8(r)
				dst.Pix[di+1] = clamp8(g)
				dst.Pix[di+2] = clamp8(b)
				dst.Pix[di+3] = clamp8(a)
			}
		}
	})
}

func blurVertical(src, dst *image.NRGBA, kernel []float32) {
	width := src.Rect.Dx()
	height := src.Rect.Dy()
	radius := len(kernel) / 2

	Parallel(width, func(partStart, partEnd int) {
		for x := partStart; x < partEnd; x++ {
			for y := 0; y < height; y++ {
				var r, g, b, a float32
				for i, w := range kernel {
					sy := MapCoord(y+i-radius, height, ClampEdgeMode)
					si := sy*src.Stride + x*4
					r += float32(src.Pix[si+0]) * w
					g += float32(src.Pix[si+1]) * w
					b += float32(src.Pix[si+2]) * w
					a += float32(src.Pix[si+3]) * w
				}
				di := y*dst.Stride + x*4
				dst.Pix[di+0] = clamp8(r)
				dst.Pix[di+1] = clamp8(g)
				dst.Pix[di+2] = clamp8(b)
				dst.Pix[di+3] = clamp8(a)
			}
		}
	})
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Clamp restricts a value to the range [min, max].
//
// @example
// clamped := Clamp(300.5, 0, 255) // Returns 255
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Parallel splits [0, dataSize) into contiguous partitions and runs fn on each
// in its own goroutine, returning once all partitions are done. Small inputs are
// processed on the calling goroutine.
//
// Arguments:
// - dataSize: The size of the data to process.
// - fn: Function to execute for each partition (receives start and end indices).
//
// @example
//
//	Parallel(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        // Process row y
//	    }
//	})
func Parallel(dataSize int, fn func(partStart, partEnd int)) {
	if dataSize <= 0 {
		return
	}

	numGoroutines := runtime.NumCPU()
	if dataSize < numGoroutines*2 {
		fn(0, dataSize)
		return
	}

	partSize := dataSize / numGoroutines

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		partStart := i * partSize
		partEnd := partStart + partSize
		// Last partition gets any remaining data.
		if i == numGoroutines-1 {
			partEnd = dataSize
		}

		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}
	wg.Wait()
}

// EdgeMode defines how to handle coordinates that are out of bounds.
type EdgeMode string

const (
	// ClampEdgeMode repeats the nearest edge pixel.
	ClampEdgeMode EdgeMode = "clamp"
	// MirrorEdgeMode reflects coordinates around the edge.
	MirrorEdgeMode EdgeMode = "mirror"
	// WrapEdgeMode tiles the image.
	WrapEdgeMode EdgeMode = "wrap"
)

// MapCoord maps a coordinate into [0, max) based on the edge mode.
func MapCoord(coord, max int, mode EdgeMode) int {
	if max <= 1 {
		return 0
	}
	switch mode {
	case MirrorEdgeMode:
		for coord < 0 || coord >= max {
			if coord < 0 {
				coord = -coord - 1
			} else {
				coord = 2*max - coord - 1
			}
		}
		return coord
	case WrapEdgeMode:
		return (coord%max + max) % max
	default:
		if coord < 0 {
			return 0
		} else if coord >= max {
			return max - 1
		}
		return coord
	}
}
