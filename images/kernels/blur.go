// Package kernels provides sliding-window box filters used to approximate a
// Gaussian blur in time independent of sigma.
package kernels

import (
	"image"
	"sync"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-imgprep/images"
)

// DefaultPasses is the number of box passes used by GaussianApprox.
const DefaultPasses = 3

// Options configures the blur call.
type Options struct {
	Radius   int             // Blur radius (window size = 2*Radius + 1). Must be >= 0.
	Edge     images.EdgeMode // Edge sampling mode.
	Pool     *Pool           // Optional buffer pool for intermediate/dst reuse.
	Parallel bool            // Enable row/column parallelism.
}

// Pool lets callers reuse large buffers across many guide maps of one size.
type Pool struct {
	nrgba sync.Pool // *image.NRGBA
}

// Get returns a buffer with the given bounds, reusing a pooled one when it fits.
func (p *Pool) Get(bounds image.Rectangle) *image.NRGBA {
	if p == nil {
		return image.NewNRGBA(bounds)
	}
	if v := p.nrgba.Get(); v != nil {
		img := v.(*image.NRGBA)
		if img.Rect == bounds {
			return img
		}
	}
	return image.NewNRGBA(bounds)
}

// Put hands img back to the pool. The next writer fully overwrites it.
func (p *Pool) Put(img *image.NRGBA) {
	if p == nil || img == nil {
		return
	}
	p.nrgba.Put(img)
}

// BoxBlur applies a separable box blur using a sliding window per row and
// column, so each pass is O(W*H) regardless of Radius.
//
// Returns a new canonical buffer. If Options.Pool is provided, the intermediate
// buffer is taken from and returned to it.
func BoxBlur(src image.Image, opt Options) *image.NRGBA {
	in := images.Normalize(src)
	if in == nil {
		return images.NewBuffer(0, 0)
	}
	b := in.Rect
	dst := opt.Pool.Get(b)
	if opt.Radius <= 0 || b.Empty() {
		copy(dst.Pix, in.Pix)
		return dst
	}

	tmp := opt.Pool.Get(b)
	boxBlurHoriz(in, tmp, opt.Radius, opt.Edge, opt.Parallel)
	boxBlurVert(tmp, dst, opt.Radius, opt.Edge, opt.Parallel)
	opt.Pool.Put(tmp)

	return dst
}

// GaussianApprox blurs src with successive box passes whose combined variance
// matches a Gaussian of the given sigma. opt.Radius is ignored.
func GaussianApprox(src image.Image, sigma float32, opt Options) *image.NRGBA {
	out := images.Normalize(src)
	if sigma <= 0 || out == nil {
		opt.Radius = 0
		return BoxBlur(src, opt)
	}
	for i, r := range BoxRadii(sigma, DefaultPasses) {
		opt.Radius = r
		next := BoxBlur(out, opt)
		if i > 0 {
			opt.Pool.Put(out)
		}
		out = next
	}
	return out
}

// BoxRadii returns the radii of n box filters whose sequential application
// approximates a Gaussian with standard deviation sigma.
func BoxRadii(sigma float32, n int) []int {
	if n <= 0 {
		return nil
	}
	nf := float32(n)
	ideal := math32.Sqrt(12*sigma*sigma/nf + 1)
	wl := int(math32.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2

	wlf := float32(wl)
	mIdeal := (12*sigma*sigma - nf*wlf*wlf - 4*nf*wlf - 3*nf) / (-4*wlf - 4)
	m := int(math32.Floor(mIdeal + 0.5))

	radii := make([]int, n)
	for i := range radii {
		w := wu
		if i < m {
			w = wl
		}
		radii[i] = (w - 1) / 2
	}
	return radii
}

// boxBlurHoriz slides a window of 2r+1 pixels along every row: the initial sum
// covers [-r, r], then each step subtracts the pixel leaving on the left and adds
// the one entering on the right.
func boxBlurHoriz(src, dst *image.NRGBA, r int, edge images.EdgeMode, parallel bool) {
	w := src.Rect.Dx()
	h := src.Rect.Dy()
	window := uint32(2*r + 1)
	half := window / 2

	rowTask := func(y int) {
		srcRow := y * src.Stride
		dstRow := y * dst.Stride
		load := func(x int) (uint32, uint32, uint32, uint32) {
			off := srcRow + images.MapCoord(x, w, edge)*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dx := -r; dx <= r; dx++ {
			r8, g8, b8, a8 := load(dx)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for x := 0; x < w; x++ {
			off := dstRow + x*4
			dst.Pix[off+0] = uint8((sumR + half) / window)
			dst.Pix[off+1] = uint8((sumG + half) / window)
			dst.Pix[off+2] = uint8((sumB + half) / window)
			dst.Pix[off+3] = uint8((sumA + half) / window)

			lr, lg, lb, la := load(x - r)
			rr, rg, rb, ra := load(x + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	run(h, parallel, rowTask)
}

// boxBlurVert mirrors boxBlurHoriz along columns.
func boxBlurVert(src, dst *image.NRGBA, r int, edge images.EdgeMode, parallel bool) {
	w := src.Rect.Dx()
	h := src.Rect.Dy()
	window := uint32(2*r + 1)
	half := window / 2

	colTask := func(x int) {
		load := func(y int) (uint32, uint32, uint32, uint32) {
			off := images.MapCoord(y, h, edge)*src.Stride + x*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dy := -r; dy <= r; dy++ {
			r8, g8, b8, a8 := load(dy)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for y := 0; y < h; y++ {
			off := y*dst.Stride + x*4
			dst.Pix[off+0] = uint8((sumR + half) / window)
			dst.Pix[off+1] = uint8((sumG + half) / window)
			dst.Pix[off+2] = uint8((sumB + half) / window)
			dst.Pix[off+3] = uint8((sumA + half) / window)

			lr, lg, lb, la := load(y - r)
			rr, rg, rb, ra := load(y + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	run(w, parallel, colTask)
}

func run(n int, parallel bool, task func(int)) {
	if !parallel {
		for i := 0; i < n; i++ {
			task(i)
		}
		return
	}
	images.Parallel(n, func(start, end int) {
		for i := start; i < end; i++ {
			task(i)
		}
	})
}
