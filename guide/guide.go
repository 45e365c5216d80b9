// Package guide derives guide maps: blurred grayscale renditions of an image
// used to steer a downstream generation process.
package guide

import (
	"image"
	"strings"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/images/kernels"
	"github.com/pkg/errors"
)

// BlurKernel selects how the blur stage is computed.
type BlurKernel string

const (
	// KernelGaussian applies a true separable Gaussian.
	KernelGaussian BlurKernel = "gaussian"
	// KernelBox approximates the Gaussian with three box passes, in time
	// independent of sigma.
	KernelBox BlurKernel = "box"
)

// ErrUnknownKernel is returned by ParseKernel for unsupported names.
var ErrUnknownKernel = errors.New("unknown blur kernel")

// ParseKernel parses a kernel name; the empty string selects KernelGaussian.
func ParseKernel(s string) (BlurKernel, error) {
	switch BlurKernel(strings.ToLower(strings.TrimSpace(s))) {
	case "", KernelGaussian:
		return KernelGaussian, nil
	case KernelBox:
		return KernelBox, nil
	}
	return "", errors.Wrapf(ErrUnknownKernel, "%q", s)
}

// Options configures a Builder.
type Options struct {
	// Kernel selects the blur implementation. Defaults to KernelGaussian.
	Kernel BlurKernel
	// Pool supplies reusable buffers for KernelBox.
	Pool *kernels.Pool
	// Parallel enables row/column parallelism for KernelBox.
	Parallel bool
}

// Builder produces guide maps with fixed options. It is safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder for opts.
func NewBuilder(opts Options) *Builder {
	if opts.Kernel == "" {
		opts.Kernel = KernelGaussian
	}
	return &Builder{opts: opts}
}

var defaultBuilder = NewBuilder(Options{})

// Build derives a guide map from img with the default Gaussian kernel.
// See (*Builder).Build.
func Build(img *image.NRGBA, size *images.Size, sigma float32) *image.NRGBA {
	return defaultBuilder.Build(img, size, sigma)
}

// Build runs the fixed pipeline resize → blur → grayscale and returns a new
// buffer whose R, G and B channels hold the same luma value.
//
// Arguments:
//   - img: The source pixel buffer; it is not modified.
//   - size: Optional target dimensions. The image is resized with a triangle
//     filter only when size is non-nil, non-empty and differs from img.
//   - sigma: Blur standard deviation; sigma <= 0 skips blurring.
//
// Returns:
//   - The guide map.
func (b *Builder) Build(img *image.NRGBA, size *images.Size, sigma float32) *image.NRGBA {
	if img == nil {
		return images.NewBuffer(0, 0)
	}

	var src image.Image = img
	if size != nil && !size.Empty() && !size.Matches(img) {
		src = resize.Resize(uint(size.Width), uint(size.Height), img, resize.Bilinear)
	}

	if b.opts.Kernel == KernelBox {
		blurred := kernels.GaussianApprox(src, sigma, kernels.Options{
			Edge:     images.ClampEdgeMode,
			Pool:     b.opts.Pool,
			Parallel: b.opts.Parallel,
		})
		out := images.Grayscale(blurred)
		b.opts.Pool.Put(blurred)
		return out
	}

	return images.Grayscale(images.Blur(src, sigma))
}
