// Package histogram builds 8-bit intensity histograms and their cumulative
// distributions, and remaps one image's intensities onto another's distribution.
//
// Only the first channel of each pixel is read. Callers are expected to pass
// buffers that are already single-channel meaningful: masked with the mask
// package, grayscaled, or naturally single-intensity.
package histogram

import (
	"image"

	"github.com/pkg/errors"
)

// Levels is the number of intensity values in an 8-bit channel.
const Levels = 256

// ErrDegenerateInput is returned when an image or histogram covers no pixels.
var ErrDegenerateInput = errors.New("degenerate input: image has no pixels")

// Histogram counts first-channel intensity occurrences; the index is the intensity.
type Histogram [Levels]uint32

// Total returns the number of pixels counted.
func (h *Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += uint64(c)
	}
	return n
}

// Build scans the first channel of every pixel of img.
func Build(img *image.NRGBA) Histogram {
	var h Histogram
	if img == nil {
		return h
	}
	w, rows := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < rows; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			h[row[i]]++
		}
	}
	return h
}
