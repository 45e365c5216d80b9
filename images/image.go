// Package images defines the pixel buffer and the geometry, filter and codec
// operations the preprocessing pipeline builds on.
package images

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Size represents target image dimensions in pixels.
type Size struct {
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// String returns the size formatted as WxH.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Empty reports whether the size covers no pixels.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Matches reports whether img already has exactly these dimensions.
func (s Size) Matches(img image.Image) bool {
	b := img.Bounds()
	return b.Dx() == s.Width && b.Dy() == s.Height
}

// NewBuffer allocates a zeroed pixel buffer of the given dimensions.
//
// Arguments:
// - width: The width of the buffer.
// - height: The height of the buffer.
//
// Returns:
// - An origin-anchored *image.NRGBA with Stride == 4*width.
func NewBuffer(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Normalize converts any decoded image into the canonical pixel buffer: a
// non-premultiplied 8-bit RGBA raster anchored at the origin with a tight stride,
// so that len(Pix) == w*h*4.
//
// A buffer that is already canonical is returned as is; anything else is copied.
//
// Arguments:
// - img: The image to normalize.
//
// Returns:
// - The canonical pixel buffer, or nil when img is nil.
func Normalize(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	if n, ok := img.(*image.NRGBA); ok {
		if n == nil {
			return nil
		}
		if IsCanonical(n) {
			return n
		}
	}
	return imaging.Clone(img)
}

// IsCanonical reports whether buf is origin-anchored with a tight stride.
func IsCanonical(buf *image.NRGBA) bool {
	if buf == nil {
		return false
	}
	return buf.Rect.Min == (image.Point{}) &&
		buf.Stride == 4*buf.Rect.Dx() &&
		len(buf.Pix) == 4*buf.Rect.Dx()*buf.Rect.Dy()
}

// PixelCount returns the number of pixels covered by img, or 0 for nil.
func PixelCount(img image.Image) int {
	if img == nil {
		return 0
	}
	if n, ok := img.(*image.NRGBA); ok && n == nil {
		return 0
	}
	b := img.Bounds()
	return b.Dx() * b.Dy()
}
