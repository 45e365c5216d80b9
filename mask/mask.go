// Package mask reduces an RGBA pixel buffer to a single channel broadcast across
// R, G and B with an opaque alpha.
package mask

import (
	"image"
	"strings"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/pkg/errors"
)

// Channel selects one of the four RGBA channels.
type Channel int

const (
	// R is the red channel.
	R Channel = iota
	// G is the green channel.
	G
	// B is the blue channel.
	B
	// A is the alpha channel.
	A
)

// ErrUnknownChannel is returned by ParseChannel for names outside r, g, b, a.
var ErrUnknownChannel = errors.New("unknown channel")

// Offset returns the byte offset of the channel within an RGBA pixel.
func (c Channel) Offset() int {
	switch c {
	case R:
		return 0
	case G:
		return 1
	case B:
		return 2
	case A:
		return 3
	default:
		panic("mask: invalid channel")
	}
}

func (c Channel) String() string {
	switch c {
	case R:
		return "r"
	case G:
		return "g"
	case B:
		return "b"
	case A:
		return "a"
	default:
		return "invalid"
	}
}

// ParseChannel parses a channel name such as "g" or "green" (case-insensitive).
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return R, nil
	case "g", "green":
		return G, nil
	case "b", "blue":
		return B, nil
	case "a", "alpha":
		return A, nil
	}
	return 0, errors.Wrapf(ErrUnknownChannel, "%q", s)
}

// Apply returns a copy of img where every pixel is (v, v, v, 255), v being the
// value of channel ch in the original pixel. img is not modified.
func Apply(img *image.NRGBA, ch Channel) *image.NRGBA {
	off := ch.Offset()
	if img == nil {
		return images.NewBuffer(0, 0)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst := images.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(src); i += 4 {
			v := src[i+off]
			out[i+0] = v
			out[i+1] = v
			out[i+2] = v
			out[i+3] = 0xff
		}
	}

	return dst
}
