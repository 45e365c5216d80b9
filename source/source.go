// Package source describes where an input image comes from and resolves that
// description into a pixel buffer: decode once, optionally resize, optionally
// mask a single channel.
package source

import (
	"image"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/mask"
	"github.com/pkg/errors"
)

// Kind identifies the origin of a Source's pixel data.
type Kind int

const (
	// KindNone is the zero Kind; a Source of this kind has no data.
	KindNone Kind = iota
	// KindMemory holds encoded image bytes; the format is detected from magic bytes.
	KindMemory
	// KindPath names a file on disk; the format is inferred when it is opened.
	KindPath
	// KindImage holds an already decoded image.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindPath:
		return "path"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// ErrNoData is returned when loading a zero Source.
var ErrNoData = errors.New("source has no data")

// Source is a request for pixel data plus an optional channel mask. It is a
// value type; WithMask returns a modified copy.
type Source struct {
	kind  Kind
	data  []byte
	path  string
	img   image.Image
	mask  mask.Channel
	masks bool
}

// FromMemory returns a Source backed by encoded image bytes.
func FromMemory(data []byte) Source {
	return Source{kind: KindMemory, data: data}
}

// FromPath returns a Source backed by an image file.
func FromPath(path string) Source {
	return Source{kind: KindPath, path: path}
}

// FromImage returns a Source backed by an already decoded image.
func FromImage(img image.Image) Source {
	return Source{kind: KindImage, img: img}
}

// WithMask returns a copy of s that reduces the loaded image to channel ch.
func (s Source) WithMask(ch mask.Channel) Source {
	s.mask = ch
	s.masks = true
	return s
}

// Kind reports the origin of the pixel data.
func (s Source) Kind() Kind { return s.kind }

// Mask returns the configured channel and whether a mask is set.
func (s Source) Mask() (mask.Channel, bool) { return s.mask, s.masks }

// String describes the origin, for logs.
func (s Source) String() string {
	switch s.kind {
	case KindPath:
		return s.path
	case KindMemory:
		return "memory"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// Decode resolves the origin into a canonical pixel buffer without resizing
// or masking. Decoding failures are *images.DecodeError.
func (s Source) Decode() (*image.NRGBA, error) {
	switch s.kind {
	case KindMemory:
		img, _, err := images.Decode(s.data)
		return img, err
	case KindPath:
		return images.Open(s.path)
	case KindImage:
		img := images.Normalize(s.img)
		if img == nil {
			return nil, ErrNoData
		}
		return img, nil
	default:
		return nil, ErrNoData
	}
}

// Load decodes src, resizes it with a Catmull-Rom filter when size is non-nil
// and differs from the decoded dimensions, then applies the mask if one is set.
//
// The returned buffer never aliases a decoded image passed in through
// FromImage when a resize or mask is applied; otherwise it may.
//
// Arguments:
//   - src: The image source description.
//   - size: Optional target dimensions.
//
// Returns:
//   - *image.NRGBA: The prepared pixel buffer.
//   - error: ErrNoData or a *images.DecodeError.
func Load(src Source, size *images.Size) (*image.NRGBA, error) {
	img, err := src.Decode()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s source", src.kind)
	}

	if size != nil && !size.Empty() && !size.Matches(img) {
		img = images.Resize(img, size.Width, size.Height, images.CatmullRomFilter)
	}

	if ch, ok := src.Mask(); ok {
		img = mask.Apply(img, ch)
	}

	return img, nil
}
