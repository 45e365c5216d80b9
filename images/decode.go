package images

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrDecode is matched by every *DecodeError via errors.Is.
var ErrDecode = errors.New("decode failed")

// DecodeError reports that an image source could not be interpreted as an image.
type DecodeError struct {
	// Origin describes where the bytes came from ("memory" or a file path).
	Origin string
	// Format is the detected format, empty when detection itself failed.
	Format ImageFormat
	// Err is the underlying codec or I/O error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("failed to decode %s image from %s: %v", e.Format, e.Origin, e.Err)
	}
	return fmt.Sprintf("failed to decode image from %s: %v", e.Origin, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Decode decodes an in-memory encoded image into a canonical pixel buffer. The
// format is auto-detected from magic bytes.
//
// Arguments:
//   - data: The encoded image bytes.
//
// Returns:
//   - *image.NRGBA: The decoded pixel buffer.
//   - ImageFormat: The detected format.
//   - error: A *DecodeError if the image fails to decode.
func Decode(data []byte) (*image.NRGBA, ImageFormat, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Origin: "memory", Err: errors.New("empty image data")}
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, "", &DecodeError{Origin: "memory", Err: err}
	}

	reader := bytes.NewReader(data)

	var img image.Image
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(reader)
	case FormatPNG:
		img, err = png.Decode(reader)
	case FormatGIF:
		img, err = gif.Decode(reader)
	case FormatWebP:
		img, err = webp.Decode(reader)
	case FormatBMP:
		img, err = bmp.Decode(reader)
	case FormatTIFF:
		img, err = tiff.Decode(reader)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, format, &DecodeError{Origin: "memory", Format: format, Err: err}
	}

	return Normalize(img), format, nil
}

// Open loads an image from disk. The format is inferred from the file content and
// EXIF orientation is applied.
//
// Arguments:
//   - path: The file to load.
//
// Returns:
//   - *image.NRGBA: The decoded pixel buffer.
//   - error: A *DecodeError if the file is missing or cannot be decoded.
func Open(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Origin: path, Err: err}
	}
	return Normalize(img), nil
}

// Save writes img to path, choosing the encoder from the file extension.
//
// Arguments:
//   - img: The image to write.
//   - path: The destination file; its extension selects the format.
//
// Returns:
//   - error: An error if the image fails to encode or write.
func Save(img image.Image, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", path)
		}
		defer f.Close()

		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			return errors.Wrapf(err, "failed to encode %s", path)
		}
		return f.Close()
	}

	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
