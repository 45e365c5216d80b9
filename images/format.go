package images

import (
	"bytes"

	"github.com/pkg/errors"
)

// ImageFormat represents supported image formats
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
	FormatWebP ImageFormat = "webp"
	FormatBMP  ImageFormat = "bmp"
	FormatTIFF ImageFormat = "tiff"
)

// ErrUnknownFormat is returned when the magic bytes match no supported format.
var ErrUnknownFormat = errors.New("unknown image format")

type signature struct {
	format ImageFormat
	offset int
	magic  []byte
}

var signatures = []signature{
	{FormatJPEG, 0, []byte{0xFF, 0xD8, 0xFF}},
	{FormatPNG, 0, []byte("\x89PNG\r\n\x1a\n")},
	{FormatGIF, 0, []byte("GIF87a")},
	{FormatGIF, 0, []byte("GIF89a")},
	{FormatBMP, 0, []byte("BM")},
	{FormatTIFF, 0, []byte("II*\x00")},
	{FormatTIFF, 0, []byte("MM\x00*")},
}

// DetectFormat sniffs the container format from the leading bytes of data.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - The detected ImageFormat.
// - ErrUnknownFormat if no signature matches.
func DetectFormat(data []byte) (ImageFormat, error) {
	// RIFF????WEBP
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return FormatWebP, nil
	}
	for _, s := range signatures {
		end := s.offset + len(s.magic)
		if len(data) >= end && bytes.Equal(data[s.offset:end], s.magic) {
			return s.format, nil
		}
	}
	return "", ErrUnknownFormat
}
