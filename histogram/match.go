package histogram

import (
	"image"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/pkg/errors"
)

// LUT maps every source intensity to its matched intensity.
type LUT [Levels]uint8

// Options configures MatchWithOptions.
type Options struct {
	// Parallel partitions the per-pixel remap across goroutines by row.
	Parallel bool
}

// Remap returns the matched intensity for source intensity v.
//
// With p = src[v], it finds the smallest t with tgt[t] > p. When no entry
// exceeds p, t falls back to v+1. The result is t-1, saturated to [0, 255]:
// v = 255 on the fallback path yields 255, and t = 0 yields 0.
func Remap(v uint8, src, tgt *CDF) uint8 {
	p := src[v]

	t := int(v) + 1
	for i, c := range tgt {
		if c > p {
			t = i
			break
		}
	}

	switch n := t - 1; {
	case n < 0:
		return 0
	case n > Levels-1:
		return Levels - 1
	default:
		return uint8(n)
	}
}

// NewLUT precomputes Remap for every intensity.
func NewLUT(src, tgt *CDF) LUT {
	var lut LUT
	for v := range lut {
		lut[v] = Remap(uint8(v), src, tgt)
	}
	return lut
}

// Apply rewrites every pixel of img in place as (n, n, n, 255), where n is the
// LUT entry for the pixel's first channel.
func (l *LUT) Apply(img *image.NRGBA, parallel bool) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	rows := func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				n := l[row[i]]
				row[i+0] = n
				row[i+1] = n
				row[i+2] = n
				row[i+3] = 0xff
			}
		}
	}

	if parallel {
		images.Parallel(h, rows)
		return
	}
	rows(0, h)
}

// Match rewrites source in place so that its first-channel distribution
// approximates target's. The remap runs in parallel across rows.
//
// The dimensions of source and target may differ. Both must cover at least one
// pixel; otherwise ErrDegenerateInput is returned and source is left untouched.
func Match(source, target *image.NRGBA) error {
	return MatchWithOptions(source, target, Options{Parallel: true})
}

// MatchWithOptions is Match with explicit options.
func MatchWithOptions(source, target *image.NRGBA, opt Options) error {
	if source == nil || images.PixelCount(source) == 0 {
		return errors.Wrap(ErrDegenerateInput, "source")
	}
	if target == nil || images.PixelCount(target) == 0 {
		return errors.Wrap(ErrDegenerateInput, "target")
	}

	targetCDF, err := BuildCDF(Build(target))
	if err != nil {
		return errors.Wrap(err, "target")
	}
	sourceCDF, err := BuildCDF(Build(source))
	if err != nil {
		return errors.Wrap(err, "source")
	}

	lut := NewLUT(&sourceCDF, &targetCDF)
	lut.Apply(source, opt.Parallel)

	return nil
}
