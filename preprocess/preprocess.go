// Package preprocess ties the pipeline stages together into a configured
// session: load and mask sources, derive guide maps, and tone-match images
// against a reference, one at a time or as a batch.
package preprocess

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/nvr-ai/go-imgprep/guide"
	"github.com/nvr-ai/go-imgprep/histogram"
	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/images/kernels"
	"github.com/nvr-ai/go-imgprep/mask"
	"github.com/nvr-ai/go-imgprep/profiler"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/nvr-ai/go-imgprep/util"
	"github.com/pkg/errors"
)

// Preprocessor runs the pipeline with a fixed configuration.
//
// It is safe for concurrent use; MatchFiles relies on this.
type Preprocessor struct {
	config    *Config
	size      *images.Size
	channel   mask.Channel
	masks     bool
	guide     *guide.Builder
	timings   *profiler.Timings
	debugMode bool
}

// NewPreprocessor creates a new preprocessor with the given configuration.
//
// Arguments:
// - config: The session configuration; nil selects DefaultConfig.
//
// Returns:
// - A configured Preprocessor instance.
// - error if the configuration is invalid.
//
// @example
//
//	config := DefaultConfig()
//	config.Width, config.Height = 512, 512
//	config.Mask = "g"
//
// preprocessor, err := NewPreprocessor(config)
func NewPreprocessor(config *Config) (*Preprocessor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid preprocessor config")
	}

	kernel, _ := guide.ParseKernel(config.GuideKernel)

	p := &Preprocessor{
		config: config,
		size:   config.Size(),
		guide: guide.NewBuilder(guide.Options{
			Kernel:   kernel,
			Pool:     &kernels.Pool{},
			Parallel: config.Parallel,
		}),
		timings:   profiler.NewTimings(),
		debugMode: config.Debug,
	}
	if config.Mask != "" {
		p.channel, _ = mask.ParseChannel(config.Mask)
		p.masks = true
	}

	return p, nil
}

// SetDebugMode enables or disables debug logging.
//
// Arguments:
// - enabled: Whether to enable debug mode.
//
// @example
// preprocessor.SetDebugMode(true)
func (p *Preprocessor) SetDebugMode(enabled bool) {
	p.debugMode = enabled
}

// Config returns the configuration the preprocessor was built with.
func (p *Preprocessor) Config() *Config {
	return p.config
}

// Timings returns the per-operation timing statistics collected so far.
func (p *Preprocessor) Timings() *profiler.Timings {
	return p.timings
}

// Load resolves src into a pixel buffer at the configured size. The configured
// mask is applied unless src carries its own.
//
// Arguments:
// - src: The image source.
//
// Returns:
// - The prepared pixel buffer.
// - error if decoding fails.
//
// @example
//
//	img, err := preprocessor.Load(source.FromPath("frame-0001.jpg"))
//	if err != nil {
//	    log.Fatal(err)
//	}
func (p *Preprocessor) Load(src source.Source) (*image.NRGBA, error) {
	defer p.timings.Track("load")()

	if _, ok := src.Mask(); !ok && p.masks {
		src = src.WithMask(p.channel)
	}

	img, err := source.Load(src, p.size)
	if err != nil {
		return nil, err
	}

	if p.debugMode {
		ch, masked := src.Mask()
		fmt.Printf("[DEBUG] Loaded %s source %s: %dx%d, masked: %v", src.Kind(), src, img.Rect.Dx(), img.Rect.Dy(), masked)
		if masked {
			fmt.Printf(" (%s)", ch)
		}
		fmt.Printf("\n")
	}

	return img, nil
}

// Guide derives a guide map from img at the configured size and sigma.
//
// Arguments:
// - img: The source pixel buffer; it is not modified.
//
// Returns:
// - The guide map.
func (p *Preprocessor) Guide(img *image.NRGBA) *image.NRGBA {
	defer p.timings.Track("guide")()

	out := p.guide.Build(img, p.size, p.config.GuideSigma)

	if p.debugMode {
		fmt.Printf("[DEBUG] Guide map: %dx%d, sigma: %.2f, kernel: %s\n",
			out.Rect.Dx(), out.Rect.Dy(), p.config.GuideSigma, p.config.GuideKernel)
	}

	return out
}

// Match rewrites src in place so its first-channel distribution follows
// target's.
//
// Arguments:
// - src: The buffer to rewrite.
// - target: The reference buffer; it is only read.
//
// Returns:
// - error wrapping histogram.ErrDegenerateInput if either buffer is empty.
func (p *Preprocessor) Match(src, target *image.NRGBA) error {
	defer p.timings.Track("match")()

	if err := histogram.MatchWithOptions(src, target, histogram.Options{Parallel: p.config.Parallel}); err != nil {
		return errors.Wrap(err, "histogram matching failed")
	}

	if p.debugMode {
		fmt.Printf("[DEBUG] Matched %dx%d source to %dx%d target\n",
			src.Rect.Dx(), src.Rect.Dy(), target.Rect.Dx(), target.Rect.Dy())
	}

	return nil
}

// MatchFiles loads every file and matches it to reference, processing up to
// MaxConcurrency files at once. The reference CDF is built once and shared.
//
// Arguments:
// - ctx: Cancels files that have not started yet.
// - files: The files to process; Data is used when present, Path otherwise.
// - reference: The already loaded reference buffer.
//
// Returns:
// - One matched buffer per file, in input order.
// - error for the first file that failed, or the context error.
//
// @example
//
//	files, _ := util.LoadDirectoryImageFiles("frames")
//	ref, _ := preprocessor.Load(source.FromPath("reference.png"))
//	results, err := preprocessor.MatchFiles(ctx, files, ref)
func (p *Preprocessor) MatchFiles(ctx context.Context, files []util.ImageFile, reference *image.NRGBA) ([]*image.NRGBA, error) {
	defer p.timings.Track("batch")()

	if reference == nil || images.PixelCount(reference) == 0 {
		return nil, errors.Wrap(histogram.ErrDegenerateInput, "reference image is empty")
	}
	refCDF, err := histogram.BuildCDF(histogram.Build(reference))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build reference CDF")
	}

	maxConcurrency := p.config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	if p.debugMode {
		fmt.Printf("[DEBUG] Matching %d files with concurrency %d\n", len(files), maxConcurrency)
	}

	results := make([]*image.NRGBA, len(files))
	errs := make([]error, len(files))

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(idx int, file util.ImageFile) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			img, err := p.matchFile(file, &refCDF)
			if err != nil {
				errs[idx] = errors.Wrapf(err, "failed to match %s", file.Path)
				return
			}
			results[idx] = img
		}(i, file)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// matchFile loads one file and remaps it through the reference CDF.
func (p *Preprocessor) matchFile(file util.ImageFile, refCDF *histogram.CDF) (*image.NRGBA, error) {
	src := source.FromPath(file.Path)
	if len(file.Data) > 0 {
		src = source.FromMemory(file.Data)
	}

	img, err := p.Load(src)
	if err != nil {
		return nil, err
	}

	done := p.timings.Track("match")
	defer done()

	srcCDF, err := histogram.BuildCDF(histogram.Build(img))
	if err != nil {
		return nil, err
	}
	lut := histogram.NewLUT(&srcCDF, refCDF)
	lut.Apply(img, p.config.Parallel)

	if p.debugMode {
		fmt.Printf("[DEBUG] Matched %s (frame %d)\n", file.Name(), file.Frame)
	}

	return img, nil
}
