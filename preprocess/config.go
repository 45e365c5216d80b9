package preprocess

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-imgprep/guide"
	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/mask"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultGuideSigma is the blur sigma used for guide maps when none is configured.
const DefaultGuideSigma float32 = 2.0

// Config defines the preprocessing configuration for a session.
type Config struct {
	// Width is the width loaded images are resized to (0 keeps the source width).
	Width int `json:"width" yaml:"width"`
	// Height is the height loaded images are resized to (0 keeps the source height).
	Height int `json:"height" yaml:"height"`
	// Resolution selects a preset such as "1080p" or an explicit "WxH" size;
	// it takes precedence over Width and Height.
	Resolution string `json:"resolution" yaml:"resolution"`
	// Mask names the channel loaded images are reduced to ("" disables masking).
	Mask string `json:"mask" yaml:"mask"`
	// GuideSigma is the Gaussian sigma of the guide map blur.
	GuideSigma float32 `json:"guide_sigma" yaml:"guide_sigma"`
	// GuideKernel selects the guide map blur implementation ("gaussian" or "box").
	GuideKernel string `json:"guide_kernel" yaml:"guide_kernel"`
	// Parallel splits per-pixel work across goroutines.
	Parallel bool `json:"parallel" yaml:"parallel"`
	// MaxConcurrency bounds the number of files matched at once in a batch.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`
	// Debug enables [DEBUG] output.
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultConfig returns the configuration used when no file is given.
//
// Returns:
// - A Config that keeps source dimensions and applies no mask.
func DefaultConfig() *Config {
	return &Config{
		GuideSigma:     DefaultGuideSigma,
		GuideKernel:    string(guide.KernelGaussian),
		Parallel:       true,
		MaxConcurrency: 4,
	}
}

// Validate checks that the configuration is usable.
//
// Returns:
// - error describing the first invalid field.
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("width and height must both be set or both be zero, got %dx%d", c.Width, c.Height)
	}
	if c.Resolution != "" {
		if _, err := images.ParseResolution(c.Resolution); err != nil {
			return errors.Wrap(err, "invalid resolution")
		}
	}
	if c.Mask != "" {
		if _, err := mask.ParseChannel(c.Mask); err != nil {
			return errors.Wrap(err, "invalid mask")
		}
	}
	if c.GuideSigma < 0 {
		return fmt.Errorf("invalid guide sigma: %v", c.GuideSigma)
	}
	if _, err := guide.ParseKernel(c.GuideKernel); err != nil {
		return errors.Wrap(err, "invalid guide kernel")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("invalid max concurrency: %d", c.MaxConcurrency)
	}
	return nil
}

// Size returns the configured target dimensions, or nil when images keep
// their source dimensions.
func (c *Config) Size() *images.Size {
	if c.Resolution != "" {
		if size, err := images.ParseResolution(c.Resolution); err == nil {
			return &size
		}
	}
	if c.Width == 0 && c.Height == 0 {
		return nil
	}
	return &images.Size{Width: c.Width, Height: c.Height}
}

// LoadConfig reads a configuration file on top of DefaultConfig.
//
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
//
// Arguments:
// - path: Path to the configuration file.
//
// Returns:
// - The validated configuration.
// - error if the file cannot be read, parsed or validated.
//
// @example
//
//	cfg, err := LoadConfig("imgprep.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}
