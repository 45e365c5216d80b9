package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.Size())
	assert.Equal(t, DefaultGuideSigma, cfg.GuideSigma)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative width", func(c *Config) { c.Width, c.Height = -1, 10 }},
		{"width without height", func(c *Config) { c.Width = 10 }},
		{"unknown resolution", func(c *Config) { c.Resolution = "huge" }},
		{"unknown mask", func(c *Config) { c.Mask = "purple" }},
		{"negative sigma", func(c *Config) { c.GuideSigma = -0.5 }},
		{"unknown kernel", func(c *Config) { c.GuideKernel = "median" }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigResolutionOverridesSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.Resolution = "720p"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, &images.Size{Width: 1280, Height: 720}, cfg.Size())

	cfg.Resolution = "300x200"
	assert.Equal(t, &images.Size{Width: 300, Height: 200}, cfg.Size())
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "imgprep.yaml", `
width: 64
height: 48
mask: green
guide_sigma: 3.5
guide_kernel: box
max_concurrency: 8
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, &images.Size{Width: 64, Height: 48}, cfg.Size())
	assert.Equal(t, "green", cfg.Mask)
	assert.Equal(t, float32(3.5), cfg.GuideSigma)
	assert.Equal(t, "box", cfg.GuideKernel)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.True(t, cfg.Parallel, "unset fields keep their defaults")
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "imgprep.json", `{"width": 32, "height": 32, "parallel": false, "debug": true}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Width)
	assert.False(t, cfg.Parallel)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultGuideSigma, cfg.GuideSigma)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.json", `{"width":`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.yml", "mask: cyan\n"))
	assert.Error(t, err)
}
