package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "imgprep",
	Short:         "Prepare images for guided generation: masks, guide maps and histogram matching",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Print [DEBUG] output")
	rootCmd.PersistentFlags().Bool("profile", false, "Print operation timings to stderr when done")
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config (or the defaults) and applies any flag the
// command defines and the user set explicitly.
func loadConfig(cmd *cobra.Command) (*preprocess.Config, error) {
	flags := cmd.Flags()

	cfg := preprocess.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		cfg, err = preprocess.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("resolution") {
		cfg.Resolution, _ = flags.GetString("resolution")
	}
	if flags.Changed("mask") {
		cfg.Mask, _ = flags.GetString("mask")
	}
	if flags.Changed("sigma") {
		cfg.GuideSigma, _ = flags.GetFloat32("sigma")
	}
	if flags.Changed("kernel") {
		cfg.GuideKernel, _ = flags.GetString("kernel")
	}
	if flags.Changed("concurrency") {
		cfg.MaxConcurrency, _ = flags.GetInt("concurrency")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Debug = true
	}

	return cfg, nil
}

// withPreprocessor builds a Preprocessor for cmd, runs fn with it and prints
// the timing report when --profile is set.
func withPreprocessor(cmd *cobra.Command, fn func(p *preprocess.Preprocessor) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := preprocess.NewPreprocessor(cfg)
	if err != nil {
		return err
	}

	if err := fn(p); err != nil {
		return err
	}

	if profile, _ := cmd.Flags().GetBool("profile"); profile {
		return p.Timings().Report(os.Stderr)
	}
	return nil
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", 0, "Resize width (0 keeps the source size)")
	cmd.Flags().Int("height", 0, "Resize height (0 keeps the source size)")
	cmd.Flags().String("resolution", "", "Resize to a preset (512, 720p, 1080p, ...) or WxH; overrides --width/--height")
}
