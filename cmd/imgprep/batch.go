package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/nvr-ai/go-imgprep/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Match every image in a directory to one reference image",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringP("dir", "d", "", "Directory of input images")
	batchCmd.Flags().StringP("reference", "r", "", "Reference image")
	batchCmd.Flags().StringP("output-dir", "o", "", "Directory for matched images")
	batchCmd.Flags().Int("concurrency", 4, "Maximum number of images processed at once")
	batchCmd.Flags().String("mask", "", "Reduce every image to one channel first (r, g, b, a)")
	addSizeFlags(batchCmd)
	batchCmd.MarkFlagRequired("dir")
	batchCmd.MarkFlagRequired("reference")
	batchCmd.MarkFlagRequired("output-dir")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	referencePath, _ := cmd.Flags().GetString("reference")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return withPreprocessor(cmd, func(p *preprocess.Preprocessor) error {
		files, err := util.LoadDirectoryImageFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.Errorf("no images found in %s", dir)
		}

		reference, err := p.Load(source.FromPath(referencePath))
		if err != nil {
			return errors.Wrap(err, "failed to load reference")
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", outputDir)
		}

		log.Printf("Matching %d images from %s to %s", len(files), dir, referencePath)

		results, err := p.MatchFiles(ctx, files, reference)
		if err != nil {
			return err
		}

		for i, img := range results {
			outPath := filepath.Join(outputDir, files[i].Name())
			if err := images.Save(img, outPath); err != nil {
				return err
			}
		}

		log.Printf("Wrote %d images to %s", len(results), outputDir)
		return nil
	})
}
