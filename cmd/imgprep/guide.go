package main

import (
	"log"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Derive a blurred grayscale guide map from an image",
	RunE:  runGuide,
}

func init() {
	guideCmd.Flags().StringP("input", "i", "", "Input image file")
	guideCmd.Flags().StringP("output", "o", "", "Output image file")
	guideCmd.Flags().Float32("sigma", preprocess.DefaultGuideSigma, "Blur sigma (0 disables the blur)")
	guideCmd.Flags().String("kernel", "gaussian", "Blur kernel (gaussian, box)")
	addSizeFlags(guideCmd)
	guideCmd.MarkFlagRequired("input")
	guideCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	return withPreprocessor(cmd, func(p *preprocess.Preprocessor) error {
		// The guide builder resizes on its own; decode at the source size.
		img, err := source.Load(source.FromPath(inputPath), nil)
		if err != nil {
			return err
		}

		out := p.Guide(img)
		if err := images.Save(out, outputPath); err != nil {
			return err
		}

		log.Printf("Guide map %dx%d -> %s", out.Rect.Dx(), out.Rect.Dy(), outputPath)
		return nil
	})
}
