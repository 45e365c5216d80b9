package main

import (
	"log"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match the tone distribution of an image to a reference",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringP("source", "s", "", "Image to rewrite")
	matchCmd.Flags().StringP("target", "t", "", "Reference image")
	matchCmd.Flags().StringP("output", "o", "", "Output image file")
	matchCmd.Flags().String("mask", "", "Reduce both images to one channel first (r, g, b, a)")
	addSizeFlags(matchCmd)
	matchCmd.MarkFlagRequired("source")
	matchCmd.MarkFlagRequired("target")
	matchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	sourcePath, _ := cmd.Flags().GetString("source")
	targetPath, _ := cmd.Flags().GetString("target")
	outputPath, _ := cmd.Flags().GetString("output")

	return withPreprocessor(cmd, func(p *preprocess.Preprocessor) error {
		src, err := p.Load(source.FromPath(sourcePath))
		if err != nil {
			return err
		}
		target, err := p.Load(source.FromPath(targetPath))
		if err != nil {
			return err
		}

		if err := p.Match(src, target); err != nil {
			return err
		}

		if err := images.Save(src, outputPath); err != nil {
			return err
		}

		log.Printf("Matched %s (%dx%d) to %s -> %s", sourcePath, src.Rect.Dx(), src.Rect.Dy(), targetPath, outputPath)
		return nil
	})
}
