package main

import (
	"log"

	"github.com/nvr-ai/go-imgprep/images"
	"github.com/nvr-ai/go-imgprep/mask"
	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/spf13/cobra"
)

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Broadcast one channel of an image across R, G and B",
	RunE:  runMask,
}

func init() {
	maskCmd.Flags().StringP("input", "i", "", "Input image file")
	maskCmd.Flags().StringP("output", "o", "", "Output image file")
	maskCmd.Flags().StringP("channel", "c", "", "Channel to keep (r, g, b, a)")
	maskCmd.MarkFlagRequired("input")
	maskCmd.MarkFlagRequired("output")
	maskCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(maskCmd)
}

func runMask(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	channelName, _ := cmd.Flags().GetString("channel")

	ch, err := mask.ParseChannel(channelName)
	if err != nil {
		return err
	}

	return withPreprocessor(cmd, func(p *preprocess.Preprocessor) error {
		img, err := p.Load(source.FromPath(inputPath).WithMask(ch))
		if err != nil {
			return err
		}

		if err := images.Save(img, outputPath); err != nil {
			return err
		}

		log.Printf("Masked %s on channel %s -> %s", inputPath, ch, outputPath)
		return nil
	})
}
