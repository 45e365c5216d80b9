package main

import (
	"encoding/json"
	"os"

	"github.com/nvr-ai/go-imgprep/histogram"
	"github.com/nvr-ai/go-imgprep/preprocess"
	"github.com/nvr-ai/go-imgprep/source"
	"github.com/spf13/cobra"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Print the first-channel histogram of an image as JSON",
	RunE:  runHistogram,
}

func init() {
	histogramCmd.Flags().StringP("input", "i", "", "Input image file")
	histogramCmd.Flags().Bool("cdf", false, "Include the normalized cumulative distribution")
	histogramCmd.Flags().String("mask", "", "Reduce the image to one channel first (r, g, b, a)")
	histogramCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(histogramCmd)
}

type histogramReport struct {
	Input     string              `json:"input"`
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	Total     uint64              `json:"total"`
	Histogram histogram.Histogram `json:"histogram"`
	CDF       *histogram.CDF      `json:"cdf,omitempty"`
}

func runHistogram(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	withCDF, _ := cmd.Flags().GetBool("cdf")

	return withPreprocessor(cmd, func(p *preprocess.Preprocessor) error {
		img, err := p.Load(source.FromPath(inputPath))
		if err != nil {
			return err
		}

		done := p.Timings().Track("histogram")
		hist := histogram.Build(img)
		report := histogramReport{
			Input:     inputPath,
			Width:     img.Rect.Dx(),
			Height:    img.Rect.Dy(),
			Total:     hist.Total(),
			Histogram: hist,
		}
		if withCDF {
			cdf, err := histogram.BuildCDF(hist)
			if err != nil {
				return err
			}
			report.CDF = &cdf
		}
		done()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}
