package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watermarkCmd = &cobra.Command{
	Use:   "watermark <file>...",
	Short: "Stamp the watermark onto images",
	Long: `Stamp the configured PNG watermark onto the bottom-right corner of each
image. Files are rewritten in place unless --out names a destination,
which is only allowed for a single file.

Examples:
  qimage watermark out/photo.jpg
  qimage watermark out/*.png --watermark-image brand.png
  qimage watermark photo.jpg --out photo-marked.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatermark,
}

var watermarkOut string

func init() {
	watermarkCmd.Flags().StringVarP(&watermarkOut, "out", "o", "", "Write to this file instead of in place")
}

func runWatermark(cmd *cobra.Command, args []string) error {
	if watermarkOut != "" && len(args) > 1 {
		return fmt.Errorf("--out can only be used with a single file")
	}

	var results []result
	failed := 0
	for _, target := range args {
		out := target
		if watermarkOut != "" {
			out = watermarkOut
		}

		p := newProcessor()
		desc, err := p.WatermarkTo(cmd.Context(), target, out)
		results = append(results, result{Source: target, Output: desc, Errors: p.Errors()})
		if err != nil {
			failed++
			printer.Diagnostics(target, p.Errors())
			continue
		}
		printer.ImageWritten(target, desc)
	}

	if printer.IsJSON() {
		if err := printer.JSON(results); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		printer.Summary(len(args)-failed, failed)
	}
	if failed > 0 {
		return ErrReported
	}
	return nil
}
