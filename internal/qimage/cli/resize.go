package cli

import (
	"fmt"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/spf13/cobra"
)

var resizeCmd = &cobra.Command{
	Use:   "resize <file>",
	Short: "Resize an image",
	Long: `Resize an image into an output directory, keeping its file name.

A single dimension is applied to the longer side of the image and the
other side follows the aspect ratio. With both dimensions the image is
scaled to exactly that size. A size larger than the original keeps the
original size unless --exact is given.

Examples:
  qimage resize photo.jpg --width 800 -o out
  qimage resize photo.jpg --height 400 -o out
  qimage resize icon.png --width 512 --exact -o out
  qimage resize photo.jpg --preset og -o social`,
	Args: cobra.ExactArgs(1),
	RunE: runResize,
}

var (
	resizeWidth  int
	resizeHeight int
	resizePreset string
	resizeExact  bool
	resizeOutput string
)

func init() {
	resizeCmd.Flags().IntVar(&resizeWidth, "width", 0, "Target width in pixels")
	resizeCmd.Flags().IntVar(&resizeHeight, "height", 0, "Target height in pixels")
	resizeCmd.Flags().StringVarP(&resizePreset, "preset", "p", "", "Named size (thumbnail, sm, md, lg, xl, og, twitter, instagram_*)")
	resizeCmd.Flags().BoolVar(&resizeExact, "exact", false, "Use the requested size even when larger than the original")
	resizeCmd.Flags().StringVarP(&resizeOutput, "output", "o", "", "Output directory (default from config)")
}

// buildResizeRequest merges preset, explicit dimensions and --exact. Explicit
// dimensions win over the preset.
func buildResizeRequest(cmd *cobra.Command, source, outputDir, preset string, width, height int, exact bool) (*processor.ResizeRequest, error) {
	proportional := !exact
	req := &processor.ResizeRequest{Source: source, OutputDir: outputDir}

	if preset != "" {
		p, presetProportional, ok := cfg.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		req = p.Request(source, outputDir)
		proportional = proportional && presetProportional
	}
	if cmd.Flags().Changed("width") {
		req.Width = width
	}
	if cmd.Flags().Changed("height") {
		req.Height = height
	}
	if req.OutputDir == "" {
		req.OutputDir = cfg.OutputDir
	}
	req.Proportional = &proportional
	return req, nil
}

func runResize(cmd *cobra.Command, args []string) error {
	req, err := buildResizeRequest(cmd, args[0], resizeOutput, resizePreset, resizeWidth, resizeHeight, resizeExact)
	if err != nil {
		return err
	}

	p := newProcessor()
	desc, err := p.Resize(cmd.Context(), req)
	return report(args[0], p, desc, err)
}
