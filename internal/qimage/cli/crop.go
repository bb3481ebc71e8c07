package cli

import (
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/spf13/cobra"
)

var cropCmd = &cobra.Command{
	Use:   "crop <file>",
	Short: "Cut a rectangle out of an image",
	Long: `Cut a width x height rectangle at (x, y) out of an image. The result
keeps the source file name and is written to the output directory. Parts
of the rectangle outside the source are left transparent.

Examples:
  qimage crop photo.png -x 10 -y 10 --width 200 --height 100 -o out`,
	Args: cobra.ExactArgs(1),
	RunE: runCrop,
}

var (
	cropX      int
	cropY      int
	cropWidth  int
	cropHeight int
	cropOutput string
)

func init() {
	cropCmd.Flags().IntVarP(&cropX, "x", "x", 0, "Left edge of the rectangle")
	cropCmd.Flags().IntVarP(&cropY, "y", "y", 0, "Top edge of the rectangle")
	cropCmd.Flags().IntVar(&cropWidth, "width", 0, "Rectangle width")
	cropCmd.Flags().IntVar(&cropHeight, "height", 0, "Rectangle height")
	cropCmd.Flags().StringVarP(&cropOutput, "output", "o", "", "Output directory (default from config)")
}

func runCrop(cmd *cobra.Command, args []string) error {
	out := cropOutput
	if out == "" {
		out = cfg.OutputDir
	}

	p := newProcessor()
	desc, err := p.Crop(cmd.Context(), &processor.CropRequest{
		Source:    args[0],
		X:         cropX,
		Y:         cropY,
		Width:     cropWidth,
		Height:    cropHeight,
		OutputDir: out,
	})
	return report(args[0], p, desc, err)
}
