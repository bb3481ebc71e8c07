package cli

import (
	"context"
	"errors"

	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/metrics"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/processor/image"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/config"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/output"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/version"
	"github.com/spf13/cobra"
)

// ErrReported is returned once the failure has already been printed.
var ErrReported = errors.New("qimage: operation failed")

var (
	jsonOutput     bool
	quietMode      bool
	noColor        bool
	configPath     string
	watermarkImage string
	jpegQuality    int
	cfg            *config.Config
	printer        *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "qimage",
	Short: "qimage - resize, crop, watermark and stage JPEG, GIF and PNG images",
	Long: `qimage runs the image component from the terminal.

Every command works on local files and writes its results next to the
paths you give it. Failures print one diagnostic per line and exit 1.

Get started:
  qimage check photo.jpg                    # Show format and size
  qimage resize photo.jpg --width 800 -o out # Scale proportionally
  qimage watermark out/photo.jpg            # Stamp the configured PNG`,
	Version: version.Full(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("watermark-image") {
			cfg.WatermarkPath = watermarkImage
		}
		if cmd.Flags().Changed("quality") {
			cfg.JPEGQuality = jpegQuality
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger.InitWriter(cmd.ErrOrStderr(), cfg.LogLevel)

		printer = output.New(
			output.WithJSON(jsonOutput),
			output.WithQuiet(quietMode),
			output.WithNoColor(noColor),
			output.WithOutput(cmd.OutOrStdout()),
			output.WithErrOutput(cmd.ErrOrStderr()),
		)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON (for scripting)")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/qimage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&watermarkImage, "watermark-image", "", "PNG stamped by watermark operations")
	rootCmd.PersistentFlags().IntVar(&jpegQuality, "quality", processor.DefaultJPEGQuality, "JPEG encode quality (0-100)")

	rootCmd.SetVersionTemplate("qimage version {{.Version}}\n")

	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(cropCmd)
	rootCmd.AddCommand(watermarkCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)
}

// newProcessor returns a fresh component; use one per file so diagnostics
// stay attributable.
func newProcessor() processor.Processor {
	return metrics.NewInstrumentedProcessor(image.NewProcessor(cfg.Processor()))
}

type result struct {
	Source string                `json:"source"`
	Output *processor.Descriptor `json:"output,omitempty"`
	Name   string                `json:"name,omitempty"`
	Errors []string              `json:"errors,omitempty"`
}

// report prints the outcome of a single-file operation and maps failure to
// ErrReported.
func report(source string, p processor.Processor, desc *processor.Descriptor, err error) error {
	if printer.IsJSON() {
		if jerr := printer.JSON(result{Source: source, Output: desc, Errors: p.Errors()}); jerr != nil {
			return jerr
		}
	}
	if err != nil {
		printer.Diagnostics(source, p.Errors())
		return ErrReported
	}
	printer.ImageWritten(source, desc)
	return nil
}
