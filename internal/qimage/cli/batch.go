package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/qimage/internal/metrics"
	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/output"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
)

const batchOperation = "resize"

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Resize every image in a directory",
	Long: `Resize every jpg, jpeg, gif and png file in a directory into an output
directory, optionally watermarking each result. Each file is processed
independently; one failure does not stop the run. With --recursive the
subdirectory layout is recreated under the output directory.

Examples:
  qimage batch ./photos --width 1024 -o ./web
  qimage batch ./photos --preset thumbnail -o ./thumbs --recursive
  qimage batch ./products --preset og -o ./social --watermark
  qimage batch ./photos --preset md -o ./web --metrics-file batch.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchWidth       int
	batchHeight      int
	batchPreset      string
	batchExact       bool
	batchOutput      string
	batchWatermark   bool
	batchRecursive   bool
	batchMetricsFile string
)

func init() {
	batchCmd.Flags().IntVar(&batchWidth, "width", 0, "Target width in pixels")
	batchCmd.Flags().IntVar(&batchHeight, "height", 0, "Target height in pixels")
	batchCmd.Flags().StringVarP(&batchPreset, "preset", "p", "", "Named size to apply")
	batchCmd.Flags().BoolVar(&batchExact, "exact", false, "Use the requested size even when larger than the original")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output directory (default from config)")
	batchCmd.Flags().BoolVar(&batchWatermark, "watermark", false, "Watermark each resized image")
	batchCmd.Flags().BoolVarP(&batchRecursive, "recursive", "r", false, "Descend into subdirectories")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file when done")
}

// collectImages lists files under dir whose names pass the extension check.
func collectImages(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && processor.ValidExtension(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := collectImages(args[0], batchRecursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", args[0])
	}

	ctx, span := tracing.StartBatchSpan(cmd.Context(), batchOperation, len(files))
	defer span.End()

	printer.Printf("Processing %d files...\n", len(files))
	progress := output.NewProgress(len(files), "Resizing",
		output.ProgressWithQuiet(printer.IsQuiet() || printer.IsJSON()),
		output.ProgressWithOutput(printer.ErrOut()),
	)

	collector := metrics.NewBatchCollector()
	results := make([]result, 0, len(files))
	failed := 0
	for _, file := range files {
		progress.Describe(filepath.Base(file))
		res, err := processBatchItem(ctx, cmd, collector, args[0], file)
		if err != nil {
			failed++
		}
		results = append(results, res)
		progress.Increment()
	}
	progress.Finish()

	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d items failed", failed, len(files)))
	}

	if printer.IsJSON() {
		if err := printer.JSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printer.Diagnostics(res.Source, res.Errors)
		}
		printer.Summary(len(files)-failed, failed)
		printer.Info("Finished in %s", progress.Duration().Round(time.Millisecond))
	}

	if batchMetricsFile != "" {
		if err := prometheus.WriteToTextfile(batchMetricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if failed > 0 {
		return ErrReported
	}
	return nil
}

// batchOutputDir mirrors the file's directory below root under the output
// directory, so files sharing a base name in different subdirectories do
// not overwrite each other.
func batchOutputDir(root, file string) (string, error) {
	out := batchOutput
	if out == "" {
		out = cfg.OutputDir
	}
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil {
		return "", err
	}
	if rel == "." {
		return out, nil
	}
	out = filepath.Join(out, rel)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", err
	}
	return out, nil
}

func processBatchItem(ctx context.Context, cmd *cobra.Command, collector *metrics.BatchCollector, root, file string) (result, error) {
	ctx, span := tracing.StartBatchItemSpan(ctx, batchOperation, file)
	defer span.End()

	start := time.Now()
	collector.ItemStarted(batchOperation)

	res := result{Source: file}
	outDir, err := batchOutputDir(root, file)
	if err != nil {
		collector.ItemFailed(batchOperation, time.Since(start))
		res.Errors = []string{err.Error()}
		return res, err
	}
	req, err := buildResizeRequest(cmd, file, outDir, batchPreset, batchWidth, batchHeight, batchExact)
	if err != nil {
		collector.ItemFailed(batchOperation, time.Since(start))
		res.Errors = []string{err.Error()}
		return res, err
	}

	p := newProcessor()
	desc, err := p.Resize(ctx, req)
	if err == nil && batchWatermark {
		desc, err = p.Watermark(ctx, desc.Path)
	}
	res.Output = desc
	res.Errors = p.Errors()

	if err != nil {
		tracing.RecordError(ctx, err)
		collector.ItemFailed(batchOperation, time.Since(start))
		return res, err
	}
	collector.ItemCompleted(batchOperation, time.Since(start))
	return res, nil
}
