package cli

import (
	"fmt"
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/output"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check file names and content types",
	Long: `Check whether each file has an accepted extension (jpg, jpeg, gif, png)
and whether its content sniffs as one of the supported formats. Exits 1
when any file fails either check.

Examples:
  qimage check photo.jpg logo.png
  qimage check uploads/* --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

type checkResult struct {
	File           string `json:"file"`
	ValidExtension bool   `json:"valid_extension"`
	Format         string `json:"format,omitempty"`
	MIME           string `json:"mime,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (r checkResult) ok() bool {
	return r.ValidExtension && r.Error == ""
}

func checkFile(path string) checkResult {
	res := checkResult{File: path, ValidExtension: processor.ValidExtension(filepath.Base(path))}
	desc, err := processor.Probe(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Format = desc.Format.String()
	res.MIME = desc.MIME
	res.Width = desc.Width
	res.Height = desc.Height
	return res
}

func runCheck(cmd *cobra.Command, args []string) error {
	results := make([]checkResult, 0, len(args))
	failed := 0
	for _, path := range args {
		res := checkFile(path)
		if !res.ok() {
			failed++
		}
		results = append(results, res)
	}

	if printer.IsJSON() {
		if err := printer.JSON(results); err != nil {
			return err
		}
	} else {
		table := output.NewTableWriter(printer.Out(), []string{"FILE", "EXTENSION", "FORMAT", "SIZE", "STATUS"}, printer.IsQuiet())
		for _, res := range results {
			ext := "ok"
			if !res.ValidExtension {
				ext = "rejected"
			}
			format, size, status := "-", "-", "ok"
			if res.Error != "" {
				status = res.Error
			} else {
				format = res.Format
				size = fmt.Sprintf("%dx%d", res.Width, res.Height)
			}
			table.Append([]string{res.File, ext, format, size, status})
		}
		table.Render()
	}

	if failed > 0 {
		return ErrReported
	}
	return nil
}
