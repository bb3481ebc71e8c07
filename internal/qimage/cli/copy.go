package cli

import (
	"path/filepath"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy <file>",
	Short: "Stage a file into a directory under a generated name",
	Long: `Move a file into the destination directory under a unique generated
name, the way an upload is staged. The source file no longer exists
afterwards.

Examples:
  qimage copy /tmp/upload-123 --name holiday.jpg --dest uploads
  qimage copy photo.png --dest uploads`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

var (
	copyDest string
	copyName string
)

func init() {
	copyCmd.Flags().StringVarP(&copyDest, "dest", "d", "", "Destination directory")
	copyCmd.Flags().StringVar(&copyName, "name", "", "Original file name (default: base name of the file)")
	_ = copyCmd.MarkFlagRequired("dest")
}

func runCopy(cmd *cobra.Command, args []string) error {
	name := copyName
	if name == "" {
		name = filepath.Base(args[0])
	}

	p := newProcessor()
	staged, err := p.Copy(cmd.Context(), &processor.Upload{OriginalName: name, TempPath: args[0]}, copyDest)

	if printer.IsJSON() {
		if jerr := printer.JSON(result{Source: args[0], Name: staged, Errors: p.Errors()}); jerr != nil {
			return jerr
		}
	}
	if err != nil {
		printer.Diagnostics(args[0], p.Errors())
		return ErrReported
	}
	printer.Success("%s staged as %s", args[0], filepath.Join(copyDest, staged))
	return nil
}
