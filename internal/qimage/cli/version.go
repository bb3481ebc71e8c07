package cli

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/qimage/internal/qimage/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "qimage version %s\n", version.Full())
		return err
	},
}
