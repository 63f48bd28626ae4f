package cmd

import (
	"fmt"
	"time"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download all learning data to a dated JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.New(resolveServerURL(cmd))
		dir, _ := cmd.Flags().GetString("out-dir")

		path, err := export.Download(cmd.Context(), client, dir, time.Now())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out-dir", ".", "Directory to write the export file into")
}
