package cmd

import (
	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/app"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the API client and launches the TUI.
func runApp(cmd *cobra.Command) error {
	client := api.New(resolveServerURL(cmd))
	return app.Run(app.Options{Client: client})
}
