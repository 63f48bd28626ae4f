package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:3000/api"

var rootCmd = &cobra.Command{
	Use:   "langmate",
	Short: "Terminal companion for tracking programming-language study",
	Long:  "LangMate is a terminal client for the learning-companion server: browse modules, read content, run practice quizzes, and track achievements.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A project-local .env may hold LANGMATE_SERVER; absence is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("server", "", "Base URL of the learning-companion server (overrides LANGMATE_SERVER)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveServerURL returns the server base URL using --server (highest
// priority), then the LANGMATE_SERVER env var, then the default.
func resolveServerURL(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	if s := os.Getenv("LANGMATE_SERVER"); s != "" {
		return s
	}
	return defaultServerURL
}
