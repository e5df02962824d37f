package cmd

import (
	"os"

	"github.com/appconf/appconf/internal/application"
	"github.com/spf13/cobra"
)

var tokenFlag string

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Edit JSON app configs stored in a GitHub repository",
	Long: `Appconf manages small JSON app-config documents stored as files in a
GitHub repository. Configs are read and written through the Contents API with
optimistic-concurrency guards, so concurrent edits are surfaced as conflicts
instead of silently overwritten.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "GitHub token (overrides stored credential)")
}
