package cmd

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored GitHub credential",
	Long: `Commands for the GitHub credential appconf uses against the Contents API.

The token is stored whole under a single key in the local session store and
is never sent anywhere except the GitHub API.

Available Commands:
  set       Store a token
  clear     Remove the stored token
  status    Show where the effective token comes from`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
