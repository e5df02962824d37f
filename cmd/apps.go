package cmd

import (
	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage the list of known apps",
	Long: `Commands for the remote apps list.

The list is itself a JSON file in the configured registry repository; every
mutation saves the whole list back under the same version-token discipline as
the configs it points at.

Available Commands:
  init      Create the apps-list file
  list      Show all apps
  add       Add an app entry
  remove    Remove an app entry
  rename    Rename an app entry`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
}
