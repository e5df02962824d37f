package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an app entry",
	Long: `Remove an app entry from the list. The remote config file itself is
left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runAppsRemove,
}

func init() {
	appsCmd.AddCommand(appsRemoveCmd)
}

func runAppsRemove(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newStoreClient(cmd.Context(), sess)
	if err != nil {
		return err
	}

	reg, err := loadedRegistry(cmd.Context(), client, sess)
	if err != nil {
		return err
	}

	if err := reg.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Removed app: %s\n", args[0])

	return nil
}
