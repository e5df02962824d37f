package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appsRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename an app entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runAppsRename,
}

func init() {
	appsCmd.AddCommand(appsRenameCmd)
}

func runAppsRename(cmd *cobra.Command, args []string) error {
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

	if err := reg.Rename(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Renamed app: %s -> %s\n", args[0], args[1])

	return nil
}
