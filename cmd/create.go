package cmd

import (
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/syncer"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <app>",
	Short: "Create an app's config file with default content",
	Long: `Create the remote config file for an app with default content.

The write is unconditional: it only succeeds while the file does not exist.
If the file appeared in the meantime the backend reports a conflict and
nothing is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	doc, err := reg.Select(args[0])
	if err != nil {
		return err
	}

	message := fmt.Sprintf("create config for %s", args[0])
	if err := syncer.New(client).Create(cmd.Context(), doc, message); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Created %s/%s@%s\n", doc.App.RepoID, doc.App.Path, doc.App.Branch)

	return nil
}
