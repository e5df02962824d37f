package cmd

import (
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/registry"
	"github.com/spf13/cobra"
)

var appsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty apps-list file at the configured location",
	RunE:  runAppsInit,
}

func init() {
	appsCmd.AddCommand(appsInitCmd)
}

func runAppsInit(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newStoreClient(cmd.Context(), sess)
	if err != nil {
		return err
	}

	if sess.Registry.RepoID == "" {
		return fmt.Errorf("no registry configured, run: appconf registry set <owner/repo> <path>")
	}

	reg := registry.New(client, sess.Registry)
	if err := reg.CreateList(cmd.Context()); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Created empty apps list at %s/%s\n", sess.Registry.RepoID, sess.Registry.Path)

	return nil
}
