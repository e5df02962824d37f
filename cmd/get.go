package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/syncer"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <app>",
	Short: "Load an app config and print it",
	RunE:  runGet,
	Args:  cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
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

	if err := syncer.New(client).Load(cmd.Context(), doc); err != nil {
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("config for %q does not exist yet, run: appconf create %s", args[0], args[0])
		}

		return err
	}

	content, err := model.EncodeConfig(doc.Config())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, string(content))
	_, _ = fmt.Fprintf(os.Stderr, "version token: %s\n", doc.VersionToken())

	return nil
}
