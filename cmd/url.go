package cmd

import (
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url <app>",
	Short: "Print the raw download URL for an app's config file",
	Long: `Print the raw content URL for an app's config file. This is the address
the app itself fetches at runtime; it serves the file body directly with no
API envelope.`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
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

	_, _ = fmt.Fprintln(os.Stdout, githubapi.RawFileURL(doc.App.RepoID, doc.App.Branch, doc.App.Path))

	return nil
}
