package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var branchesCmd = &cobra.Command{
	Use:   "branches <app>",
	Short: "List branches of the repository backing an app",
	Long: `List the branches of the repository an app's config file lives in. The
active branch for the app is marked with an asterisk.`,
	Args: cobra.ExactArgs(1),
	RunE: runBranches,
}

func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
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

	names, err := client.ListBranches(cmd.Context(), doc.App.RepoID)
	if err != nil {
		return err
	}

	for _, name := range names {
		marker := " "
		if name == doc.App.Branch {
			marker = "*"
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", marker, name)
	}

	return nil
}
