package cmd

import (
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/model"
	"github.com/spf13/cobra"
)

var (
	appAddRepo   string
	appAddPath   string
	appAddBranch string
)

var appsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an app entry",
	Long: `Add an app entry to the list. The entry only points at a config file;
use 'appconf create' if the file itself does not exist yet.

Examples:
  appconf apps add qq --repo myorg/configs --path configs/qq.json
  appconf apps add beta --repo myorg/configs --path configs/beta.json --branch develop`,
	Args: cobra.ExactArgs(1),
	RunE: runAppsAdd,
}

func init() {
	appsCmd.AddCommand(appsAddCmd)
	appsAddCmd.Flags().StringVar(&appAddRepo, "repo", "", "Repository the config lives in (owner/repo, required)")
	appsAddCmd.Flags().StringVar(&appAddPath, "path", "", "Path of the config file (required)")
	appsAddCmd.Flags().StringVar(&appAddBranch, "branch", "", "Branch (defaults to main)")

	_ = appsAddCmd.MarkFlagRequired("repo")
	_ = appsAddCmd.MarkFlagRequired("path")
}

func runAppsAdd(cmd *cobra.Command, args []string) error {
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

	app := model.AppItem{
		Name:   args[0],
		RepoID: appAddRepo,
		Path:   appAddPath,
		Branch: appAddBranch,
	}

	if err := reg.Add(cmd.Context(), app); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Added app: %s (%s/%s)\n", app.Name, app.RepoID, app.Path)

	return nil
}
