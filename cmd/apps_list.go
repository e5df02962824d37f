package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/spf13/cobra"
)

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all apps",
	RunE:  runAppsList,
}

func init() {
	appsCmd.AddCommand(appsListCmd)
}

func runAppsList(cmd *cobra.Command, args []string) error {
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
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("apps list does not exist yet, run: appconf apps init")
		}

		return err
	}

	apps := reg.Apps()
	if len(apps) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No apps registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tREPOSITORY\tPATH\tBRANCH")
	for _, app := range apps {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.Name, app.RepoID, app.Path, app.Branch)
	}

	return w.Flush()
}
