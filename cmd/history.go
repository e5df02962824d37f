package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <app>",
	Short: "Show recent commits touching an app's config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of commits to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	commits, err := client.ListHistory(cmd.Context(), doc.App.RepoID, doc.App.Path, doc.App.Branch, historyLimit)
	if err != nil {
		return err
	}

	if len(commits) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No commits found")

		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SHA\tDATE\tAUTHOR\tMESSAGE")

	for _, c := range commits {
		sha := c.SHA
		if len(sha) > 8 {
			sha = sha[:8]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sha, c.Date.Format("2006-01-02 15:04"), c.Author, firstLine(c.Message))
	}

	return w.Flush()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}
