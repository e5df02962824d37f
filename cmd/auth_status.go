package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the effective token comes from",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := resolveToken(sess)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Token source: %s (%s)\n", result.Source, result.Name)

	return nil
}
