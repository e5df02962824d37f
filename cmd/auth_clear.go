package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored GitHub token",
	RunE:  runAuthClear,
}

func init() {
	authCmd.AddCommand(authClearCmd)
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := sess.ClearToken(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Token cleared")

	return nil
}
