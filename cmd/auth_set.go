package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store a GitHub token",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSet,
}

func init() {
	authCmd.AddCommand(authSetCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := sess.ReplaceToken(args[0]); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Token stored")

	return nil
}
