package cmd

import (
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/session"
	"github.com/spf13/cobra"
)

var registryBranch string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Configure where the apps list lives",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var registrySetCmd = &cobra.Command{
	Use:   "set <owner/repo> <path>",
	Short: "Point appconf at the remote apps-list file",
	Long: `Point appconf at the JSON file that holds the list of known apps.

Examples:
  appconf registry set myorg/configs apps.json
  appconf registry set myorg/configs meta/apps.json --branch release`,
	Args: cobra.ExactArgs(2),
	RunE: runRegistrySet,
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured apps-list location",
	RunE:  runRegistryShow,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registrySetCmd)
	registryCmd.AddCommand(registryShowCmd)
	registrySetCmd.Flags().StringVar(&registryBranch, "branch", "main", "Branch the apps list lives on")
}

func runRegistrySet(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	loc := session.RegistryLocation{RepoID: args[0], Path: args[1], Branch: registryBranch}
	if err := sess.SetRegistry(loc); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Registry set to %s/%s@%s\n", loc.RepoID, loc.Path, loc.Branch)

	return nil
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if sess.Registry.RepoID == "" {
		_, _ = fmt.Fprintln(os.Stdout, "No registry configured")
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s/%s@%s\n", sess.Registry.RepoID, sess.Registry.Path, sess.Registry.Branch)

	return nil
}
