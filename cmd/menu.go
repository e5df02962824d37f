package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/appconf/appconf/internal/cli"
	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/syncer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick an app interactively and show its config",
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
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

	picker, err := cli.NewAppList(reg.Apps())
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(picker, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("failed to run app picker: %w", err)
	}

	result, ok := final.(cli.AppListModel)
	if !ok {
		return fmt.Errorf("unexpected picker model")
	}

	selected := result.GetSelectedApp()
	if selected == nil {
		return nil
	}

	doc, err := reg.Select(selected.App.Name)
	if err != nil {
		return err
	}

	if err := syncer.New(client).Load(cmd.Context(), doc); err != nil {
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("config for %q does not exist yet, run: appconf create %s", selected.App.Name, selected.App.Name)
		}

		return err
	}

	content, err := model.EncodeConfig(doc.Config())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, string(content))

	return nil
}
