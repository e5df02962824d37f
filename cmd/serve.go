package cmd

import (
	"os/signal"
	"syscall"

	"github.com/appconf/appconf/internal/web"
	"github.com/spf13/cobra"
)

var (
	servePort      int
	serveHost      string
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser editor",
	Long: `Start the local web editor and open it in the default browser. The
editor lists the registered apps and edits their config files through the
same version-token guarded save path as the CLI.

Press Ctrl+C to stop the server.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4173, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host interface to bind")
	serveCmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "Do not open the browser automatically")
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newStoreClient(cmd.Context(), sess)
	if err != nil {
		return err
	}

	config := web.Config{
		Port:        servePort,
		Host:        serveHost,
		OpenBrowser: !serveNoBrowser,
	}

	server, err := web.New(config, sess, client)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
