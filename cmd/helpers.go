package cmd

import (
	"context"
	"fmt"

	"github.com/appconf/appconf/internal/auth"
	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/registry"
	"github.com/appconf/appconf/internal/session"
)

// openSession opens the persisted session store and builds the session
// context from it. The caller must Close the returned store.
func openSession() (*session.Store, *session.Context, error) {
	store, err := session.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sess, err := session.NewContext(store)
	if err != nil {
		_ = store.Close()

		return nil, nil, err
	}

	return store, sess, nil
}

// resolveToken finds the credential: flag, environment, session store, then
// the gh CLI.
func resolveToken(sess *session.Context) (*auth.Result, error) {
	return auth.NewResolver().
		WithFlag(&tokenFlag).
		WithEnvs("APPCONF_TOKEN", "GITHUB_TOKEN", "GH_TOKEN").
		WithProvider(auth.SessionProvider(sess)).
		WithProvider(auth.GHCLIProvider()).
		WithHelpMessage("store one with: appconf auth set <token>").
		Resolve()
}

// newStoreClient builds an authenticated store client for the session.
func newStoreClient(ctx context.Context, sess *session.Context) (*githubapi.Client, error) {
	result, err := resolveToken(sess)
	if err != nil {
		return nil, err
	}

	return githubapi.NewClient(ctx, result.Token), nil
}

// loadedRegistry opens the apps list. The registry location must have been
// configured; a missing list file is reported with a pointer to "apps init".
func loadedRegistry(ctx context.Context, client *githubapi.Client, sess *session.Context) (*registry.Registry, error) {
	if sess.Registry.RepoID == "" {
		return nil, fmt.Errorf("no registry configured, run: appconf registry set <owner/repo> <path>")
	}

	reg := registry.New(client, sess.Registry)
	if err := reg.Load(ctx); err != nil {
		return nil, err
	}

	return reg, nil
}
