// Package githubapi is the remote store adapter: it reads and writes single
// files in a GitHub repository through the Contents API, carrying the blob
// sha as the optimistic-concurrency version token.
package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	acceptHeader     = "application/vnd.github+json"
	apiVersionHeader = "2022-11-28"
)

// Client issues authenticated Contents API operations. The credential string
// it is constructed with is never mutated, only handed to the token source.
type Client struct {
	httpClient *http.Client
	gh         *github.Client
	apiBase    string
}

// NewClient creates an authenticated store client using the provided token.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		httpClient: tc,
		gh:         github.NewClient(tc),
		apiBase:    defaultAPIBase,
	}
}

// WithBaseURL points the client at a different API endpoint. Used by tests
// and GitHub Enterprise setups.
func (c *Client) WithBaseURL(base string) *Client {
	c.apiBase = strings.TrimRight(base, "/")
	return c
}

// RawFileURL builds the direct unauthenticated fetch URL for a file. Pure
// string templating: no I/O, no reachability check.
func RawFileURL(repoID, branch, path string) string {
	return fmt.Sprintf("%s/%s/%s/%s", defaultRawBase, repoID, branch, path)
}

// splitRepoID breaks an "owner/repo" identifier into its two parts.
func splitRepoID(repoID string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("malformed repository id %q, want owner/repo", repoID)
	}

	return owner, repo, nil
}
