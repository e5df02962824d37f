package githubapi

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v82/github"
)

// CommitInfo is one provenance entry for a tracked file: who wrote it, when,
// and the message the writer attached.
type CommitInfo struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// ListHistory returns the most recent commits touching one file, newest
// first, up to limit entries.
func (c *Client) ListHistory(ctx context.Context, repoID, path, branch string, limit int) ([]CommitInfo, error) {
	owner, repo, err := splitRepoID(repoID)
	if err != nil {
		return nil, err
	}

	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		Path:        path,
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, c.wrapGitHubError(err, resp, repoID, path, branch)
	}

	infos := make([]CommitInfo, 0, len(commits))
	for _, commit := range commits {
		info := CommitInfo{SHA: commit.GetSHA()}
		if gc := commit.GetCommit(); gc != nil {
			info.Message = gc.GetMessage()
			if author := gc.GetAuthor(); author != nil {
				info.Author = author.GetName()
				info.Date = author.GetDate().Time
			}
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// ListBranches returns the branch names of a repository, used when adding an
// app entry pointing at a non-default branch.
func (c *Client) ListBranches(ctx context.Context, repoID string) ([]string, error) {
	owner, repo, err := splitRepoID(repoID)
	if err != nil {
		return nil, err
	}

	branches, resp, err := c.gh.Repositories.ListBranches(ctx, owner, repo, nil)
	if err != nil {
		return nil, c.wrapGitHubError(err, resp, repoID, "", "")
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.GetName())
	}

	return names, nil
}

// wrapGitHubError folds go-github errors into the same taxonomy the raw
// Contents API calls use.
func (c *Client) wrapGitHubError(err error, resp *github.Response, repoID, path, branch string) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && resp != nil {
		return c.statusError(resp.StatusCode, []byte(ghErr.Message), repoID, path, branch)
	}

	return err
}
