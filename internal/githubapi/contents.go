package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/appconf/appconf/internal/codec"
)

// contentResponse is the subset of the Contents API read response we use.
type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// writeRequest is the Contents API PUT body. An empty SHA is omitted, which
// selects unconditional create semantics on the backend.
type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// writeResponse carries the new blob sha after a successful write.
type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// ReadFile fetches one file and returns its decoded content together with the
// blob sha acting as the version token for later conditional writes.
func (c *Client) ReadFile(ctx context.Context, repoID, path, branch string) ([]byte, string, error) {
	endpoint := c.contentsURL(repoID, path) + "?ref=" + url.QueryEscape(branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	setAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("read %s/%s: %w", repoID, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", c.statusError(resp.StatusCode, body, repoID, path, branch)
	}

	var cr contentResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, "", fmt.Errorf("read %s/%s: unexpected response shape: %w", repoID, path, err)
	}

	text, err := codec.Decode(cr.Content)
	if err != nil {
		return nil, "", err
	}

	return []byte(text), cr.SHA, nil
}

// WriteFile replaces the file content in a single commit-like mutation. With
// a non-empty sha the backend rejects the write as a Conflict when the remote
// content moved; with an empty sha the write is an unconditional create.
// Returns the new version token.
func (c *Client) WriteFile(ctx context.Context, repoID, path, branch, message string, content []byte, sha string) (string, error) {
	payload, err := json.Marshal(writeRequest{
		Message: message,
		Content: codec.Encode(string(content)),
		Branch:  branch,
		SHA:     sha,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(repoID, path), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	setAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("write %s/%s: %w", repoID, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// 200 for updates, 201 for creates.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.statusError(resp.StatusCode, body, repoID, path, branch)
	}

	var wr writeResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("write %s/%s: unexpected response shape: %w", repoID, path, err)
	}

	return wr.Content.SHA, nil
}

func (c *Client) contentsURL(repoID, path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.apiBase, repoID, path)
}

func setAPIHeaders(req *http.Request) {
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersionHeader)
}

// statusError maps a non-success response onto the error taxonomy. 409 is the
// documented sha-mismatch answer; 422 is what the API actually returns when a
// create races an existing file.
func (c *Client) statusError(status int, body []byte, repoID, path, branch string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Status: status}
	case http.StatusNotFound:
		return &NotFoundError{RepoID: repoID, Path: path, Branch: branch}
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return &ConflictError{RepoID: repoID, Path: path}
	default:
		return &RemoteError{Status: status, Body: string(body)}
	}
}
