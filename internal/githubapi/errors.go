package githubapi

import "fmt"

// NotFoundError indicates the backend has no file at the requested location.
// Callers treat it as recoverable: it is what triggers the create flow.
type NotFoundError struct {
	RepoID string
	Path   string
	Branch string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s/%s@%s", e.RepoID, e.Path, e.Branch)
}

// AuthError indicates the credential was rejected. The current operation is
// dead; the caller must supply a new credential.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("credential rejected (HTTP %d)", e.Status)
}

// ConflictError indicates the remote file changed since the version token was
// captured, or that an unconditional create hit an existing file.
type ConflictError struct {
	RepoID string
	Path   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("remote content changed: %s/%s", e.RepoID, e.Path)
}

// RemoteError carries any other non-success backend response, with the status
// and body surfaced verbatim.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store error (HTTP %d): %s", e.Status, e.Body)
}
