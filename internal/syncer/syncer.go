// Package syncer implements the optimistic-concurrency protocol for one
// remote config document: load with tolerant normalization, local edits,
// validated saves guarded by the version token, and explicit conflict
// surfacing. Nothing in here retries or merges.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
)

// RemoteStore is the slice of the store client the protocol needs.
type RemoteStore interface {
	ReadFile(ctx context.Context, repoID, path, branch string) (content []byte, sha string, err error)
	WriteFile(ctx context.Context, repoID, path, branch, message string, content []byte, sha string) (newSHA string, err error)
}

// State tracks where a document is in its load/save lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateMissing
	StateLoadFailed
	StateSaving
	StateSaveFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateMissing:
		return "missing"
	case StateLoadFailed:
		return "load-failed"
	case StateSaving:
		return "saving"
	case StateSaveFailed:
		return "save-failed"
	}
	return "unknown"
}

// ErrStale is returned when an operation resolves after a newer operation has
// started on the same document; its result is discarded.
var ErrStale = errors.New("response superseded by a newer operation")

// ErrNoVersionToken is returned when a save is attempted without a held
// version token. Writes to known-existing documents always carry one; the
// unconditional path exists only on Create.
var ErrNoVersionToken = errors.New("no version token held, load the document first")

// Document is the in-memory side of one remote config file: the app entry it
// belongs to, the edit buffer, and the version token from the last
// acknowledged read or write.
type Document struct {
	App model.AppItem

	mu      sync.Mutex
	state   State
	config  *model.ConfigDocument
	sha     string
	gen     uint64
	lastErr error
}

// NewDocument creates an unloaded document for one app entry.
func NewDocument(app model.AppItem) *Document {
	return &Document{App: app}
}

// State returns the current lifecycle state.
func (d *Document) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Config returns the edit buffer, nil before a successful load or create.
// Mutations must go through Edit.
func (d *Document) Config() *model.ConfigDocument {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.config == nil {
		return nil
	}

	clone := *d.config
	clone.Licenses = append([]model.License(nil), d.config.Licenses...)

	return &clone
}

// VersionToken returns the sha captured at the last acknowledged read or
// write, "" when none is held.
func (d *Document) VersionToken() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.sha
}

// Err returns the error that produced the current failure state, nil
// otherwise.
func (d *Document) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.lastErr
}

// Edit applies a local mutation to the edit buffer. Purely local: no network,
// no state transition. Fails when nothing is loaded.
func (d *Document) Edit(mutate func(*model.ConfigDocument)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.config == nil {
		return fmt.Errorf("document %s is not loaded", d.App.Name)
	}

	mutate(d.config)

	return nil
}

// begin starts a new operation: it bumps the generation so any in-flight
// response becomes stale, and moves to the transient state.
func (d *Document) begin(transient State) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.state = transient

	return d.gen
}

// current reports whether gen still names the latest operation.
func (d *Document) current(gen uint64) bool {
	return d.gen == gen
}

// Syncer drives the protocol against a remote store.
type Syncer struct {
	store RemoteStore
}

// New creates a Syncer over the given store.
func New(store RemoteStore) *Syncer {
	return &Syncer{store: store}
}

// Load reads the remote file and normalizes it into the edit buffer. A
// missing file moves the document to Missing so the caller can offer create;
// any other failure moves it to LoadFailed with the error kept verbatim.
func (s *Syncer) Load(ctx context.Context, d *Document) error {
	gen := d.begin(StateLoading)

	content, sha, err := s.store.ReadFile(ctx, d.App.RepoID, d.App.Path, d.App.Branch)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.current(gen) {
		return ErrStale
	}

	if err != nil {
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			d.state = StateMissing
		} else {
			d.state = StateLoadFailed
		}
		d.lastErr = err

		return err
	}

	d.config = model.NormalizeConfig(content)
	d.sha = sha
	d.state = StateLoaded
	d.lastErr = nil

	return nil
}

// Create writes the default document unconditionally. Meant for Missing or
// Unloaded documents; a Conflict means the file appeared concurrently and is
// surfaced, never retried.
func (s *Syncer) Create(ctx context.Context, d *Document, message string) error {
	gen := d.begin(StateSaving)

	doc := model.DefaultConfig()

	content, err := model.EncodeConfig(doc)
	if err != nil {
		return err
	}

	sha, err := s.store.WriteFile(ctx, d.App.RepoID, d.App.Path, d.App.Branch, message, content, "")

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.current(gen) {
		return ErrStale
	}

	if err != nil {
		d.state = StateSaveFailed
		d.lastErr = err

		return err
	}

	d.config = doc
	d.sha = sha
	d.state = StateLoaded
	d.lastErr = nil

	return nil
}

// Save validates the edit buffer and, if valid, writes it guarded by the held
// version token. Validation failures never touch the network. A Conflict
// leaves the edit buffer and token untouched: the caller must reload and
// reapply explicitly.
func (s *Syncer) Save(ctx context.Context, d *Document, message string) error {
	d.mu.Lock()

	if d.config == nil {
		d.mu.Unlock()
		return fmt.Errorf("document %s is not loaded", d.App.Name)
	}

	if d.sha == "" {
		d.mu.Unlock()
		return ErrNoVersionToken
	}

	if err := d.config.Validate(); err != nil {
		d.mu.Unlock()
		return err
	}

	content, err := model.EncodeConfig(d.config)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	expected := d.sha
	d.mu.Unlock()

	gen := d.begin(StateSaving)

	sha, err := s.store.WriteFile(ctx, d.App.RepoID, d.App.Path, d.App.Branch, message, content, expected)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.current(gen) {
		return ErrStale
	}

	if err != nil {
		d.state = StateSaveFailed
		d.lastErr = err

		return err
	}

	d.sha = sha
	d.state = StateLoaded
	d.lastErr = nil

	return nil
}
