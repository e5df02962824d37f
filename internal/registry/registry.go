// Package registry tracks the list of known apps and the currently selected
// document. The list is itself a remote JSON file under the same version-token
// discipline as the configs it points at.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/session"
	"github.com/appconf/appconf/internal/syncer"
)

// ErrNotLoaded is returned by list mutations before the list was loaded or
// created.
var ErrNotLoaded = errors.New("apps list not loaded")

// Registry mediates between the remote apps list and callers. List order is
// insertion order and is meaningful; it is never sorted.
type Registry struct {
	store syncer.RemoteStore
	loc   session.RegistryLocation

	mu       sync.Mutex
	apps     []model.AppItem
	sha      string
	state    syncer.State
	selected *syncer.Document
}

// New creates a registry for the apps list at the given location.
func New(store syncer.RemoteStore, loc session.RegistryLocation) *Registry {
	if loc.Branch == "" {
		loc.Branch = model.DefaultBranch
	}

	return &Registry{store: store, loc: loc, state: syncer.StateUnloaded}
}

// State returns the lifecycle state of the list document.
func (r *Registry) State() syncer.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Apps returns a copy of the list in stored order.
func (r *Registry) Apps() []model.AppItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]model.AppItem(nil), r.apps...)
}

// Load reads the apps list. A missing list file moves to Missing so the
// caller can offer CreateList; the tolerant-read policy applies, so a
// malformed body yields an empty editable list rather than an error.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	r.state = syncer.StateLoading
	r.mu.Unlock()

	content, sha, err := r.store.ReadFile(ctx, r.loc.RepoID, r.loc.Path, r.loc.Branch)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		var notFound *githubapi.NotFoundError
		if errors.As(err, &notFound) {
			r.state = syncer.StateMissing
		} else {
			r.state = syncer.StateLoadFailed
		}

		return err
	}

	r.apps = model.NormalizeApps(content)
	r.sha = sha
	r.state = syncer.StateLoaded

	return nil
}

// CreateList writes an empty apps list unconditionally. Valid from Missing or
// Unloaded; a Conflict means the list appeared concurrently.
func (r *Registry) CreateList(ctx context.Context) error {
	content, err := model.EncodeApps(nil)
	if err != nil {
		return err
	}

	sha, err := r.store.WriteFile(ctx, r.loc.RepoID, r.loc.Path, r.loc.Branch, "initialize apps list", content, "")
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.apps = []model.AppItem{}
	r.sha = sha
	r.state = syncer.StateLoaded

	return nil
}

// Add appends an app entry and saves the whole list. The mutation is rolled
// back if the save fails, so the in-memory list always mirrors the last
// acknowledged remote state.
func (r *Registry) Add(ctx context.Context, app model.AppItem) error {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != syncer.StateLoaded {
		return ErrNotLoaded
	}

	if r.indexOf(app.Name) >= 0 {
		return fmt.Errorf("app %q already exists", app.Name)
	}

	r.apps = append(r.apps, app)

	if err := r.saveListLocked(ctx, fmt.Sprintf("add app %s", app.Name)); err != nil {
		r.apps = r.apps[:len(r.apps)-1]
		return err
	}

	return nil
}

// Remove deletes an app entry by name and saves the whole list.
func (r *Registry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != syncer.StateLoaded {
		return ErrNotLoaded
	}

	i := r.indexOf(name)
	if i < 0 {
		return fmt.Errorf("app %q not found", name)
	}

	removed := r.apps[i]
	r.apps = append(r.apps[:i], r.apps[i+1:]...)

	if err := r.saveListLocked(ctx, fmt.Sprintf("remove app %s", name)); err != nil {
		r.apps = append(r.apps[:i], append([]model.AppItem{removed}, r.apps[i:]...)...)
		return err
	}

	if r.selected != nil && r.selected.App.Name == name {
		r.selected = nil
	}

	return nil
}

// Rename changes an entry's display name in place and saves the whole list.
// Only the name changes; the remote file the entry points at is untouched.
func (r *Registry) Rename(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != syncer.StateLoaded {
		return ErrNotLoaded
	}

	i := r.indexOf(oldName)
	if i < 0 {
		return fmt.Errorf("app %q not found", oldName)
	}

	if r.indexOf(newName) >= 0 {
		return fmt.Errorf("app %q already exists", newName)
	}

	r.apps[i].Name = newName

	if err := r.saveListLocked(ctx, fmt.Sprintf("rename app %s to %s", oldName, newName)); err != nil {
		r.apps[i].Name = oldName
		return err
	}

	if r.selected != nil && r.selected.App.Name == oldName {
		r.selected.App.Name = newName
	}

	return nil
}

// Select makes one app current and returns a fresh unloaded document for it.
// Any in-flight operation on the previously selected document resolves
// against its own (now unreferenced) document and cannot leak into this one.
func (r *Registry) Select(name string) (*syncer.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("app %q not found", name)
	}

	r.selected = syncer.NewDocument(r.apps[i])

	return r.selected, nil
}

// Selected returns the currently selected document, nil when none.
func (r *Registry) Selected() *syncer.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.selected
}

// indexOf must be called with r.mu held.
func (r *Registry) indexOf(name string) int {
	for i, app := range r.apps {
		if app.Name == name {
			return i
		}
	}

	return -1
}

// saveListLocked writes the whole list guarded by the current token. Must be
// called with r.mu held.
func (r *Registry) saveListLocked(ctx context.Context, message string) error {
	content, err := model.EncodeApps(r.apps)
	if err != nil {
		return err
	}

	sha, err := r.store.WriteFile(ctx, r.loc.RepoID, r.loc.Path, r.loc.Branch, message, content, r.sha)
	if err != nil {
		return err
	}

	r.sha = sha

	return nil
}
