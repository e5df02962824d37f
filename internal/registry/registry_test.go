package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/session"
	"github.com/appconf/appconf/internal/syncer"
)

// listStore is an in-memory remote holding just the apps-list file.
type listStore struct {
	content string
	sha     string
	exists  bool
	seq     int

	WriteErr   error
	WriteCalls int
	Messages   []string
}

func (s *listStore) ReadFile(context.Context, string, string, string) ([]byte, string, error) {
	if !s.exists {
		return nil, "", &githubapi.NotFoundError{RepoID: "o/r", Path: "apps.json", Branch: "main"}
	}

	return []byte(s.content), s.sha, nil
}

func (s *listStore) WriteFile(_ context.Context, _, _, _, message string, content []byte, sha string) (string, error) {
	s.WriteCalls++
	s.Messages = append(s.Messages, message)

	if s.WriteErr != nil {
		return "", s.WriteErr
	}

	if sha != s.sha && !(sha == "" && !s.exists) {
		return "", &githubapi.ConflictError{RepoID: "o/r", Path: "apps.json"}
	}

	s.seq++
	s.content = string(content)
	s.sha = fmt.Sprintf("list-sha-%d", s.seq)
	s.exists = true

	return s.sha, nil
}

func loadedRegistry(t *testing.T, initial string) (*Registry, *listStore) {
	t.Helper()

	store := &listStore{content: initial, sha: "list-sha-0", exists: true}
	r := New(store, session.RegistryLocation{RepoID: "o/r", Path: "apps.json"})

	require.NoError(t, r.Load(context.Background()))

	return r, store
}

func TestLoadMissingThenCreate(t *testing.T) {
	store := &listStore{}
	r := New(store, session.RegistryLocation{RepoID: "o/r", Path: "apps.json"})

	err := r.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, syncer.StateMissing, r.State())

	require.NoError(t, r.CreateList(context.Background()))
	assert.Equal(t, syncer.StateLoaded, r.State())
	assert.Empty(t, r.Apps())
	assert.Equal(t, "[]", store.content)
}

func TestLoadTolerant(t *testing.T) {
	r, _ := loadedRegistry(t, `{"not":"a list"}`)

	assert.Equal(t, syncer.StateLoaded, r.State())
	assert.Empty(t, r.Apps())
}

func TestAddSavesWholeList(t *testing.T) {
	r, store := loadedRegistry(t, `[]`)

	err := r.Add(context.Background(), model.AppItem{Name: "QQ", RepoID: "o/r", Path: "configs/qq.json"})
	require.NoError(t, err)

	apps := r.Apps()
	require.Len(t, apps, 1)
	assert.Equal(t, "main", apps[0].Branch, "branch defaults on add")

	assert.Equal(t, 1, store.WriteCalls, "mutation saves immediately")
	assert.Contains(t, store.content, `"name": "QQ"`)
	assert.Equal(t, []string{"add app QQ"}, store.Messages)
}

func TestAddDuplicateName(t *testing.T) {
	r, store := loadedRegistry(t, `[{"name":"QQ","repoId":"o/r","path":"a.json"}]`)

	err := r.Add(context.Background(), model.AppItem{Name: "QQ", RepoID: "o/r", Path: "b.json"})
	require.Error(t, err)
	assert.Zero(t, store.WriteCalls)
}

func TestAddRollsBackOnSaveFailure(t *testing.T) {
	r, store := loadedRegistry(t, `[]`)
	store.WriteErr = &githubapi.RemoteError{Status: 500, Body: "boom"}

	err := r.Add(context.Background(), model.AppItem{Name: "QQ", RepoID: "o/r", Path: "a.json"})
	require.Error(t, err)
	assert.Empty(t, r.Apps(), "failed save must roll the mutation back")
}

func TestRemovePreservesOrder(t *testing.T) {
	r, store := loadedRegistry(t, `[{"name":"a","repoId":"o/r","path":"a.json"},{"name":"b","repoId":"o/r","path":"b.json"},{"name":"c","repoId":"o/r","path":"c.json"}]`)

	require.NoError(t, r.Remove(context.Background(), "b"))

	apps := r.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "a", apps[0].Name)
	assert.Equal(t, "c", apps[1].Name)
	assert.Equal(t, 1, store.WriteCalls)
}

func TestRemoveRollsBackOnSaveFailure(t *testing.T) {
	r, store := loadedRegistry(t, `[{"name":"a","repoId":"o/r","path":"a.json"},{"name":"b","repoId":"o/r","path":"b.json"}]`)
	store.WriteErr = &githubapi.ConflictError{RepoID: "o/r", Path: "apps.json"}

	err := r.Remove(context.Background(), "a")
	require.Error(t, err)

	apps := r.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "a", apps[0].Name)
	assert.Equal(t, "b", apps[1].Name)
}

func TestRename(t *testing.T) {
	r, store := loadedRegistry(t, `[{"name":"old","repoId":"o/r","path":"a.json"}]`)

	doc, err := r.Select("old")
	require.NoError(t, err)

	require.NoError(t, r.Rename(context.Background(), "old", "new"))

	assert.Equal(t, "new", r.Apps()[0].Name)
	assert.Equal(t, "new", doc.App.Name, "selection follows the rename")
	assert.Contains(t, store.Messages[0], "rename app old to new")

	err = r.Rename(context.Background(), "missing", "x")
	require.Error(t, err)
}

func TestListConflictSurfaced(t *testing.T) {
	r, store := loadedRegistry(t, `[]`)

	// Someone else rotated the list sha.
	store.sha = "list-sha-99"

	err := r.Add(context.Background(), model.AppItem{Name: "QQ", RepoID: "o/r", Path: "a.json"})

	var conflict *githubapi.ConflictError
	require.True(t, errors.As(err, &conflict), "err = %v", err)
	assert.Empty(t, r.Apps())
}

func TestSelect(t *testing.T) {
	r, _ := loadedRegistry(t, `[{"name":"QQ","repoId":"o/r","path":"a.json"}]`)

	doc, err := r.Select("QQ")
	require.NoError(t, err)
	assert.Equal(t, syncer.StateUnloaded, doc.State())
	assert.Same(t, doc, r.Selected())

	first := doc
	second, err := r.Select("QQ")
	require.NoError(t, err)
	assert.NotSame(t, first, second, "reselect yields a fresh document")

	_, err = r.Select("missing")
	require.Error(t, err)
}

func TestMutationsRequireLoadedList(t *testing.T) {
	store := &listStore{}
	r := New(store, session.RegistryLocation{RepoID: "o/r", Path: "apps.json"})

	err := r.Add(context.Background(), model.AppItem{Name: "QQ", RepoID: "o/r", Path: "a.json"})
	assert.ErrorIs(t, err, ErrNotLoaded)
}
