package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/appconf/appconf/internal/githubapi"
	"github.com/appconf/appconf/internal/model"
)

// fakeStore is an in-memory remote with sha-guarded writes, mirroring the
// Contents API contract.
type fakeStore struct {
	files map[string]fakeFile
	seq   int

	// Error injection
	ReadErr  error
	WriteErr error

	// Call tracking
	ReadCalls  int
	WriteCalls int
	LastWrite  fakeWrite
}

type fakeFile struct {
	content string
	sha     string
}

type fakeWrite struct {
	Message string
	Content string
	SHA     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]fakeFile{}}
}

func (f *fakeStore) key(repoID, path, branch string) string {
	return repoID + "/" + path + "@" + branch
}

func (f *fakeStore) put(repoID, path, branch, content string) string {
	f.seq++
	sha := fmt.Sprintf("sha-%d", f.seq)
	f.files[f.key(repoID, path, branch)] = fakeFile{content: content, sha: sha}

	return sha
}

func (f *fakeStore) ReadFile(_ context.Context, repoID, path, branch string) ([]byte, string, error) {
	f.ReadCalls++

	if f.ReadErr != nil {
		return nil, "", f.ReadErr
	}

	file, ok := f.files[f.key(repoID, path, branch)]
	if !ok {
		return nil, "", &githubapi.NotFoundError{RepoID: repoID, Path: path, Branch: branch}
	}

	return []byte(file.content), file.sha, nil
}

func (f *fakeStore) WriteFile(_ context.Context, repoID, path, branch, message string, content []byte, sha string) (string, error) {
	f.WriteCalls++
	f.LastWrite = fakeWrite{Message: message, Content: string(content), SHA: sha}

	if f.WriteErr != nil {
		return "", f.WriteErr
	}

	existing, exists := f.files[f.key(repoID, path, branch)]
	if sha == "" && exists {
		return "", &githubapi.ConflictError{RepoID: repoID, Path: path}
	}
	if sha != "" && (!exists || existing.sha != sha) {
		return "", &githubapi.ConflictError{RepoID: repoID, Path: path}
	}

	return f.put(repoID, path, branch, string(content)), nil
}

func testApp() model.AppItem {
	return model.AppItem{Name: "QQ", RepoID: "o/r", Path: "configs/qq.json", Branch: "main"}
}

func TestLoadNormalizes(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	if doc.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", doc.State())
	}

	cfg := doc.Config()
	if cfg.VIP != model.VIPOn {
		t.Errorf("VIP = %q, want on default", cfg.VIP)
	}
	if cfg.Title != "Hi" {
		t.Errorf("Title = %q, want Hi", cfg.Title)
	}
	if cfg.Licenses == nil || len(cfg.Licenses) != 0 {
		t.Errorf("Licenses = %v, want empty slice", cfg.Licenses)
	}
	if doc.VersionToken() == "" {
		t.Error("no version token after load")
	}
}

func TestLoadMissing(t *testing.T) {
	store := newFakeStore()
	doc := NewDocument(testApp())
	s := New(store)

	err := s.Load(context.Background(), doc)

	var notFound *githubapi.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if doc.State() != StateMissing {
		t.Errorf("state = %s, want missing", doc.State())
	}
}

func TestLoadFailed(t *testing.T) {
	store := newFakeStore()
	store.ReadErr = &githubapi.RemoteError{Status: 500, Body: "boom"}

	doc := NewDocument(testApp())
	s := New(store)

	err := s.Load(context.Background(), doc)
	if err == nil {
		t.Fatal("Load succeeded, want error")
	}
	if doc.State() != StateLoadFailed {
		t.Errorf("state = %s, want load-failed", doc.State())
	}
	// The error is kept verbatim for the caller.
	if !errors.Is(doc.Err(), err) {
		t.Errorf("Err() = %v, want %v", doc.Err(), err)
	}
}

func TestCreateAfterMissing(t *testing.T) {
	store := newFakeStore()
	doc := NewDocument(testApp())
	s := New(store)

	_ = s.Load(context.Background(), doc)
	if doc.State() != StateMissing {
		t.Fatalf("state = %s, want missing", doc.State())
	}

	if err := s.Create(context.Background(), doc, "create config"); err != nil {
		t.Fatal(err)
	}

	if doc.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", doc.State())
	}
	if doc.Config().VIP != model.VIPOn {
		t.Error("created document is not the default document")
	}
	if store.LastWrite.SHA != "" {
		t.Errorf("create carried sha %q, want unconditional", store.LastWrite.SHA)
	}
}

func TestCreateConflictWhenFileAppeared(t *testing.T) {
	store := newFakeStore()
	doc := NewDocument(testApp())
	s := New(store)

	_ = s.Load(context.Background(), doc)

	// The file appears concurrently between the failed load and the create.
	store.put("o/r", "configs/qq.json", "main", `{"title":"someone else"}`)

	err := s.Create(context.Background(), doc, "create config")

	var conflict *githubapi.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
	if store.WriteCalls != 1 {
		t.Errorf("WriteCalls = %d, want 1 (no retry)", store.WriteCalls)
	}
}

func TestSaveValidatesBeforeNetwork(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	_ = doc.Edit(func(c *model.ConfigDocument) { c.Title = "" })

	err := s.Save(context.Background(), doc, "save config")

	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if vErr.Field != "title" {
		t.Errorf("field = %q, want title", vErr.Field)
	}
	if store.WriteCalls != 0 {
		t.Errorf("WriteCalls = %d, validation must precede network", store.WriteCalls)
	}
	if doc.State() != StateLoaded {
		t.Errorf("state = %s, validation failure must not transition", doc.State())
	}
}

func TestSaveConflictLeavesBufferUntouched(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	tokenBefore := doc.VersionToken()

	// Remote moves underneath us: token becomes T2 while we hold T1.
	store.put("o/r", "configs/qq.json", "main", `{"title":"theirs"}`)

	_ = doc.Edit(func(c *model.ConfigDocument) { c.Title = "mine" })

	err := s.Save(context.Background(), doc, "save config")

	var conflict *githubapi.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
	if doc.State() != StateSaveFailed {
		t.Errorf("state = %s, want save-failed", doc.State())
	}
	if got := doc.Config().Title; got != "mine" {
		t.Errorf("edit buffer Title = %q, conflict must not touch it", got)
	}
	if doc.VersionToken() != tokenBefore {
		t.Error("conflict replaced the version token")
	}
}

func TestSaveSuccessRotatesToken(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	tokenBefore := doc.VersionToken()

	_ = doc.Edit(func(c *model.ConfigDocument) { c.Title = "Hello" })

	if err := s.Save(context.Background(), doc, "save config"); err != nil {
		t.Fatal(err)
	}

	if doc.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", doc.State())
	}
	if doc.VersionToken() == tokenBefore {
		t.Error("token not rotated after save")
	}

	want := `{
  "VIP": "开",
  "title": "Hello",
  "body": "",
  "enterPackage": "",
  "leftUrl": "",
  "rightUrl": "",
  "licenses": []
}`
	if store.LastWrite.Content != want {
		t.Errorf("remote content =\n%s\nwant\n%s", store.LastWrite.Content, want)
	}
	if store.LastWrite.Message != "save config" {
		t.Errorf("commit message = %q", store.LastWrite.Message)
	}
}

func TestSaveRequiresToken(t *testing.T) {
	doc := NewDocument(testApp())
	s := New(newFakeStore())

	if err := s.Save(context.Background(), doc, "m"); err == nil {
		t.Fatal("Save on unloaded document succeeded")
	}

	// A document with a buffer but no token is never written unconditionally.
	doc.config = model.DefaultConfig()
	doc.config.Title = "x"
	doc.state = StateLoaded

	if err := s.Save(context.Background(), doc, "m"); !errors.Is(err, ErrNoVersionToken) {
		t.Fatalf("err = %v, want ErrNoVersionToken", err)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	// Simulate a response that resolves after a newer operation started.
	gen := doc.begin(StateLoading)
	doc.begin(StateLoading) // newer operation supersedes

	doc.mu.Lock()
	stale := !doc.current(gen)
	doc.mu.Unlock()

	if !stale {
		t.Fatal("older generation still current")
	}
}

func TestOverlappingSavesSpuriousConflict(t *testing.T) {
	// Two saves race: both captured the same token, the first wins and
	// rotates it, the second loses with a conflict. Documented hazard.
	store := newFakeStore()
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	doc := NewDocument(testApp())
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	_ = doc.Edit(func(c *model.ConfigDocument) { c.Title = "first" })
	if err := s.Save(context.Background(), doc, "first save"); err != nil {
		t.Fatal(err)
	}

	// Second writer still holding the pre-save token.
	stale := NewDocument(testApp())
	_ = s.Load(context.Background(), stale)
	store.put("o/r", "configs/qq.json", "main", `{"title":"moved"}`)
	_ = stale.Edit(func(c *model.ConfigDocument) { c.Title = "second" })

	err := s.Save(context.Background(), stale, "second save")

	var conflict *githubapi.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	store := newFakeStore()
	store.put("o/r", "apps.json", "main", `[{"name":"QQ","repoId":"o/r","path":"configs/qq.json"}]`)
	store.put("o/r", "configs/qq.json", "main", `{"title":"Hi"}`)

	apps := model.NormalizeApps(mustRead(t, store, "o/r", "apps.json", "main"))
	if len(apps) != 1 || apps[0].Branch != "main" {
		t.Fatalf("apps = %+v", apps)
	}

	doc := NewDocument(apps[0])
	s := New(store)

	if err := s.Load(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	cfg := doc.Config()
	if cfg.VIP != model.VIPOn || cfg.Title != "Hi" || cfg.Body != "" || len(cfg.Licenses) != 0 {
		t.Fatalf("normalized config = %+v", cfg)
	}

	_ = doc.Edit(func(c *model.ConfigDocument) { c.Title = "Hello" })

	if err := s.Save(context.Background(), doc, "update title"); err != nil {
		t.Fatal(err)
	}

	want := `{
  "VIP": "开",
  "title": "Hello",
  "body": "",
  "enterPackage": "",
  "leftUrl": "",
  "rightUrl": "",
  "licenses": []
}`
	key := store.key("o/r", "configs/qq.json", "main")
	if store.files[key].content != want {
		t.Errorf("remote content =\n%s\nwant\n%s", store.files[key].content, want)
	}
}

func mustRead(t *testing.T, store *fakeStore, repoID, path, branch string) []byte {
	t.Helper()

	content, _, err := store.ReadFile(context.Background(), repoID, path, branch)
	if err != nil {
		t.Fatal(err)
	}

	return content
}
