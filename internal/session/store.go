// Package session holds the per-user state that outlives one run: the GitHub
// credential and the location of the registry list, persisted in a small
// bbolt database under the user config directory.
package session

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"github.com/appconf/appconf/internal/params"
	"go.etcd.io/bbolt"
)

const (
	boltBucketSession = "session" // key: "token" -> credential string

	// registry holds the location of the apps-list file
	boltBucketRegistry = "registry" // key: "location" -> RegistryLocation JSON

	tokenKey    = "token"
	locationKey = "location"
)

// RegistryLocation identifies the remote file holding the apps list.
type RegistryLocation struct {
	RepoID string `json:"repoId"`
	Path   string `json:"path"`
	Branch string `json:"branch"`
}

// Store is the bbolt-backed persistence for session state.
type Store struct {
	db *bbolt.DB
}

// Open opens the session database in the application data directory.
func Open() (*Store, error) {
	return OpenPath(filepath.Join(params.AppdataDir, "appconf.bolt"))
}

// OpenPath opens the session database at an explicit path.
func OpenPath(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketSession)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketRegistry)); err != nil {
			return err
		}

		return nil
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the persisted credential, or "" when none is stored.
func (s *Store) Token() (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucketSession)).Get([]byte(tokenKey)); v != nil {
			token = string(v)
		}

		return nil
	})

	return token, err
}

// SetToken replaces the persisted credential wholesale.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return errors.New("token is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketSession)).Put([]byte(tokenKey), []byte(token))
	})
}

// ClearToken removes the persisted credential.
func (s *Store) ClearToken() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketSession)).Delete([]byte(tokenKey))
	})
}

// RegistryLocation returns the stored apps-list location, or nil when the
// session has not been configured yet.
func (s *Store) RegistryLocation() (*RegistryLocation, error) {
	var loc *RegistryLocation

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketRegistry)).Get([]byte(locationKey))
		if v == nil {
			return nil
		}

		loc = &RegistryLocation{}

		return json.Unmarshal(v, loc)
	})
	if err != nil {
		return nil, err
	}

	return loc, nil
}

// SetRegistryLocation stores the apps-list location.
func (s *Store) SetRegistryLocation(loc RegistryLocation) error {
	if loc.RepoID == "" || loc.Path == "" {
		return errors.New("registry repoId and path are required")
	}

	if loc.Branch == "" {
		loc.Branch = "main"
	}

	data, err := json.Marshal(&loc)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRegistry)).Put([]byte(locationKey), data)
	})
}
