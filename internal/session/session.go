package session

import "github.com/google/uuid"

// Context carries the mutable per-run state: the resolved credential and the
// registry location. It is created once at startup and handed to whoever
// needs it; nothing reaches into process globals. The credential is only ever
// replaced wholesale, never partially mutated.
type Context struct {
	ID       string
	Token    string
	Registry RegistryLocation

	store *Store
}

// NewContext builds the session context from the persisted store.
func NewContext(store *Store) (*Context, error) {
	token, err := store.Token()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		ID:    uuid.New().String(),
		Token: token,
		store: store,
	}

	if loc, err := store.RegistryLocation(); err != nil {
		return nil, err
	} else if loc != nil {
		ctx.Registry = *loc
	}

	return ctx, nil
}

// ReplaceToken swaps the session credential and persists it.
func (c *Context) ReplaceToken(token string) error {
	if err := c.store.SetToken(token); err != nil {
		return err
	}

	c.Token = token

	return nil
}

// ClearToken drops the credential from the session and the store.
func (c *Context) ClearToken() error {
	if err := c.store.ClearToken(); err != nil {
		return err
	}

	c.Token = ""

	return nil
}

// SetRegistry updates and persists the apps-list location.
func (c *Context) SetRegistry(loc RegistryLocation) error {
	if err := c.store.SetRegistryLocation(loc); err != nil {
		return err
	}

	if loc.Branch == "" {
		loc.Branch = "main"
	}
	c.Registry = loc

	return nil
}
