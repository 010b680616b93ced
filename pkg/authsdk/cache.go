package authsdk

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File names inside the cache directory. The token is stored raw; the user
// projection is stored as JSON.
const (
	tokenFile = "authToken"
	userFile  = "userData"
)

// SessionCache keeps the caller's session (token + user projection) in memory
// and mirrors it to disk, so a restarted client stays signed in until the
// token expires server-side. All methods are safe for concurrent use.
//
// The cache never validates the token; expiry is only discovered when the
// server rejects a request, at which point callers should ClearSession.
type SessionCache struct {
	dir string

	mu          sync.RWMutex
	token       string
	user        *User
	subscribers []func(authenticated bool)
}

// NewSessionCache opens (or creates) a cache rooted at dir and loads any
// persisted session.
func NewSessionCache(dir string) (*SessionCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	c := &SessionCache{dir: dir}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SessionCache) load() error {
	raw, err := os.ReadFile(filepath.Join(c.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	c.token = string(raw)

	rawUser, err := os.ReadFile(filepath.Join(c.dir, userFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var u User
	if err := json.Unmarshal(rawUser, &u); err != nil {
		// A corrupt user file leaves the cache signed out; IsAuthenticated
		// requires both halves of the session.
		return nil
	}
	c.user = &u
	return nil
}

// SaveSession replaces the cached session and persists it.
func (c *SessionCache) SaveSession(token string, user User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(c.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.dir, userFile), rawUser, 0o600); err != nil {
		return err
	}

	c.token = token
	c.user = &user
	c.notifyLocked(true)
	return nil
}

// ClearSession removes the cached session, in memory and on disk. Clearing an
// already-empty cache is a no-op.
func (c *SessionCache) ClearSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	c.token = ""
	c.user = nil
	c.notifyLocked(false)
	return nil
}

// Token returns the cached session token, or "" when signed out.
func (c *SessionCache) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User returns a copy of the cached user projection, or nil when signed out.
func (c *SessionCache) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// IsAuthenticated reports whether a complete session — token and user
// snapshot — is cached. It is a presence check only; the token may have
// expired server-side.
func (c *SessionCache) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != "" && c.user != nil
}

// Subscribe registers fn to run whenever the session is saved or cleared,
// with the new signed-in state. Callbacks run synchronously on the mutating
// goroutine and must not call back into the cache.
func (c *SessionCache) Subscribe(fn func(authenticated bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *SessionCache) notifyLocked(authenticated bool) {
	for _, fn := range c.subscribers {
		fn(authenticated)
	}
}
