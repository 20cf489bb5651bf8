// Package usercache persists a mapping from member names to resolved users
// so repeated "show <name>'s tasks" lookups skip the team roster scan.
package usercache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Entry is one resolved member.
type Entry struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Cache struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	mu      sync.RWMutex
	dirty   bool
}

// New loads the cache from its default location, creating an empty one
// when no file exists yet.
func New() (*Cache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "cuppa", "users.json")
	return NewAtPath(path)
}

// NewAtPath loads (or initializes) a cache backed by the given file.
func NewAtPath(path string) (*Cache, error) {
	c := &Cache{
		Entries: make(map[string]Entry),
		Path:    path,
	}

	if _, err := os.Stat(path); err == nil {
		if err := c.Load(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Cache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Entries)
}

// Save writes the cache back only when something changed.
func (c *Cache) Save() error {
	c.mu.RLock()
	if !c.dirty {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(c.Entries); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Get returns the cached entry for a name, if any.
func (c *Cache) Get(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.Entries[normalize(name)]
	return e, ok
}

func (c *Cache) Set(name string, e Entry) {
	key := normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Entries[key] != e {
		c.Entries[key] = e
		c.dirty = true
	}
}

func (c *Cache) Remove(name string) {
	key := normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.Entries[key]; exists {
		delete(c.Entries, key)
		c.dirty = true
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
