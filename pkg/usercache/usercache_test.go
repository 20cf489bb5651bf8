package usercache

import (
	"os"
	"path/filepath"
	"testing"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewAtPath(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGetSetRemove(t *testing.T) {
	c := testCache(t)

	if _, ok := c.Get("jeremy"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set("Jeremy", Entry{UserID: 7, Username: "jeremy", Email: "j@example.com"})
	e, ok := c.Get("  JEREMY ")
	if !ok {
		t.Fatal("Get missed after Set; name normalization broken")
	}
	if e.UserID != 7 || e.Username != "jeremy" {
		t.Errorf("Get = %+v", e)
	}

	c.Remove("jeremy")
	if _, ok := c.Get("jeremy"); ok {
		t.Error("Get hit after Remove")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	c, err := NewAtPath(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Set("jeremy", Entry{UserID: 7, Username: "jeremy"})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewAtPath(path)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := reloaded.Get("jeremy")
	if !ok || e.UserID != 7 {
		t.Errorf("reloaded entry = %+v, %v", e, ok)
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	c, err := NewAtPath(path)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing changed, so nothing should be written.
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Save wrote a file for an untouched cache")
	}

	// Re-setting the identical entry must not re-dirty the cache.
	c.Set("jeremy", Entry{UserID: 7, Username: "jeremy"})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	c.Set("jeremy", Entry{UserID: 7, Username: "jeremy"})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Save rewrote the file after a no-op Set")
	}
}
