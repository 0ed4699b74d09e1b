package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	custom := filepath.Join(t.TempDir(), "xdg")

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", custom, filepath.Join(custom, appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	dir := fixtures(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(io.Discard, LogInfo)
	exec := func(args ...string) string {
		t.Helper()
		root := c.RootCommand()
		var out strings.Builder
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(exec("cache", "path")); got != filepath.Join(xdg, appName) {
		t.Errorf("cache path = %q, want %q", got, filepath.Join(xdg, appName))
	}

	// A plan run fills the cache with one measurement per image.
	exec(append([]string{"plan", dir}, smallPage...)...)
	store, err := openFileCache()
	if err != nil {
		t.Fatal(err)
	}
	if n, _, err := store.Stats(); err != nil || n != 3 {
		t.Fatalf("cached entries = %d, %v; want 3", n, err)
	}

	exec("cache", "info")
	exec("cache", "clear")
	if n, _, _ := store.Stats(); n != 0 {
		t.Errorf("cached entries after clear = %d, want 0", n)
	}
}
