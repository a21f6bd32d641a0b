package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(base, appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestCachePath(t *testing.T) {
	setupCLI(t)
	out, _, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	cfg := writeFile(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")
	out, _, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}

func TestCacheClear(t *testing.T) {
	data := setupCLI(t)

	_, status, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "Cache is empty") {
		t.Errorf("status = %q, want empty cache", status)
	}

	for _, dest := range []string{"B", "C"} {
		if _, _, err := runCLI(t, "search", data, "A", dest); err != nil {
			t.Fatal(err)
		}
	}
	_, status, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "Cleared 2 cached entries") {
		t.Errorf("status = %q, want 2 cleared entries", status)
	}

	_, status, err = runCLI(t, "search", data, "A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, iconFresh) {
		t.Errorf("search after clear served from cache: %q", status)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	setupCLI(t)
	cfg := writeFile(t, "config.toml", "[cache]\nbackend = \"none\"\n")
	_, status, err := runCLI(t, "--config", cfg, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "Caching is disabled") {
		t.Errorf("status = %q", status)
	}
}
