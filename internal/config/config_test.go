package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEARCH_BASE_URL", "http://search.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.StateBackend != "sqlite" || cfg.SearchMethod != "POST" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SearchTimeout != 10*time.Second {
		t.Errorf("SearchTimeout = %v", cfg.SearchTimeout)
	}
	if len(cfg.IdentityIssuers) != 2 {
		t.Errorf("IdentityIssuers = %v", cfg.IdentityIssuers)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SEARCH_BASE_URL=http://from-file\nSTATE_BACKEND=redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STATE_BACKEND", "sqlite")
	// godotenv sets variables the test did not register; restore them.
	t.Cleanup(func() { os.Unsetenv("SEARCH_BASE_URL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SearchBaseURL != "http://from-file" {
		t.Errorf("SearchBaseURL = %q", cfg.SearchBaseURL)
	}
	if cfg.StateBackend != "sqlite" {
		t.Errorf("StateBackend = %q, environment should win", cfg.StateBackend)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing search url", func(t *testing.T) {
		t.Setenv("SEARCH_BASE_URL", "")
		os.Unsetenv("SEARCH_BASE_URL")
		if _, err := Load(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("SEARCH_BASE_URL", "http://search.local")
		t.Setenv("STATE_BACKEND", "mongo")
		if _, err := Load(); err == nil {
			t.Error("expected error")
		}
	})
}
