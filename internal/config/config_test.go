package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	body := []byte("listen_addr: \":9000\"\nnav:\n  max_walkable_slope_deg: 30\n  slope_cost_factor: 1.25\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("listen_addr not applied: %q", cfg.ListenAddr)
	}
	if cfg.Nav.MaxWalkableSlopeDeg != 30 || cfg.Nav.SlopeCostFactor != 1.25 {
		t.Fatalf("nav overrides not applied: %+v", cfg.Nav)
	}
	if cfg.Nav.ReplanIntervalMs != Default().Nav.ReplanIntervalMs {
		t.Fatal("untouched fields must keep their defaults")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("nav: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML must be an error, not silently defaulted")
	}
}

func TestValidateBounds(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"slope-zero", func(c *Config) { c.Nav.MaxWalkableSlopeDeg = 0 }},
		{"slope-vertical", func(c *Config) { c.Nav.MaxWalkableSlopeDeg = 90 }},
		{"negative-slop", func(c *Config) { c.Nav.ClearanceSlop = -0.1 }},
		{"negative-spacing", func(c *Config) { c.Nav.WaypointSpacing = -1 }},
		{"negative-budget", func(c *Config) { c.Nav.MaxExpansions = -1 }},
		{"zero-interval", func(c *Config) { c.Nav.ReplanIntervalMs = 0 }},
		{"zero-reach", func(c *Config) { c.Nav.ReachDistance = 0 }},
		{"zero-staleness", func(c *Config) { c.Nav.StalenessDistance = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("listen_addr: \":7001\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-w.Updates:
		if cfg.ListenAddr != ":7001" {
			t.Fatalf("expected reloaded config, got %q", cfg.ListenAddr)
		}
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case cfg := <-w.Updates:
		t.Fatalf("sibling file must not trigger a reload, got %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}
