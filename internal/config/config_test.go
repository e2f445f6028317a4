// ABOUTME: Tests for configuration loading, overrides and saving.
// ABOUTME: Uses temp XDG dirs so the user's real config is never read.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range []string{"CATALOG_BACKEND", "CATALOG_DB", "CATALOG_HTTP_ADDR", "CATALOG_LOG_MODE", "CATALOG_LOG_LEVEL", "CHARM_HOST"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	want := filepath.Join(dir, "data", "catalog", "catalog.db")
	if cfg.DBPath != want {
		t.Errorf("expected db path %q, got %q", want, cfg.DBPath)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if !cfg.Charm.AutoSync {
		t.Error("expected charm auto sync on by default")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "catalog.yaml")
	content := `backend: charm
http_addr: "127.0.0.1:9000"
allowed_origins: ["https://example.com"]
log:
  mode: prod
  level: debug
charm:
  host: charm.example.com
  auto_sync: false
  stale_threshold: 5m
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CATALOG_HTTP_ADDR", ":7000")
	t.Setenv("CATALOG_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendCharm {
		t.Errorf("expected charm backend, got %q", cfg.Backend)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("expected env override :7000, got %q", cfg.HTTPAddr)
	}
	if cfg.Log.Mode != "prod" || cfg.Log.Level != "warn" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Charm.Host != "charm.example.com" || cfg.Charm.AutoSync {
		t.Errorf("unexpected charm config: %+v", cfg.Charm)
	}
	if cfg.Charm.StaleThreshold != 5*time.Minute {
		t.Errorf("expected 5m stale threshold, got %v", cfg.Charm.StaleThreshold)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("CATALOG_BACKEND", "postgres")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(path, []byte("backend: [unclosed"), 0600)

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Backend = BackendCharm
	cfg.Charm.Host = "charm.example.com"
	cfg.Charm.StaleThreshold = time.Hour
	if err := Save(cfg, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists("") {
		t.Fatal("expected config file to exist")
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Backend != BackendCharm || loaded.Charm.Host != "charm.example.com" || loaded.Charm.StaleThreshold != time.Hour {
		t.Errorf("unexpected round trip: %+v", loaded)
	}
}
