// ABOUTME: Catalog configuration loaded from YAML with environment overrides.
// ABOUTME: Handles XDG config paths, defaults and saving the file back.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/catalog/internal/charm"
	"github.com/harper/catalog/internal/db"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

type Config struct {
	Backend        string       `yaml:"backend"`
	DBPath         string       `yaml:"db_path"`
	HTTPAddr       string       `yaml:"http_addr"`
	AllowedOrigins []string     `yaml:"allowed_origins,omitempty"`
	Log            LogConfig    `yaml:"log"`
	Charm          charm.Config `yaml:"charm"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		DBPath:   db.DefaultPath(),
		HTTPAddr: ":8080",
		Log:      LogConfig{Mode: "dev", Level: "info"},
		Charm:    charm.DefaultConfig(),
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "catalog")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads path (Path() when empty), falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"CATALOG_BACKEND", &c.Backend},
		{"CATALOG_DB", &c.DBPath},
		{"CATALOG_HTTP_ADDR", &c.HTTPAddr},
		{"CATALOG_LOG_MODE", &c.Log.Mode},
		{"CATALOG_LOG_LEVEL", &c.Log.Level},
		{"CHARM_HOST", &c.Charm.Host},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case BackendSQLite, BackendCharm:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSQLite, BackendCharm)
	}
	if c.Backend == BackendSQLite && c.DBPath == "" {
		return errors.New("db_path is required for the sqlite backend")
	}
	return nil
}

// Save writes the config to path (Path() when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Exists reports whether a config file exists at path (Path() when empty).
func Exists(path string) bool {
	if path == "" {
		path = Path()
	}
	_, err := os.Stat(path)
	return err == nil
}
