// ABOUTME: Configuration for the Charm KV backend.
// ABOUTME: Server host, write-through sync and the staleness threshold for reads.

package charm

import "time"

// Config holds charm sync configuration. It is read from the catalog
// config file's charm section.
type Config struct {
	// Host is the charm server host (default: charm.2389.dev)
	Host string `yaml:"host,omitempty"`

	// AutoSync pushes changes to the server after every write (default: true)
	AutoSync bool `yaml:"auto_sync"`

	// StaleThreshold triggers a sync before reads when the last sync is
	// older than this. Zero disables it.
	StaleThreshold time.Duration `yaml:"stale_threshold,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:     "charm.2389.dev",
		AutoSync: true,
	}
}
