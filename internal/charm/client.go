// ABOUTME: Charm KV client wrapper using the transactional Do API.
// ABOUTME: Short-lived connections to avoid lock contention with other catalog processes.

package charm

import (
	"os"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	charmproto "github.com/charmbracelet/charm/proto"
	"github.com/harper/catalog/internal/logger"
)

const (
	// DBName is the name of the charm kv database for the catalog.
	DBName = "catalog"
)

// Client holds configuration for KV operations. It does not hold a
// connection: each operation opens the database, runs, and closes it.
type Client struct {
	dbName         string
	autoSync       bool
	staleThreshold time.Duration
	log            *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDBName sets the database name.
func WithDBName(name string) Option {
	return func(c *Client) {
		c.dbName = name
	}
}

// WithAutoSync enables or disables auto-sync after writes.
func WithAutoSync(enabled bool) Option {
	return func(c *Client) {
		c.autoSync = enabled
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for cfg. A configured host is exported as
// CHARM_HOST, which the charm library reads.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, err
		}
	}

	c := &Client{
		dbName:         DBName,
		autoSync:       cfg.AutoSync,
		staleThreshold: cfg.StaleThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrNop(c.log).With("component", "charm", "db", c.dbName)
	return c, nil
}

// DBName returns the kv database this client uses.
func (c *Client) DBName() string {
	return c.dbName
}

// doReadOnly runs fn against a read-only handle, pulling from the server
// first when the local copy is older than the stale threshold.
func (c *Client) doReadOnly(fn func(k *kv.KV) error) error {
	if err := c.SyncIfStale(); err != nil {
		return err
	}
	return kv.DoReadOnly(c.dbName, fn)
}

// do runs fn under the exclusive write lock. With auto-sync on, a
// successful write is pushed before the lock is released.
func (c *Client) do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil || !c.autoSync {
			return err
		}
		return k.Sync()
	})
}

// Sync pushes and pulls with the charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, (*kv.KV).Sync)
}

// syncState reads the last sync time and staleness in one open.
func (c *Client) syncState() (last time.Time, stale bool) {
	_ = kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		last = k.LastSyncTime()
		stale = c.staleThreshold > 0 && k.IsStale(c.staleThreshold)
		return nil
	})
	return last, stale
}

// LastSyncTime is the zero time when the database never synced.
func (c *Client) LastSyncTime() time.Time {
	last, _ := c.syncState()
	return last
}

// IsStale is always false when no stale threshold is configured.
func (c *Client) IsStale() bool {
	if c.staleThreshold == 0 {
		return false
	}
	_, stale := c.syncState()
	return stale
}

func (c *Client) SyncIfStale() error {
	if !c.IsStale() {
		return nil
	}
	c.log.Info("Local copy stale, syncing", "threshold", c.staleThreshold)
	return c.Sync()
}

// User fetches this device's charm account, authenticating with the
// local SSH key.
func (c *Client) User() (*charmproto.User, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, err
	}
	return cc.Bio()
}

// Link creates the charm account on first use; later calls just load it.
func (c *Client) Link() error {
	if _, err := c.User(); err != nil {
		return err
	}
	c.log.Info("Linked to charm")
	return nil
}

// Close satisfies io.Closer. No handle outlives a single operation.
func (c *Client) Close() error {
	return nil
}
