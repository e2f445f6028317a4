// ABOUTME: Root command wiring: config, logging and the selected storage backend.
// ABOUTME: Subcommands share the article service and section engine built here.

package main

import (
	"fmt"
	"io"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/charm"
	"github.com/harper/catalog/internal/config"
	"github.com/harper/catalog/internal/db"
	"github.com/harper/catalog/internal/logger"
	"github.com/spf13/cobra"
)

// Command annotations.
const (
	// skipStore marks commands that manage the backend themselves.
	skipStore = "skip-store"
	// longRunning marks servers, which log at the configured level.
	longRunning = "long-running"
)

var (
	cfgPath     string
	dbPathFlag  string
	backendFlag string
	verbose     bool

	appCfg   *config.Config
	appLog   *logger.Logger
	store    catalog.Store
	articles *catalog.Service
	sections *catalog.Engine
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Articles grouped into sections by their tags",
	Long: `catalog keeps short articles with tags. Articles that carry exactly
the same set of tags form a section; sections are derived on every read
and never stored.

Data lives in a local SQLite database by default, or in Charm KV when
the charm backend is selected.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPathFlag != "" {
			cfg.DBPath = dbPathFlag
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		appCfg = cfg

		level := cfg.Log.Level
		if !verbose && !hasAnnotation(cmd, longRunning) {
			level = "warn"
		}
		appLog, err = logger.New(cfg.Log.Mode, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if hasAnnotation(cmd, skipStore) {
			return nil
		}
		return openStore()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		if appLog != nil {
			appLog.Sync()
		}
	},
}

func openStore() error {
	switch appCfg.Backend {
	case config.BackendCharm:
		client, err := charm.NewClient(appCfg.Charm, charm.WithLogger(appLog))
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}
		store = client
	default:
		s, err := db.OpenStore(appCfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		store = s
	}

	articles = catalog.NewService(store, appLog)
	sections = catalog.NewEngine(store, appLog)
	return nil
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] != "" {
			return true
		}
	}
	return false
}

// tagLister returns the store's tag listing when the backend has one.
func tagLister() (catalog.TagLister, error) {
	tl, ok := store.(catalog.TagLister)
	if !ok {
		return nil, fmt.Errorf("backend %s cannot list tags", appCfg.Backend)
	}
	return tl, nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: $XDG_CONFIG_HOME/catalog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite or charm")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level")
}
