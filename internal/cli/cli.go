// Package cli implements the routefinder command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routefinder/pkg/buildinfo"
	"github.com/matzehuels/routefinder/pkg/cache"
	"github.com/matzehuels/routefinder/pkg/config"
	"github.com/matzehuels/routefinder/pkg/observability"
	"github.com/matzehuels/routefinder/pkg/pipeline"
	"github.com/matzehuels/routefinder/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "routefinder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the loaded configuration file, or the defaults when none
	// exists. It is replaced before each command runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "routefinder",
		Short: "Routefinder searches flight schedules for itineraries",
		Long: `Routefinder is a CLI tool for finding every itinerary between two airports
in a flight schedule, connecting legs within a layover window and respecting
checked-bag limits.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			c.registerHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/routefinder/config.toml)")

	// Register all subcommands
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the file named by --config, or the default location.
// Only an explicit path must exist.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// registerHooks routes pipeline and cache events to the debug log.
func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var keyer cache.Keyer
	if prefix := c.Config.Cache.Prefix; prefix != "" {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	r := pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	r.SourceOptions = source.Options{
		Database:   c.Config.Mongo.Database,
		Collection: c.Config.Mongo.Collection,
	}
	return r
}

// newCache opens the configured backend. A backend that cannot be opened is
// logged and replaced by a NullCache; searches never fail on the cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	// An unknown home directory only matters to the file backend, which then
	// fails to open below.
	dir, _ := cacheDir()
	ch, err := cache.Open(ctx, c.Config.CacheOptions(dir))
	if err != nil {
		c.Logger.Warn("cache unavailable, caching disabled", "backend", c.Config.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return ch
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/routefinder/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
