// Package cli implements the algoreel command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/buildinfo"
	"github.com/matzehuels/algoreel/pkg/cache"
	"github.com/matzehuels/algoreel/pkg/config"
	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/history"
	"github.com/matzehuels/algoreel/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "algoreel"

	// historyFile is the run log inside the data directory.
	historyFile = "history.jsonl"
)

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

	// Preview plays a timeline in a window. It is injected by main so that
	// this package does not link the windowing toolkit; nil disables -p.
	Preview pipeline.PreviewFunc

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		c.Logger.SetPrefix(appName)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Algoreel animates data structure algorithms",
		Long:          `Algoreel compiles short algorithm animations (binary search tree insertion, sorting, linked lists) into timelines and renders them as video, GIF, PNG or SVG frames.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/algoreel/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scenesCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend, "history", cfg.History.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner wired to the configured cache and
// history backends. The caller must close the returned runner.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func(), error) {
	cc, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	store, err := c.newHistory(ctx)
	if err != nil {
		_ = cc.Close()
		return nil, nil, err
	}

	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	runner.Encoder = &encode.Encoder{
		MediaDir: c.cfg.Render.MediaDir,
		Workers:  c.cfg.Render.Workers,
		Logger:   c.Logger,
	}
	runner.History = store
	runner.Preview = c.Preview

	closeFn := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close history", "error", err)
		}
		if err := cc.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
	}
	return runner, closeFn, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	opts := cache.Options{
		Backend:   c.cfg.Cache.Backend,
		Dir:       c.cfg.Cache.Dir,
		RedisURL:  c.cfg.Cache.RedisURL,
		Namespace: c.cfg.Cache.Namespace,
	}
	if noCache {
		opts.Backend = cache.BackendNone
	}
	if opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

func (c *CLI) newHistory(ctx context.Context) (history.Store, error) {
	opts := history.Options{
		Backend:    c.cfg.History.Backend,
		Path:       c.cfg.History.Path,
		MongoURI:   c.cfg.History.MongoURI,
		Database:   c.cfg.History.Database,
		Collection: c.cfg.History.Collection,
	}
	if opts.Backend == config.HistoryFile && opts.Path == "" {
		dir, err := dataDir()
		if err != nil {
			return history.NullStore{}, nil
		}
		opts.Path = filepath.Join(dir, historyFile)
	}
	return history.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/algoreel/).
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

// dataDir returns the data directory using XDG standard (~/.local/share/algoreel/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
