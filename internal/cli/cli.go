package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchid/pkg/buildinfo"
	"github.com/matzehuels/glitchid/pkg/cache"
	"github.com/matzehuels/glitchid/pkg/config"
	"github.com/matzehuels/glitchid/pkg/pipeline"
	"github.com/matzehuels/glitchid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// status receives spinners and shares the logger's writer, keeping
	// stdout free for rendered bytes.
	status io.Writer

	// configPath is the --config flag; empty means the default location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	lw := &lockedWriter{w: w}
	return &CLI{Logger: newLogger(lw, level), status: lw}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Glitchid renders glitched identity frames",
		Long:         `Glitchid turns an avatar and a name into a "corrupted signal" frame: contrast-boosted luma, chromatic offset, scanlines, torn slices and a terminal-green caption.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/glitchid/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default one if present.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, keyer, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	if cfg.Cache.TTL > 0 {
		runner.TTL = cfg.Cache.TTL
	}
	return runner, nil
}

// newCache opens the cache backend. A nil keyer means the default one.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil, nil
	}
	if cfg.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Prefix), nil
	}

	dir, err := fileCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// newStore opens the render archive backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:       cfg.MongoURI,
			Database:  cfg.Database,
			Retention: cfg.Retention,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return ms, nil
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, fmt.Errorf("get data dir: %w", err)
			}
			dir = filepath.Join(base, "renders")
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	default:
		return store.NewMemoryStore(cfg.Capacity), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/glitchid/).
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

// dataDir returns the data directory using XDG standard (~/.local/share/glitchid/).
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

// fileCacheDir returns the configured cache dir, falling back to cacheDir.
func fileCacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list. An empty list falls
// back to def.
func parseFormats(s, def string) []string {
	if strings.TrimSpace(s) == "" {
		if def == "" {
			def = pipeline.FormatPNG
		}
		return []string{def}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
