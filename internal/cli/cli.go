package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagepack/pkg/buildinfo"
	"github.com/matzehuels/pagepack/pkg/cache"
	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pagepack"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pagepack packs images onto the pages of a PDF",
		Long: `pagepack places images onto as few fixed-size pages as it can, turning
them by 90 degrees where that helps, and writes the pages to a PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheSettings selects the measurement cache of a run.
type cacheSettings struct {
	disabled bool
	url      string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cs cacheSettings) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cs)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cs.url != "" && !cs.disabled {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cs cacheSettings) (cache.Cache, error) {
	if cs.disabled {
		return cache.NewNullCache(), nil
	}
	if cs.url != "" {
		store, err := cache.NewRedisCache(ctx, cs.url)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to cache %s", cs.url)
		}
		return store, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pagepack/).
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
