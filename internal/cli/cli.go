// Package cli implements the costar command-line interface.
//
// This package provides commands for discovering popular repositories by
// fanning out over the stargazers of seed repositories, exporting rankings,
// printing clone URLs, and managing the response cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - discover: Rank repositories by how many seed stargazers starred them
//   - urls: Print clone URLs for a previously exported ranking
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/costarhq/costar/pkg/buildinfo"
	"github.com/costarhq/costar/pkg/cache"
)

const (
	// appName is the application name used for directories and display.
	appName = "costar"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "Costar discovers popular repositories through shared stargazers",
		Long:         `Costar crawls the stargazers of seed repositories, collects everything those stargazers starred, and ranks the results by how many distinct stargazers each repository shares with your seeds.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.urlsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the cache backend selected by flags and configuration.
func newCache(ctx context.Context, noCache bool, cfg CacheConfig) (cache.Cache, error) {
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == "redis" {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redis cache backend requires an addr")
		}
		return cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, 0)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/costar/).
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
