package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the on-disk configuration (~/.config/costar/config.toml).
// Every field is optional; command-line flags take precedence over it.
type Config struct {
	// Tokens are GitHub API tokens used for credential rotation.
	Tokens []string `toml:"tokens"`

	// Sources are default seed repositories in "owner/name" notation,
	// used when no --source flag is given.
	Sources []string `toml:"sources"`

	Workers   int `toml:"workers"`
	Count     int `toml:"count"`
	PageLimit int `toml:"page_limit"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis" or "none".
	Backend  string `toml:"backend"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
}

// configPath returns the config file location using XDG standard
// (~/.config/costar/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error and yields a zero config.
func loadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveTokens merges API tokens by precedence: --token flags, then the
// COSTAR_TOKENS / GITHUB_TOKEN environment variables, then the config
// file. A .env file in the working directory is loaded first if present.
func resolveTokens(flagTokens []string, cfg Config) []string {
	_ = godotenv.Load()

	if len(flagTokens) > 0 {
		return flagTokens
	}
	if env := os.Getenv("COSTAR_TOKENS"); env != "" {
		return splitTokens(env)
	}
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return []string{tok}
	}
	return cfg.Tokens
}

func splitTokens(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
