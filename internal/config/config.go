// Package config loads vow's TOML configuration file and environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/llm"
)

// Config holds all configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	XP       XPConfig       `toml:"xp"`
	Scan     ScanConfig     `toml:"scan"`
	API      APIConfig      `toml:"api"`
	Logging  LoggingConfig  `toml:"logging"`
	Coach    CoachConfig    `toml:"coach"`
	LLM      llm.Config     `toml:"llm"`
}

// DatabaseConfig locates the SQLite file. An empty path uses the XDG data dir.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// XPConfig controls XP awards.
type XPConfig struct {
	BaseXP        int    `toml:"base_xp"`
	DefaultLocale string `toml:"default_locale"`
}

// ScanConfig controls the scheduled mismatch scan.
type ScanConfig struct {
	Interval    time.Duration `toml:"interval"`
	Concurrency int           `toml:"concurrency"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host           string        `toml:"host"`
	Port           int           `toml:"port"`
	Metrics        bool          `toml:"metrics"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Addr returns host:port.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// CoachConfig controls LLM personalization of baby-step plans.
type CoachConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
	MaxTokens         int     `toml:"max_tokens"`
	Temperature       float64 `toml:"temperature"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		XP: XPConfig{
			BaseXP:        10,
			DefaultLocale: leveling.DefaultLocale,
		},
		Scan: ScanConfig{
			Interval:    time.Hour,
			Concurrency: 4,
		},
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8787,
			Metrics:        true,
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Coach: CoachConfig{
			Enabled:           false,
			RequestsPerMinute: 20,
			MaxTokens:         400,
			Temperature:       0.4,
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath resolves the config file location:
// 1. VOW_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/vow/config.toml
// 3. ~/.config/vow/config.toml
func DefaultPath() (string, error) {
	if p := os.Getenv("VOW_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vow", "config.toml"), nil
}

// Load reads the config at path (DefaultPath when empty), applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file yet; defaults apply.
	case err != nil:
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("parse config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from VOW_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("VOW_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("VOW_LOCALE"); v != "" {
		c.XP.DefaultLocale = v
	}
	if v := os.Getenv("VOW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.LLM.ApplyEnv()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.XP.BaseXP <= 0 {
		return fmt.Errorf("xp.base_xp must be positive, got %d", c.XP.BaseXP)
	}
	if c.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive, got %s", c.Scan.Interval)
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be positive, got %d", c.Scan.Concurrency)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Coach.Enabled {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("coach enabled: %w", err)
		}
	}
	return nil
}

// ParseLevel parses a slog level name.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("logging.level: %w", err)
	}
	return l, nil
}

// NewLogger builds the process logger.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
