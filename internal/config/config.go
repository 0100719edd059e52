// Package config handles the configuration directory, config file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todocat"

	// ConfigFile is the optional config filename inside the config directory.
	ConfigFile = "config.toml"

	// DatabaseFile is the default SQLite filename for the reference backend.
	DatabaseFile = "todocat.db"

	// DefaultAPIBase is the backend address used when nothing overrides it.
	DefaultAPIBase = "http://localhost:8000/api"

	// DefaultListen is the listen address for the reference backend.
	DefaultListen = "127.0.0.1:8000"
)

// Environment variables that override config file values.
const (
	EnvAPIBase     = "TODOCAT_API_BASE"
	EnvTimeout     = "TODOCAT_TIMEOUT"
	EnvSentryDSN   = "TODOCAT_SENTRY_DSN"
	EnvEnvironment = "TODOCAT_ENVIRONMENT"
	EnvListen      = "TODOCAT_LISTEN"
	EnvDBPath      = "TODOCAT_DB"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIBase is the backend root, e.g. http://localhost:8000/api.
	APIBase string

	// Timeout bounds each backend request. Zero means no client-side timeout.
	Timeout time.Duration

	// SentryDSN enables error reporting when set.
	SentryDSN string

	// Environment is reported with error events.
	Environment string

	// Listen is the reference backend listen address.
	Listen string

	// DBPath is the reference backend database file.
	DBPath string
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIBase     string `toml:"api_base"`
	Timeout     string `toml:"timeout"`
	SentryDSN   string `toml:"sentry_dsn"`
	Environment string `toml:"environment"`
	Listen      string `toml:"listen"`
	DBPath      string `toml:"db_path"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todocat or $HOME/.config/todocat.
// Values are layered: defaults, then config.toml, then TODOCAT_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:         dir,
		APIBase:     DefaultAPIBase,
		Environment: "development",
		Listen:      DefaultListen,
		DBPath:      filepath.Join(dir, DatabaseFile),
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// SetAPIBase overrides the backend root (used by the --api flag).
func (c *Config) SetAPIBase(base string) error {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if err := validateBase(base); err != nil {
		return err
	}
	c.APIBase = base
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if err := validateBase(c.APIBase); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// ErrorReporting reports whether a Sentry DSN is configured.
func (c *Config) ErrorReporting() bool {
	return c.SentryDSN != ""
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.FilePath(), &fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.APIBase != "" {
		c.APIBase = fc.APIBase
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: timeout: %w", ConfigFile, err)
		}
		c.Timeout = d
	}
	if fc.SentryDSN != "" {
		c.SentryDSN = fc.SentryDSN
	}
	if fc.Environment != "" {
		c.Environment = fc.Environment
	}
	if fc.Listen != "" {
		c.Listen = fc.Listen
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvSentryDSN); v != "" {
		c.SentryDSN = v
	}
	if v := os.Getenv(EnvEnvironment); v != "" {
		c.Environment = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	return nil
}

func validateBase(base string) error {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api base: %q", base)
	}
	return nil
}
