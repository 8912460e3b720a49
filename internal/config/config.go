// Package config provides configuration for the qcut timeline agent.
// Settings come from an optional TOML file, with environment variables
// taking precedence, and sensible defaults beneath both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPort     = 8765
	DefaultLogLevel = "info"
	DefaultDataDir  = ".qcut-agent"

	EnvPort       = "QCUT_AGENT_PORT"
	EnvLogLevel   = "QCUT_AGENT_LOG_LEVEL"
	EnvDataDir    = "QCUT_AGENT_DATA_DIR"
	EnvConfigFile = "QCUT_AGENT_CONFIG"

	DBFilename   = "qcut-agent.db"
	LockFilename = "qcut-agent.lock"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	LockPath() string
}

// fileConfig mirrors the TOML config file layout.
type fileConfig struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	DataDir  string `toml:"data_dir"`
}

// EnvConfig resolves configuration from defaults, an optional file, and
// environment variable overrides.
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
}

// New loads configuration: defaults first, then the TOML file named by
// QCUT_AGENT_CONFIG (or <data-dir>/config.toml when present), then
// environment variables.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
	}

	if err := cfg.applyFile(); err != nil {
		return nil, err
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.port = port
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.port)
	}

	return cfg, nil
}

// applyFile layers the TOML file under env overrides. A missing implicit
// file is fine; a named file that cannot be read is an error.
func (c *EnvConfig) applyFile() error {
	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.dataDir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		if explicit {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return nil
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// LockPath returns the single-instance lock file path
func (c *EnvConfig) LockPath() string {
	return filepath.Join(c.dataDir, LockFilename)
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
