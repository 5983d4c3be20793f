package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	UI       UIConfig       `yaml:"ui"`
	Session  SessionConfig  `yaml:"session"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
	Seed bool   `yaml:"seed"`
}

type LoggingConfig struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level"`
	Stdout bool   `yaml:"stdout"`
	JSON   bool   `yaml:"json"`
}

type UIConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SessionConfig struct {
	// DefaultNameFormat is a Go time layout used to name blank sessions
	DefaultNameFormat string `yaml:"default_name_format"`
}

var validLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// DefaultDir is where liftlog keeps its files, ~/.liftlog
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liftlog"
	}
	return filepath.Join(home, ".liftlog")
}

// DefaultPath is the config file used when none is given
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the configuration used when no file exists
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "liftlog.db"),
			Seed: true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(dir, "liftlog.log"),
			Level: "info",
		},
		UI: UIConfig{Enabled: true},
		Session: SessionConfig{
			DefaultNameFormat: "02/01/2006",
		},
	}
}

// Load reads config from a YAML file over the defaults, then applies environment
// variable overrides. A missing file is not an error.
// Env vars use the prefix LIFTLOG_:
//
//	LIFTLOG_DB_PATH, LIFTLOG_DB_SEED,
//	LIFTLOG_LOG_FILE, LIFTLOG_LOG_LEVEL, LIFTLOG_LOG_STDOUT, LIFTLOG_LOG_JSON,
//	LIFTLOG_UI
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LIFTLOG_DB_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.Seed = b
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("LIFTLOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIFTLOG_LOG_STDOUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Stdout = b
		}
	}
	if v := os.Getenv("LIFTLOG_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.JSON = b
		}
	}
	if v := os.Getenv("LIFTLOG_UI"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	var err error
	if c.Database.Path == "" {
		err = multierr.Append(err, fmt.Errorf("database.path is required"))
	}
	if !isValidLevel(c.Logging.Level) {
		err = multierr.Append(err, fmt.Errorf("logging.level %q must be one of %s",
			c.Logging.Level, strings.Join(validLevels, ", ")))
	}
	if strings.TrimSpace(c.Session.DefaultNameFormat) == "" {
		err = multierr.Append(err, fmt.Errorf("session.default_name_format is required"))
	}
	return err
}

// SetLogLevel overrides the configured log level, rejecting unknown levels
func (c *Config) SetLogLevel(level string) error {
	if !isValidLevel(level) {
		return fmt.Errorf("log level %q must be one of %s", level, strings.Join(validLevels, ", "))
	}
	c.Logging.Level = level
	return nil
}

func isValidLevel(level string) bool {
	for _, l := range validLevels {
		if l == level {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
