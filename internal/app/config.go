package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"calc/internal/domain"
)

// Store backends selectable with Config.Store.
const (
	StoreFile   = "file"
	StoreSealed = "sealed"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// ConfigFileName is the config file looked up under the home directory.
const ConfigFileName = "config.yaml"

// ErrUnknownStore is returned for a Store value outside the known backends.
var ErrUnknownStore = errors.New("unknown store backend")

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string `yaml:"-"` // data directory, e.g. $HOME/.calc
	Passphrase string `yaml:"-"` // sealed store only; never read from disk

	Store   string        `yaml:"store"` // file, sealed, sqlite, memory
	Theme   string        `yaml:"theme"` // used until a preference is persisted
	Logging LoggingConfig `yaml:"logging"`
	Plot    PlotConfig    `yaml:"plot"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // relative paths resolve under Home
}

// PlotConfig configures the plot view.
type PlotConfig struct {
	Variable string `yaml:"variable"`
}

// DefaultHome returns $CALC_HOME, or ~/.calc.
func DefaultHome() string {
	if h := os.Getenv("CALC_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".calc"
	}
	return filepath.Join(home, ".calc")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Home:  DefaultHome(),
		Store: StoreFile,
		Theme: string(domain.ThemeLight),
		Logging: LoggingConfig{
			Level: "info",
			File:  "calc.log",
		},
		Plot: PlotConfig{Variable: "x"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if s := os.Getenv("CALC_STORE"); s != "" {
		c.Store = s
	}
	if lvl := os.Getenv("CALC_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if t := os.Getenv("CALC_THEME"); t != "" {
		c.Theme = t
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSealed, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
	if c.Theme != "" {
		if _, ok := domain.ParseTheme(c.Theme); !ok {
			return fmt.Errorf("invalid theme %q (want light or dark)", c.Theme)
		}
	}
	if c.Plot.Variable != "" && strings.ContainsAny(c.Plot.Variable, " \t+-*/%^()") {
		return fmt.Errorf("invalid plot variable %q", c.Plot.Variable)
	}
	return nil
}

// LogPath resolves Logging.File against Home. An empty File disables the
// log file.
func (c *Config) LogPath() string {
	if c.Logging.File == "" || filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.Home, c.Logging.File)
}

// InitialTheme is the configured theme, falling back to light.
func (c *Config) InitialTheme() domain.Theme {
	if t, ok := domain.ParseTheme(c.Theme); ok {
		return t
	}
	return domain.ThemeLight
}
