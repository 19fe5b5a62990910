// Package config handles loading and saving cm configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/coursemap/config.yaml
//   - Data:    ~/.local/share/coursemap/ (progress database)
//   - State:   ~/.local/state/coursemap/ (exports, view state)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
)

const appName = "coursemap"

// ProgressDBEnvVar overrides the status database location.
const ProgressDBEnvVar = "CM_PROGRESS_DB"

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView  string `yaml:"default_view,omitempty"` // semesters, search
	Theme        string `yaml:"theme,omitempty"`        // auto, dark, light
	HistoryLimit int    `yaml:"history_limit,omitempty"`
}

// ExportConfig holds defaults for --export-dir and the export wizard.
type ExportConfig struct {
	Dir     string   `yaml:"dir,omitempty"`
	Formats []string `yaml:"formats,omitempty"` // mermaid, svg, png, sqlite, markdown
}

// Config is the top-level configuration for cm.
type Config struct {
	// Catalog is a catalog file or directory. Empty uses the bundled catalog.
	Catalog string `yaml:"catalog,omitempty"`
	// ProgressDB is the status database. Empty uses DataDir()/progress.db.
	ProgressDB string `yaml:"progress_db,omitempty"`
	// Watch reloads the catalog when its file changes.
	Watch bool `yaml:"watch,omitempty"`

	UI     UIConfig       `yaml:"ui,omitempty"`
	Filter catalog.Filter `yaml:"filter,omitempty"`
	Export ExportConfig   `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultView:  "semesters",
			Theme:        "auto",
			HistoryLimit: 5,
		},
		Filter: catalog.DefaultFilter(),
		Export: ExportConfig{
			Formats: []string{"mermaid", "svg", "png", "sqlite", "markdown"},
		},
	}
}

// ConfigDir returns the XDG config directory for cm.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for cm.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for cm.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Catalog = expandHome(cfg.Catalog)
	cfg.ProgressDB = expandHome(cfg.ProgressDB)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	if cfg.UI.HistoryLimit <= 0 {
		cfg.UI.HistoryLimit = DefaultConfig().UI.HistoryLimit
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ProgressDBPath resolves the status database location: CM_PROGRESS_DB,
// then the configured path, then DataDir()/progress.db.
func (c Config) ProgressDBPath() string {
	if env := os.Getenv(ProgressDBEnvVar); env != "" {
		return expandHome(env)
	}
	if c.ProgressDB != "" {
		return c.ProgressDB
	}
	dir := DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "progress.db")
}

// ExportDir resolves the export directory, defaulting to StateDir()/exports.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(StateDir(), "exports")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
