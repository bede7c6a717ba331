// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config handles loading, validating, and saving the modpack-tui
// configuration file (~/.modpack-tui/config.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/jeranaias/modpack-tui/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the top-level configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	History HistoryConfig `toml:"history"`
	LogFile string        `toml:"log_file"`
}

// ServerConfig configures the backend connection.
type ServerConfig struct {
	// BaseURL is the root of the ModpackGPT backend.
	BaseURL string `toml:"base_url"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Verbose enables request/response logging.
	Verbose bool `toml:"verbose"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme selects the color theme ("dark" or "light").
	Theme string `toml:"theme"`

	// Markdown enables glamour rendering of assistant replies.
	Markdown bool `toml:"markdown"`

	// SidebarWidth is the conversation sidebar width in columns.
	SidebarWidth int `toml:"sidebar_width"`
}

// HistoryConfig configures plain-mode input history.
type HistoryConfig struct {
	// Enabled persists the liner input history between sessions.
	Enabled bool `toml:"enabled"`
}

// envOverrides binds environment variables onto a loaded config.
// Environment always wins over the file.
type envOverrides struct {
	BaseURL        string `env:"MODPACK_SERVER_URL"`
	TimeoutSeconds int    `env:"MODPACK_TIMEOUT"`
	Theme          string `env:"MODPACK_THEME"`
	LogFile        string `env:"MODPACK_LOG_FILE"`
	Verbose        bool   `env:"MODPACK_VERBOSE"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 60,
		},
		UI: UIConfig{
			Theme:        "dark",
			Markdown:     true,
			SidebarWidth: 32,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Timeout returns the server timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the configuration directory (~/.modpack-tui).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".modpack-tui"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, fills defaults, applies environment
// overrides, and validates. A missing file is not an error; defaults are
// returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.fillDefaults()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values with defaults so a sparse config file
// still yields a usable config.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = def.Server.TimeoutSeconds
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = def.UI.SidebarWidth
	}
}

// ApplyEnvOverrides applies MODPACK_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	if overrides.BaseURL != "" {
		c.Server.BaseURL = overrides.BaseURL
	}
	if overrides.TimeoutSeconds > 0 {
		c.Server.TimeoutSeconds = overrides.TimeoutSeconds
	}
	if overrides.Theme != "" {
		c.UI.Theme = overrides.Theme
	}
	if overrides.LogFile != "" {
		c.LogFile = overrides.LogFile
	}
	if overrides.Verbose {
		c.Server.Verbose = true
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://, got %q", c.Server.BaseURL)
	}
	if c.Server.TimeoutSeconds < 1 || c.Server.TimeoutSeconds > 600 {
		return fmt.Errorf("server.timeout_seconds must be between 1 and 600, got %d", c.Server.TimeoutSeconds)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	if c.UI.SidebarWidth < 16 || c.UI.SidebarWidth > 80 {
		return fmt.Errorf("ui.sidebar_width must be between 16 and 80, got %d", c.UI.SidebarWidth)
	}
	return nil
}

// SaveTOML writes the config to the standard path with 0600 permissions.
func (c *Config) SaveTOML() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTOMLTo(path)
}

// SaveTOMLTo writes the config to an explicit path.
func (c *Config) SaveTOMLTo(path string) error {
	var sb strings.Builder
	sb.WriteString("# modpack-tui configuration\n")
	sb.WriteString("# Generated " + time.Now().Format("2006-01-02 15:04:05") + "\n\n")

	encoder := toml.NewEncoder(&sb)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// Global returns the process-wide config, loading it on first use. Load
// failures fall back to defaults so the client always starts.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the global config. Used by Watch on live reload.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global config so tests can reload.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
