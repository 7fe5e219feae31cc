// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for cohort.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.cohort/config.toml.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/morganforge/cohort-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete cohort client configuration.
type Config struct {
	// Environment selects the API endpoint set: "production" or "development".
	Environment string `toml:"environment"`

	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	UI      UIConfig      `toml:"ui"`
}

// APIConfig contains remote platform endpoint configuration.
type APIConfig struct {
	// BaseURL overrides the environment-derived API base URL when set.
	BaseURL string `toml:"base_url"`
	// MaxRetries bounds retry attempts for transient (5xx/429) failures.
	MaxRetries int `toml:"max_retries"`
}

// SessionConfig contains durable-session behavior.
type SessionConfig struct {
	// Dir overrides the session storage directory (default ~/.cohort/session).
	Dir string `toml:"dir"`
	// PollIntervalSecs is the token expiry check period. The check also
	// runs once immediately at startup.
	PollIntervalSecs int `toml:"poll_interval_secs"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// DownloadsDir is where fetched charts, CSVs, and consent forms land
	// (default ~/.cohort/downloads).
	DownloadsDir string `toml:"downloads_dir"`
	// CompactMode reduces vertical padding in list views.
	CompactMode bool `toml:"compact_mode"`
}

// Built-in endpoint defaults, mirroring the deployed platform layout.
const (
	productionBaseURL  = "https://app.cohort-platform.org/api/v1"
	developmentBaseURL = "http://localhost:8080/api/v1"

	defaultPollIntervalSecs = 60
	defaultMaxRetries       = 3
)

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Environment: "production",
		API: APIConfig{
			MaxRetries: defaultMaxRetries,
		},
		Session: SessionConfig{
			PollIntervalSecs: defaultPollIntervalSecs,
		},
	}
}

// ResolveBaseURL returns the API base URL the client should target:
// the explicit override when present, otherwise the environment default.
func (c *Config) ResolveBaseURL() string {
	if c.API.BaseURL != "" {
		return strings.TrimSuffix(c.API.BaseURL, "/")
	}
	if c.Environment == "development" {
		return developmentBaseURL
	}
	return productionBaseURL
}

// SessionDir returns the directory holding the durable session keys.
func (c *Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session"), nil
}

// DownloadsDir returns the directory for saved artifacts.
func (c *Config) DownloadsDir() (string, error) {
	if c.UI.DownloadsDir != "" {
		return c.UI.DownloadsDir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "downloads"), nil
}

// =============================================================================
// PATHS
// =============================================================================

// DataDir returns the cohort data directory (~/.cohort), creating nothing.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".cohort"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads configuration from disk, falling back to defaults when no
// file exists. Environment overrides are applied last, then validation.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to its TOML path atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var sb strings.Builder
	enc := toml.NewEncoder(&sb)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// DEFAULTS, OVERRIDES, VALIDATION
// =============================================================================

// SetDefaults fills zero-valued fields with built-in defaults.
func (c *Config) SetDefaults() {
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Session.PollIntervalSecs <= 0 {
		c.Session.PollIntervalSecs = defaultPollIntervalSecs
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = defaultMaxRetries
	}
}

// ApplyEnvOverrides applies environment variable overrides:
//
//	COHORT_ENV           -> Environment
//	COHORT_API_URL       -> API.BaseURL
//	COHORT_SESSION_DIR   -> Session.Dir
//	COHORT_POLL_INTERVAL -> Session.PollIntervalSecs
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COHORT_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("COHORT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("COHORT_SESSION_DIR"); v != "" {
		c.Session.Dir = v
	}
	if v := os.Getenv("COHORT_POLL_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Session.PollIntervalSecs = secs
		}
	}
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	if c.Environment != "production" && c.Environment != "development" {
		return fmt.Errorf("environment must be \"production\" or \"development\", got %q", c.Environment)
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api.base_url %q is not a valid http(s) URL", c.API.BaseURL)
		}
	}
	if c.Session.PollIntervalSecs <= 0 {
		return fmt.Errorf("session.poll_interval_secs must be positive, got %d", c.Session.PollIntervalSecs)
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
