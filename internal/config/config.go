// Package config handles loading and managing mailtriage configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// BackendConfig holds triage-backend connection settings.
type BackendConfig struct {
	BaseURL        string   `toml:"base_url"`        // Backend API base URL
	RequestTimeout duration `toml:"request_timeout"` // Per-request timeout
}

// UIConfig holds terminal UI timing knobs.
type UIConfig struct {
	InitialFetchDelay duration `toml:"initial_fetch_delay"` // Delay before the first post-login fetch
	SyncRefreshDelay  duration `toml:"sync_refresh_delay"`  // Delay before the post-sync re-fetch
	ToastDuration     duration `toml:"toast_duration"`      // How long toasts stay visible
}

// ServerConfig holds demo backend settings.
type ServerConfig struct {
	BindAddr       string   `toml:"bind_addr"`       // Listen address (default 127.0.0.1)
	Port           int      `toml:"port"`            // Listen port (default 8000)
	CORSOrigins    []string `toml:"cors_origins"`    // Allowed CORS origins; empty disables CORS
	IngestSchedule string   `toml:"ingest_schedule"` // Cron expression for periodic synthetic ingest
}

// Config represents the mailtriage configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Server  ServerConfig  `toml:"server"`

	// Computed path (not from config file)
	HomeDir string `toml:"-"`
}

// duration wraps time.Duration so TOML values like "5s" decode directly.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// DefaultHome returns the default mailtriage home directory.
// Respects the MAILTRIAGE_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MAILTRIAGE_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mailtriage"
	}
	return filepath.Join(home, ".mailtriage")
}

// Load reads the configuration from the specified file.
// If path is empty, uses the default location (~/.mailtriage/config.toml).
// The file is optional; defaults apply when it is absent.
func Load(path string) (*Config, error) {
	homeDir := DefaultHome()

	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		Backend: BackendConfig{
			BaseURL:        "http://127.0.0.1:8000",
			RequestTimeout: duration(30 * time.Second),
		},
		UI: UIConfig{
			InitialFetchDelay: duration(1 * time.Second),
			SyncRefreshDelay:  duration(5 * time.Second),
			ToastDuration:     duration(3 * time.Second),
		},
		Server: ServerConfig{
			BindAddr: "127.0.0.1",
			Port:     8000,
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// RequestTimeout returns the backend request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeout)
}

// InitialFetchDelay returns the delay applied before the first directory
// fetch after login, giving a slow-starting backend time to initialize.
func (c *Config) InitialFetchDelay() time.Duration {
	return time.Duration(c.UI.InitialFetchDelay)
}

// SyncRefreshDelay returns the delay before the directory re-fetch that
// follows a sync trigger.
func (c *Config) SyncRefreshDelay() time.Duration {
	return time.Duration(c.UI.SyncRefreshDelay)
}

// ToastDuration returns how long a toast stays visible.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastDuration)
}

// ListenAddr returns the demo server's host:port listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddr, c.Server.Port)
}

// ConfigFilePath returns the path of the config file within HomeDir.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.HomeDir, "config.toml")
}
