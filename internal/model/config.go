package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds how to reach the issue-reporting backend.
type ServerConfig struct {
	// BaseURL is the root URL of the REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// EventsURL is the realtime push endpoint. When empty it is derived
	// from BaseURL by swapping the scheme to ws(s) and appending /events.
	EventsURL string `mapstructure:"events_url" yaml:"events_url"`
}

// NotificationsConfig tunes the notification feed and toast.
type NotificationsConfig struct {
	// FeedTTLSec is how long an entry stays in the feed before expiring.
	FeedTTLSec int `mapstructure:"feed_ttl_sec" yaml:"feed_ttl_sec"`

	// ToastTTLSec is how long the toast stays visible.
	ToastTTLSec int `mapstructure:"toast_ttl_sec" yaml:"toast_ttl_sec"`

	// MaxVisible caps the feed length. Zero means unbounded.
	MaxVisible int `mapstructure:"max_visible" yaml:"max_visible"`
}

// ReportsConfig tunes the public reports view.
type ReportsConfig struct {
	// PageSize is the number of reports shown, applied client-side after
	// the fetch regardless of how many the server returns.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// GeoConfig holds geolocation provider settings.
type GeoConfig struct {
	// ProviderURL is the single-shot position lookup endpoint.
	ProviderURL string `mapstructure:"provider_url" yaml:"provider_url"`

	// TimeoutSec bounds a single position query.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxAgeSec is how long a cached position may be reused.
	MaxAgeSec int `mapstructure:"max_age_sec" yaml:"max_age_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Reports       ReportsConfig       `mapstructure:"reports" yaml:"reports"`
	Geo           GeoConfig           `mapstructure:"geo" yaml:"geo"`

	// LogFile is where structured logs are written; the terminal belongs
	// to the UI.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// ResolveEventsURL returns the realtime endpoint, deriving it from the base
// URL when not configured explicitly.
func (c ServerConfig) ResolveEventsURL() string {
	if c.EventsURL != "" {
		return c.EventsURL
	}
	u := c.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return strings.TrimRight(u, "/") + "/events"
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/civicwatch/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "civicwatch", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL: "http://localhost:3000",
		},
		Notifications: NotificationsConfig{
			FeedTTLSec:  10,
			ToastTTLSec: 5,
			MaxVisible:  100,
		},
		Reports: ReportsConfig{
			PageSize: 10,
		},
		Geo: GeoConfig{
			TimeoutSec: 10,
			MaxAgeSec:  60,
		},
		LogFile: filepath.Join(os.TempDir(), "civicwatch.log"),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("notifications.feed_ttl_sec", 10)
	v.SetDefault("notifications.toast_ttl_sec", 5)
	v.SetDefault("notifications.max_visible", 100)
	v.SetDefault("reports.page_size", 10)
	v.SetDefault("geo.timeout_sec", 10)
	v.SetDefault("geo.max_age_sec", 60)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("notifications", cfg.Notifications)
	v.Set("reports", cfg.Reports)
	v.Set("geo", cfg.Geo)
	v.Set("log_file", cfg.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
