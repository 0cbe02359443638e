package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
	assert.Equal(t, 10, cfg.Notifications.FeedTTLSec)
	assert.Equal(t, 5, cfg.Notifications.ToastTTLSec)
	assert.Equal(t, 100, cfg.Notifications.MaxVisible)
	assert.Equal(t, 10, cfg.Reports.PageSize)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  base_url: https://issues.example.org\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://issues.example.org", cfg.Server.BaseURL)
	assert.Equal(t, 10, cfg.Reports.PageSize, "unset keys fall back to defaults")
}

func TestSaveConfig_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Server.BaseURL = "https://city.example.org"
	cfg.Geo.ProviderURL = "https://geo.example.org/position"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://city.example.org", loaded.Server.BaseURL)
	assert.Equal(t, "https://geo.example.org/position", loaded.Geo.ProviderURL)
}

func TestResolveEventsURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:3000/events",
		ServerConfig{BaseURL: "http://localhost:3000"}.ResolveEventsURL())
	assert.Equal(t, "wss://city.example.org/events",
		ServerConfig{BaseURL: "https://city.example.org/"}.ResolveEventsURL())
	assert.Equal(t, "wss://push.example.org/live",
		ServerConfig{
			BaseURL:   "http://localhost:3000",
			EventsURL: "wss://push.example.org/live",
		}.ResolveEventsURL())
}
