package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opencivic/civicwatch/internal/api"
	"github.com/opencivic/civicwatch/internal/app"
	"github.com/opencivic/civicwatch/internal/capture"
	"github.com/opencivic/civicwatch/internal/geo"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/realtime"
)

var (
	cfgFile   string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "civicwatch",
	Short: "CivicWatch - report and track local civic issues",
	Long: `civicwatch is a terminal client for a civic issue-reporting service.
It shows the public reports feed, streams live status updates, and files
new reports with location and audio attachments.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "",
		"Config file (default ~/.config/civicwatch/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "",
		"Server base URL (overrides the config file)",
	)
}

func runApp() error {
	path := cfgFile
	if path == "" {
		path = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}

	if err := setupLogging(cfg.LogFile); err != nil {
		return err
	}

	client := api.NewClient(cfg.Server.BaseURL)
	listener := realtime.NewListener(cfg.Server.ResolveEventsURL())
	locator := geo.NewHTTPLocator(cfg.Geo.ProviderURL, geo.Options{
		HighAccuracy: true,
		Timeout:      time.Duration(cfg.Geo.TimeoutSec) * time.Second,
		MaxAge:       time.Duration(cfg.Geo.MaxAgeSec) * time.Second,
	})
	recorder := capture.NewRecorder(capture.NewFFmpegDevice())

	m := app.New(cfg, client, listener, locator, recorder)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// setupLogging sends structured logs to a file; the terminal belongs to
// the UI.
func setupLogging(path string) error {
	if path == "" {
		path = filepath.Join(os.TempDir(), "civicwatch.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	log.SetHandler(json.New(f))
	log.SetLevel(log.InfoLevel)
	return nil
}
