package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencivic/civicwatch/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		cfg, err := model.LoadConfig(path)
		if err != nil {
			return err
		}

		fmt.Printf("config file:  %s\n", path)
		fmt.Printf("server:       %s\n", cfg.Server.BaseURL)
		fmt.Printf("events:       %s\n", cfg.Server.ResolveEventsURL())
		fmt.Printf("geo provider: %s\n", cfg.Geo.ProviderURL)
		fmt.Printf("log file:     %s\n", cfg.LogFile)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		cfg, err := model.LoadConfig(path)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.Server.BaseURL = serverURL
		}

		if err := model.SaveConfig(path, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return model.DefaultConfigPath()
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
