package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/clockapi"
	"github.com/ssargent/itcclock/pkg/config"
	"github.com/ssargent/itcclock/pkg/itc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the held clock over HTTP",
	Long: `Loads the clock held in the state file (seeding and saving a fresh
one if the state file is missing or cannot be read) and serves it over HTTP: fork/event/join/sync/peek
and the companion map's set/diff/apply.

Example:
  itcctl serve --state=./replica-a.state --config=./itcclock.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statePath, _ := cmd.Flags().GetString("state")
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")
		apiKey, _ := cmd.Flags().GetString("api-key")

		cfg, err := resolveServeConfig(configPath, apiKey)
		if err != nil {
			return err
		}

		pair, err := loadOrSeedState(statePath)
		if err != nil {
			return err
		}

		factory := container.GetClockServiceFactory()
		service, err := factory.CreateClockService(cfg.ActorLabel)
		if err != nil {
			return fmt.Errorf("failed to create clock service: %w", err)
		}
		service.LoadPair(pair)

		if port == 0 {
			port = 8080
		}
		serverCfg := clockapi.ServerConfig{
			Port:       port,
			APIKey:     cfg.Security.APIKey,
			ActorLabel: cfg.ActorLabel,
		}

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(service, serverCfg)
	},
}

func loadOrSeedState(path string) (itc.ItcPair, error) {
	pair, err := loadState(path)
	if err == nil {
		return pair, nil
	}

	fmt.Printf("No existing state at %s, seeding a new clock\n", path)
	pair = itc.Seed()
	if saveErr := saveState(path, pair); saveErr != nil {
		return itc.ItcPair{}, saveErr
	}
	return pair, nil
}

func resolveServeConfig(configPath, apiKeyOverride string) (*config.Config, error) {
	var cfg *config.Config
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if apiKeyOverride != "" {
		cfg.Security.APIKey = apiKeyOverride
	}
	if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
		return nil, fmt.Errorf("no API key configured: pass --api-key or bootstrap a config file first")
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", config.GetDefaultConfigPath(), "Path to the YAML config file")
	serveCmd.Flags().Int("port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
}
