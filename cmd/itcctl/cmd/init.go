package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a config file with a generated API key",
	Long: `Creates a new YAML config file with a freshly generated API key,
unless one already exists at the target path.

Example:
  itcctl init --config=./itcclock.yaml --actor-label=replica-a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		actorLabel, _ := cmd.Flags().GetString("actor-label")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}

		cfg, err := config.BootstrapConfig(configPath, actorLabel)
		if err != nil {
			return fmt.Errorf("failed to bootstrap config: %w", err)
		}

		fmt.Printf("Wrote config to %s\n", configPath)
		fmt.Printf("Actor label: %s\n", cfg.ActorLabel)
		fmt.Printf("API key: %s\n", cfg.Security.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", config.GetDefaultConfigPath(), "Path to write the YAML config file")
	initCmd.Flags().String("actor-label", "", "Free-text label for this clock, returned by /health")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
