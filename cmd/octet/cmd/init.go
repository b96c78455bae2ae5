/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with a generated API key",
		Long: `Create a configuration file with default codec settings and a freshly
generated API key for the REST server.

Examples:
  octet init
  octet init --config ./octet.yaml --data-dir ./data --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(rt.configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", rt.configPath)
				return nil
			}

			cfg, err := bootstrap(cmd, rt)
			if err != nil {
				return err
			}

			cmd.Printf("✅ Configuration created at %s\n", rt.configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			cmd.Printf("\nYou can now start the server with:\n")
			cmd.Printf("  octet serve --config %s\n", rt.configPath)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")

	return initCmd
}

// bootstrap writes a new configuration, keeping codec and data-dir overrides
// given on the command line, and makes it the active runtime configuration.
func bootstrap(cmd *cobra.Command, rt *runtime) (*config.Config, error) {
	dataDir := ""
	if cmd.Flags().Changed("data-dir") {
		dataDir = rt.cfg.DataDir
	}

	cfg, err := config.BootstrapConfig(rt.configPath, dataDir)
	if err != nil {
		return nil, err
	}

	applyOverrides(cmd, cfg)
	if cmd.Flags().Changed("mode") || cmd.Flags().Changed("utf8") || cmd.Flags().Changed("log-level") {
		if err := config.SaveConfig(cfg, rt.configPath); err != nil {
			return nil, err
		}
	}

	if err := rt.configure(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
