/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/config"
)

func newUpCmd() *cobra.Command {
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap and start the octet server",
		Long: `Bootstrap octet by creating a configuration with a generated API key if
none exists, then start the REST API server. This is the recommended way to
get octet running.

Examples:
  octet up
  octet up --data-dir ./mydata --port 9000
  octet up --config ./custom-config.yaml --print-keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			printKeys, _ := cmd.Flags().GetBool("print-keys")

			if config.ConfigExists(rt.configPath) {
				cmd.Printf("✅ Loaded existing configuration from %s\n", rt.configPath)
			} else {
				cmd.Printf("🔧 First run detected. Bootstrapping octet...\n")
				cfg, err := bootstrap(cmd, rt)
				if err != nil {
					return err
				}
				cmd.Printf("✅ Configuration created at %s\n", rt.configPath)
				if printKeys {
					cmd.Printf("\n🔑 API Key: %s\n", cfg.Security.APIKey)
					cmd.Printf("⚠️  Store this key securely! It is also saved in %s\n", rt.configPath)
				}
			}

			return runServer(cmd, rt)
		},
	}

	addServerFlags(upCmd)
	upCmd.Flags().Bool("print-keys", false, "Print the generated API key to console")

	return upCmd
}
