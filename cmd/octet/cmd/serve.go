/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/api"
	"github.com/ssargent/octet/pkg/config"
	"go.uber.org/zap"
)

// errNoAPIKey is returned when serving without a generated or explicit key
var errNoAPIKey = errors.New("no API key configured: run 'octet init', pass --api-key, or use --no-auth")

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	cmd.Flags().String("bind", "127.0.0.1", "Address to bind server to (overrides config)")
	cmd.Flags().String("api-key", "", "API key for client authentication (overrides config)")
	cmd.Flags().Bool("no-auth", false, "Disable API key authentication")
}

// serverConfig merges explicitly set server flags into cfg
func serverConfig(cmd *cobra.Command, cfg *config.Config) (api.ServerConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("bind") {
		cfg.Bind, _ = flags.GetString("bind")
	}
	if flags.Changed("api-key") {
		cfg.Security.APIKey, _ = flags.GetString("api-key")
	}
	if err := cfg.Validate(); err != nil {
		return api.ServerConfig{}, err
	}

	apiKey := cfg.Security.APIKey
	if noAuth, _ := flags.GetBool("no-auth"); noAuth {
		apiKey = ""
	} else if apiKey == "" || apiKey == "auto" {
		return api.ServerConfig{}, errNoAPIKey
	}

	return api.ServerConfig{
		Port:            cfg.Port,
		Bind:            cfg.Bind,
		APIKey:          apiKey,
		MaxRandomLength: cfg.Codec.MaxRandomLength,
	}, nil
}

// runServer opens the seed vault and serves the API until interrupted
func runServer(cmd *cobra.Command, rt *runtime) error {
	serverCfg, err := serverConfig(cmd, rt.cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(rt.cfg.DataDir, 0750); err != nil {
		return err
	}
	vault, err := openVault(rt)
	if err != nil {
		return err
	}
	defer func() {
		if err := vault.Close(); err != nil {
			rt.logger.Warn("failed to close seed vault", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("🚀 Starting octet server on %s:%d\n", serverCfg.Bind, serverCfg.Port)
	cmd.Printf("📁 Data directory: %s\n", rt.cfg.DataDir)

	starter := getContainer().GetServerFactory().CreateServerStarter()
	return starter.StartServer(ctx, serverCfg, vault, rt.random, rt.logger)
}

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the octet REST API server using the loaded configuration.

Examples:
  octet serve
  octet serve --port 9000 --api-key mysecretkey
  octet serve --mode legacy --utf8 percent --no-auth`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd, rt)
		},
	}

	addServerFlags(serveCmd)

	return serveCmd
}
