/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/codec"
	"github.com/ssargent/octet/pkg/config"
	"github.com/ssargent/octet/pkg/di"
	"github.com/ssargent/octet/pkg/logging"
	"go.uber.org/zap"
)

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

func getContainer() *di.Container {
	if container == nil {
		container = di.NewContainer()
	}
	return container
}

type runtimeKey struct{}

// runtime is the state the root command prepares for every subcommand
type runtime struct {
	configPath string
	cfg        *config.Config
	random     *codec.Random
	logger     *zap.Logger
}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errors.New("command runtime not initialized")
	}
	return rt, nil
}

// newRootCmd builds the complete command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "octet",
		Short: "octet - byte and string codec toolkit",
		Long: `octet converts between text and bytes (UTF-8 and Latin-1), decodes
big-endian integers, and issues cryptographically secure random bytes.

Configuration is read from ~/.config/octet/config.yaml when present.`,
		SilenceUsage:      true,
		PersistentPreRunE: prepareRuntime,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt, err := runtimeFrom(cmd); err == nil {
				_ = rt.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the seed vault (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("mode", "", "Codec mode: modern or legacy (overrides config)")
	rootCmd.PersistentFlags().String("utf8", "", "UTF-8 strategy: auto, native, percent (overrides config)")

	rootCmd.AddCommand(
		newUTF8Cmd(),
		newLatin1Cmd(),
		newUint32Cmd(),
		newRandomCmd(),
		newSeedCmd(),
		newInitCmd(),
		newServeCmd(),
		newUpCmd(),
		newServiceCmd(),
	)

	return rootCmd
}

// prepareRuntime loads configuration, applies flag overrides, installs the
// codec defaults and builds the logger.
func prepareRuntime(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	applyOverrides(cmd, cfg)

	rt := &runtime{configPath: configPath}
	if err := rt.configure(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, rt))
	return nil
}

// applyOverrides copies explicitly set persistent flags onto cfg
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("mode") {
		cfg.Codec.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("utf8") {
		cfg.Codec.UTF8, _ = flags.GetString("utf8")
	}
}

// configure validates cfg and rebuilds the codec defaults and logger from it
func (rt *runtime) configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	random, err := cfg.ApplyCodec(getContainer().GetRandomProvider())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.random = random
	rt.logger = logger
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
