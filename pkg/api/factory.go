// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/octet/pkg/storage"
	"go.uber.org/zap"
)

// DefaultVaultOpener opens a pebble-backed seed vault in <dataDir>/seeds
type DefaultVaultOpener struct{}

// NewVaultOpener creates a new vault opener
func NewVaultOpener() VaultOpener {
	return &DefaultVaultOpener{}
}

// OpenVault opens the seed vault
func (o *DefaultVaultOpener) OpenVault(dataDir string) (ISeedVault, error) {
	return storage.NewSeedVault(filepath.Join(dataDir, "seeds"))
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with its own metrics registry
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	config ServerConfig,
	vault ISeedVault,
	random RandomSource,
	logger *zap.Logger,
) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return StartServer(ctx, vault, random, config, registry, logger)
}
