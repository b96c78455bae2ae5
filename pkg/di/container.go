// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/octet/pkg/api" //nolint:depguard
	"github.com/ssargent/octet/pkg/codec"
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory  api.ServerFactory
	vaultOpener    api.VaultOpener
	randomProvider codec.Provider
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory:  api.NewServerFactory(),
		vaultOpener:    api.NewVaultOpener(),
		randomProvider: codec.SystemProvider{},
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// GetVaultOpener returns the seed vault opener
func (c *Container) GetVaultOpener() api.VaultOpener {
	return c.vaultOpener
}

// SetVaultOpener allows overriding the vault opener (for testing)
func (c *Container) SetVaultOpener(opener api.VaultOpener) {
	c.vaultOpener = opener
}

// GetRandomProvider returns the provider random generators draw from
func (c *Container) GetRandomProvider() codec.Provider {
	return c.randomProvider
}

// SetRandomProvider allows overriding the random provider (for testing)
func (c *Container) SetRandomProvider(provider codec.Provider) {
	c.randomProvider = provider
}
