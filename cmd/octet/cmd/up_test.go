package cmd

import (
	"testing"

	"github.com/ssargent/octet/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpCommand(t *testing.T) {
	cli := newTestCLI(t)

	t.Run("bootstrap on first run", func(t *testing.T) {
		out, err := cli.run("up", "--print-keys")
		require.NoError(t, err)
		assert.Contains(t, out, "First run detected")

		require.True(t, config.ConfigExists(cli.configPath))
		cfg, err := config.LoadConfig(cli.configPath)
		require.NoError(t, err)

		assert.Contains(t, out, cfg.Security.APIKey)
		require.Equal(t, 1, cli.starter.calls)
		assert.Equal(t, cfg.Security.APIKey, cli.starter.config.APIKey)
	})

	t.Run("load existing config", func(t *testing.T) {
		out, err := cli.run("up", "--port", "9001")
		require.NoError(t, err)
		assert.Contains(t, out, "Loaded existing configuration")
		require.Equal(t, 2, cli.starter.calls)
		assert.Equal(t, 9001, cli.starter.config.Port)
	})
}
