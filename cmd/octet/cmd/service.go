/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/config"
)

const (
	serviceName     = "octet.service"
	defaultUnitPath = "/etc/systemd/system/" + serviceName
)

func newServiceCmd() *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Run octet as a systemd service",
		Long: `Generate and install a systemd unit that runs 'octet up' with the
current configuration.`,
	}

	unitCmd := &cobra.Command{
		Use:   "unit",
		Short: "Print the systemd unit file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			user, _ := cmd.Flags().GetString("user")
			binary, _ := cmd.Flags().GetString("binary")

			cmd.Print(renderSystemdUnit(rt.cfg, rt.configPath, user, binary))
			return nil
		},
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install and enable the systemd unit",
		Long: `Install octet as a systemd service. A configuration with a generated
API key is created first if none exists.

Examples:
  sudo octet service install
  sudo octet service install --data-dir /var/lib/octet --user octet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			user, _ := cmd.Flags().GetString("user")
			binary, _ := cmd.Flags().GetString("binary")
			unitPath, _ := cmd.Flags().GetString("unit-path")
			startNow, _ := cmd.Flags().GetBool("start")

			if unitPath == defaultUnitPath && os.Geteuid() != 0 {
				return errors.New("service install requires root privileges (run with sudo)")
			}

			if !config.ConfigExists(rt.configPath) {
				if _, err := bootstrap(cmd, rt); err != nil {
					return err
				}
				cmd.Printf("✅ Created new configuration at %s\n", rt.configPath)
			}

			unit := renderSystemdUnit(rt.cfg, rt.configPath, user, binary)
			if err := os.WriteFile(unitPath, []byte(unit), 0600); err != nil {
				return fmt.Errorf("failed to write unit file: %w", err)
			}
			cmd.Printf("✅ Unit written to %s\n", unitPath)

			if unitPath != defaultUnitPath {
				return nil
			}
			if err := runSystemctlCommand("daemon-reload"); err != nil {
				return fmt.Errorf("failed to reload systemd: %w", err)
			}
			if err := runSystemctlCommand("enable", serviceName); err != nil {
				return fmt.Errorf("failed to enable service: %w", err)
			}
			if startNow {
				if err := runSystemctlCommand("start", serviceName); err != nil {
					return fmt.Errorf("failed to start service: %w", err)
				}
				cmd.Printf("✅ Service started\n")
			}
			cmd.Printf("To check status: sudo systemctl status %s\n", serviceName)
			return nil
		},
	}

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Disable and remove the systemd unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Geteuid() != 0 {
				return errors.New("service uninstall requires root privileges (run with sudo)")
			}

			_ = runSystemctlCommand("stop", serviceName)
			if err := runSystemctlCommand("disable", serviceName); err != nil {
				cmd.Printf("Warning: could not disable service: %v\n", err)
			}
			if err := os.Remove(defaultUnitPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove unit file: %w", err)
			}
			if err := runSystemctlCommand("daemon-reload"); err != nil {
				return fmt.Errorf("failed to reload systemd: %w", err)
			}

			cmd.Printf("✅ octet service uninstalled\n")
			cmd.Printf("Note: Configuration and data files were not removed\n")
			return nil
		},
	}

	for _, c := range []*cobra.Command{unitCmd, installCmd} {
		c.Flags().String("user", "octet", "User to run the service as")
		c.Flags().String("binary", "/usr/local/bin/octet", "Path to the octet binary")
	}
	installCmd.Flags().String("unit-path", defaultUnitPath, "Where to write the unit file")
	installCmd.Flags().Bool("start", true, "Start the service after installation")

	serviceCmd.AddCommand(unitCmd, installCmd, uninstallCmd)

	return serviceCmd
}

// renderSystemdUnit returns a unit file that runs 'octet up' as user
func renderSystemdUnit(cfg *config.Config, configPath, user, binary string) string {
	return fmt.Sprintf(`[Unit]
Description=octet codec server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=%s up --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, binary, configPath, cfg.DataDir, filepath.Dir(configPath))
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	c := exec.Command(command, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
