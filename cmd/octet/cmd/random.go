/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/api"
)

// openVault opens the seed vault in the configured data directory
func openVault(rt *runtime) (api.ISeedVault, error) {
	vault, err := getContainer().GetVaultOpener().OpenVault(rt.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed vault in %s: %w", rt.cfg.DataDir, err)
	}
	return vault, nil
}

func newRandomCmd() *cobra.Command {
	randomCmd := &cobra.Command{
		Use:   "random <length>",
		Short: "Print cryptographically secure random bytes as hex",
		Long: `Print length cryptographically secure random bytes as hex.

With --save the bytes are also stored in the seed vault and the seed id is
printed on a second line.

Examples:
  octet random 32
  octet random 16 --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			save, _ := cmd.Flags().GetBool("save")

			length, err := strconv.Atoi(args[0])
			if err != nil || length < 0 {
				return fmt.Errorf("length must be a non-negative integer, got %q", args[0])
			}
			if limit := rt.cfg.Codec.MaxRandomLength; length > limit {
				return fmt.Errorf("length %d exceeds max_random_length %d", length, limit)
			}

			b := rt.random.Bytes(length)
			if b == nil {
				return errors.New("no random source available")
			}
			cmd.Println(hex.EncodeToString(b))

			if !save {
				return nil
			}
			vault, err := openVault(rt)
			if err != nil {
				return err
			}
			defer vault.Close()

			id, err := vault.Create(b)
			if err != nil {
				return err
			}
			cmd.Printf("id: %s\n", id)
			return nil
		},
	}

	randomCmd.Flags().Bool("save", false, "Store the bytes in the seed vault")

	return randomCmd
}
