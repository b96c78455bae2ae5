/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

func parseSeedID(arg string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(arg)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid seed id %q: %w", arg, err)
	}
	return id, nil
}

func newSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect seeds stored with 'octet random --save'",
	}

	seedCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseSeedID(args[0])
			if err != nil {
				return err
			}
			vault, err := openVault(rt)
			if err != nil {
				return err
			}
			defer vault.Close()

			record, err := vault.Read(id)
			if err != nil {
				return err
			}
			cmd.Println(hex.EncodeToString(record.Data))
			cmd.Printf("length: %d\n", len(record.Data))
			cmd.Printf("created: %s\n", record.CreatedAt().UTC().Format(time.RFC3339))
			return nil
		},
	})

	seedCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseSeedID(args[0])
			if err != nil {
				return err
			}
			vault, err := openVault(rt)
			if err != nil {
				return err
			}
			defer vault.Close()

			if err := vault.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted seed %s\n", id)
			return nil
		},
	})

	return seedCmd
}
