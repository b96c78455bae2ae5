/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/octet/pkg/codec"
)

// decodeHexArg accepts hex with optional 0x prefix and whitespace
func decodeHexArg(arg string) ([]byte, error) {
	s := strings.Join(strings.Fields(arg), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", arg, err)
	}
	return b, nil
}

func newUTF8Cmd() *cobra.Command {
	utf8Cmd := &cobra.Command{
		Use:   "utf8",
		Short: "Convert between text and UTF-8 bytes",
	}

	utf8Cmd.AddCommand(&cobra.Command{
		Use:   "encode <text>",
		Short: "Print the UTF-8 bytes of text as hex",
		Long: `Print the UTF-8 bytes of text as hex.

Example:
  octet utf8 encode "héllo"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(hex.EncodeToString(codec.UTF8Encode(args[0])))
			return nil
		},
	})

	utf8Cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode hex-encoded UTF-8 bytes to text",
		Long: `Decode hex-encoded UTF-8 bytes to text. Malformed sequences are an error.

Example:
  octet utf8 decode 68c3a96c6c6f`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			text, err := codec.UTF8Decode(b)
			if err != nil {
				return err
			}
			cmd.Println(text)
			return nil
		},
	})

	return utf8Cmd
}

func newLatin1Cmd() *cobra.Command {
	latin1Cmd := &cobra.Command{
		Use:   "latin1",
		Short: "Convert between text and single-byte (Latin-1) sequences",
	}

	latin1Cmd.AddCommand(&cobra.Command{
		Use:   "encode <text>",
		Short: "Print one byte per character as hex",
		Long: `Print one byte per character as hex. Every character must be in U+0000..U+00FF.

Example:
  octet latin1 encode "café"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := codec.StringToBytes(args[0])
			if err != nil {
				return err
			}
			cmd.Println(hex.EncodeToString(b))
			return nil
		},
	})

	latin1Cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "Map each byte to the character with the same code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			cmd.Println(codec.BytesToString(b))
			return nil
		},
	})

	return latin1Cmd
}

func newUint32Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uint32 <hex>",
		Short: "Decode exactly four big-endian bytes as an unsigned integer",
		Long: `Decode exactly four big-endian bytes as an unsigned integer.

Example:
  octet uint32 01020304   # 16909060`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			v, err := codec.BytesToUint32(b)
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}
