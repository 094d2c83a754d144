package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/readout/internal/adapters/fs"
	"github.com/bft-labs/readout/pkg/readout"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode FRAMES",
		Short: "Print the trace recovered from a stuffed-format frames file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := fs.LoadFrames(args[0])
			if err != nil {
				return fmt.Errorf("read frames: %w", err)
			}
			trace, err := readout.DecodeStuffed(words)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return fs.WriteTrace(cmd.OutOrStdout(), trace)
		},
	}
}
