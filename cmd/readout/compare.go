package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bft-labs/readout/internal/cliconfig"
	"github.com/bft-labs/readout/pkg/readout"
)

func newCompareCmd(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	var policies []string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the same rows under several arbitration policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}
			logger := cliconfig.Logger(cfg.LogLevel)
			logConfig(logger, *cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rows, err := loadRows(*cfg)
			if err != nil {
				return err
			}
			outs, err := readout.Compare(ctx, libraryConfig(*cfg), policies, rows, libraryOptions(*cfg, logger)...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "POLICY\tPOPS\tSKIPS\tIDLES\tDEGRADED\tRESIDUAL\tPEAK\tRATIO")
			for _, out := range outs {
				r := out.Report
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%.3f\n",
					r.Policy, r.Counters.Pops, r.Counters.Skips, r.Counters.Idles, r.Counters.Degraded,
					joinInts(r.Residual), joinInts(r.PeakOccupancy), r.Frames.Ratio)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&policies, "policies", nil, "policies to compare (default: all)")
	return cmd
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

