package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bft-labs/readout/internal/adapters/fs"
	"github.com/bft-labs/readout/internal/cliconfig"
	"github.com/bft-labs/readout/internal/samples"
	"github.com/bft-labs/readout/internal/watch"
	"github.com/bft-labs/readout/pkg/log"
	"github.com/bft-labs/readout/pkg/readout"
)

// libraryConfig converts the CLI config into the library config.
func libraryConfig(cfg cliconfig.Config) readout.Config {
	return readout.Config{
		Channels:          cfg.Channels,
		QueueDepth:        cfg.QueueDepth,
		WordWidth:         cfg.WordWidth,
		WriteFreq:         cfg.WriteFreq,
		ReadFreq:          cfg.ReadFreq,
		Policy:            cfg.Policy,
		MaxReads:          cfg.MaxReads,
		DegradedMode:      cfg.DegradedMode,
		DegradedThreshold: cfg.DegradedThreshold,
		Format:            cfg.PacketFormat,
		MaxSegmentWords:   cfg.MaxSegmentWords,
	}
}

// loadRows reads the input CSV or generates synthetic rows.
func loadRows(cfg cliconfig.Config) ([][]uint8, error) {
	if cfg.Input != "" {
		rows, err := samples.LoadCSV(cfg.Input, samples.Quantiser{})
		if err != nil {
			return nil, fmt.Errorf("load input: %w", err)
		}
		return rows, nil
	}
	return samples.Synthetic(samples.DefaultSynthetic(cfg.Rows, cfg.Channels, cfg.Seed))
}

func libraryOptions(cfg cliconfig.Config, logger zerolog.Logger) []readout.Option {
	opts := []readout.Option{readout.WithLogger(log.NewZerologAdapterWithLogger(logger))}
	if cfg.ReportDir != "" {
		opts = append(opts, readout.WithReportRepository(fs.NewReportFileRepository(cfg.ReportDir)))
	}
	return opts
}

// runOnce performs one simulation and writes the requested artifacts.
func runOnce(ctx context.Context, cfg cliconfig.Config, logger zerolog.Logger) error {
	logConfig(logger, cfg)

	rows, err := loadRows(cfg)
	if err != nil {
		return err
	}
	r, err := readout.New(libraryConfig(cfg), libraryOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	out, err := r.Run(ctx, rows)
	if err != nil {
		return err
	}

	if cfg.TraceOut != "" {
		if err := fs.SaveTrace(cfg.TraceOut, out.Trace); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
	}
	if cfg.FramesOut != "" {
		if err := fs.SaveFrames(cfg.FramesOut, out.Frames); err != nil {
			return fmt.Errorf("write frames: %w", err)
		}
	}

	rep := out.Report
	logger.Info().
		Str("run_id", rep.RunID).
		Str("policy", rep.Policy).
		Str("format", rep.Format).
		Int("rows", len(rows)).
		Float64("write_mhz", rep.WriteMHz).
		Float64("read_mhz", rep.ReadMHz).
		Int("pops", rep.Counters.Pops).
		Int("skips", rep.Counters.Skips).
		Int("idles", rep.Counters.Idles).
		Int("degraded", rep.Counters.Degraded).
		Ints("residual", rep.Residual).
		Ints("peak", rep.PeakOccupancy).
		Float64("packet_ratio", rep.Frames.Ratio).
		Dur("elapsed", rep.Duration()).
		Msg("run complete")
	return nil
}

// watchAndRun runs once, then reruns whenever the config file or input file
// changes. Each rerun reloads the config on top of base, which holds the
// defaults and flag values.
func watchAndRun(ctx context.Context, cmd *cobra.Command, base, cfg cliconfig.Config, cfgPath, cfgFile string, logger zerolog.Logger) error {
	if err := runOnce(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("run failed")
	}

	var paths []string
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	}
	if cfg.Input != "" {
		paths = append(paths, cfg.Input)
	}
	if len(paths) == 0 {
		return fmt.Errorf("--watch needs a config file or an input file")
	}

	w := watch.New(watch.DefaultConfig(), log.NewZerologAdapterWithLogger(logger), func(ctx context.Context) error {
		next := base
		if _, err := loadConfig(cmd, &next, cfgPath); err != nil {
			return err
		}
		logger.Info().Msg("change detected, rerunning")
		return runOnce(ctx, next, logger)
	})
	return w.Run(ctx, paths...)
}
