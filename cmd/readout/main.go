package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/readout/internal/cliconfig"
	"github.com/bft-labs/readout/internal/domain"
)

const helpDescription = `
Simulate a multi-channel detector readout.

Rows of 3-bit pixel samples are encoded into per-channel queues on the write
clock, one arbiter drains them on the read clock, and the drained words are
framed into a 16-bit stream.

Highlights:
  - Four arbitration policies: rr, rr-skip, urgency and carr.
  - Optional degraded encoding when a queue nears full.
  - Fixed-length or word-stuffed framing with compression ratio reporting.
  - Configure via file (TOML or YAML), READOUT_* env vars, or flags.
`

var exampleUsage = strings.TrimSpace(`
  readout --channels 8 --policy urgency --rows 5000
  readout --input rows.csv --format stuffed --frames-out frames.bin --trace-out trace.txt
  readout compare --rows 20000 --degraded
  readout decode frames.bin
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "readout",
		Short:         "Simulate a multi-channel detector readout",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := cfg
			file, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			log := cliconfig.Logger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !cfg.Watch {
				return runOnce(ctx, cfg, log)
			}
			return watchAndRun(ctx, cmd, base, cfg, cfgPath, file, log)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfgPath, "config", "", "path to config file, TOML or YAML (default: $HOME/.readout/config.toml)")
	f.IntVar(&cfg.Channels, "channels", cfg.Channels, "number of detector channels")
	f.IntVar(&cfg.QueueDepth, "queue-depth", cfg.QueueDepth, "per-channel queue capacity in words")
	f.IntVar(&cfg.WordWidth, "word-width", cfg.WordWidth, "queue word width in bits")
	f.StringVar(&cfg.WriteFreq, "write-freq", cfg.WriteFreq, "write clock in MHz, one decimal place")
	f.StringVar(&cfg.ReadFreq, "read-freq", cfg.ReadFreq, "read clock in MHz, one decimal place")
	f.StringVar(&cfg.Policy, "policy", cfg.Policy, "arbitration policy: rr, rr-skip, urgency, carr")
	f.IntVar(&cfg.MaxReads, "max-reads", cfg.MaxReads, "carr burst cap per channel")
	f.BoolVar(&cfg.DegradedMode, "degraded", cfg.DegradedMode, "binarise rows when a queue nears full")
	f.IntVar(&cfg.DegradedThreshold, "degraded-threshold", cfg.DegradedThreshold, "free-space level that triggers degraded encoding")
	f.StringVar(&cfg.PacketFormat, "format", cfg.PacketFormat, "packet format: fixed or stuffed")
	f.IntVar(&cfg.MaxSegmentWords, "max-segment-words", cfg.MaxSegmentWords, "fixed-format segment cap, negative disables")
	f.StringVar(&cfg.Input, "input", cfg.Input, "CSV file of sample rows (default: synthetic rows)")
	f.IntVar(&cfg.Rows, "rows", cfg.Rows, "number of synthetic rows")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "synthetic row seed")
	f.StringVar(&cfg.TraceOut, "trace-out", cfg.TraceOut, "write the drain trace to this file")
	f.StringVar(&cfg.FramesOut, "frames-out", cfg.FramesOut, "write the framed stream to this file")
	f.StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "save a JSON run report in this directory")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "rerun when the config or input file changes")

	root.AddCommand(newCompareCmd(&cfg, &cfgPath), newDecodeCmd())

	if err := root.Execute(); err != nil {
		log := cliconfig.Logger(cfg.LogLevel)
		log.Error().Err(err).Msg("readout")
		if errors.Is(err, domain.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// loadConfig layers the config file and READOUT_* env vars under any flags
// set on cmd, validates the result and returns the config file used.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (string, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return "", fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return "", err
		}
	} else if cfgPath != "" {
		return "", fmt.Errorf("%w: config file %s not found", domain.ErrInvalidConfig, cfgPath)
	} else {
		cfgFile = ""
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return cfgFile, nil
}

func logConfig(log zerolog.Logger, cfg cliconfig.Config) {
	log.Debug().Interface("config", cfg).Msg("configuration")
}
