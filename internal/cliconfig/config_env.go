package cliconfig

import (
	"os"
	"strconv"
)

// ApplyEnvConfig overlays READOUT_* environment variables on cfg. Flags named
// in changed keep their command-line value. A malformed number is an error.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"channels", "READOUT_CHANNELS", &cfg.Channels},
		{"queue-depth", "READOUT_QUEUE_DEPTH", &cfg.QueueDepth},
		{"word-width", "READOUT_WORD_WIDTH", &cfg.WordWidth},
		{"max-reads", "READOUT_MAX_READS", &cfg.MaxReads},
		{"degraded-threshold", "READOUT_DEGRADED_THRESHOLD", &cfg.DegradedThreshold},
		{"max-segment-words", "READOUT_MAX_SEGMENT_WORDS", &cfg.MaxSegmentWords},
		{"rows", "READOUT_ROWS", &cfg.Rows},
	}
	for _, v := range ints {
		if err := setParsed(s, v.flag, os.Getenv(v.env), strconv.Atoi, v.dst); err != nil {
			return err
		}
	}
	if err := setParsed(s, "seed", os.Getenv("READOUT_SEED"), parseInt64, &cfg.Seed); err != nil {
		return err
	}

	setValue(s, "write-freq", os.Getenv("READOUT_WRITE_FREQ"), &cfg.WriteFreq)
	setValue(s, "read-freq", os.Getenv("READOUT_READ_FREQ"), &cfg.ReadFreq)
	setValue(s, "policy", os.Getenv("READOUT_POLICY"), &cfg.Policy)
	setValue(s, "format", os.Getenv("READOUT_PACKET_FORMAT"), &cfg.PacketFormat)
	setValue(s, "input", os.Getenv("READOUT_INPUT"), &cfg.Input)
	setValue(s, "trace-out", os.Getenv("READOUT_TRACE_OUT"), &cfg.TraceOut)
	setValue(s, "frames-out", os.Getenv("READOUT_FRAMES_OUT"), &cfg.FramesOut)
	setValue(s, "report-dir", os.Getenv("READOUT_REPORT_DIR"), &cfg.ReportDir)
	setValue(s, "log-level", os.Getenv("READOUT_LOG_LEVEL"), &cfg.LogLevel)

	if err := setParsed(s, "degraded", os.Getenv("READOUT_DEGRADED_MODE"), parseSwitch, &cfg.DegradedMode); err != nil {
		return err
	}
	if err := setParsed(s, "watch", os.Getenv("READOUT_WATCH"), parseSwitch, &cfg.Watch); err != nil {
		return err
	}

	return nil
}
