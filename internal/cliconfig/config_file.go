package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config with pointer fields where zero is meaningful.
// The same struct is decoded from TOML or YAML.
type FileConfig struct {
	Channels          int    `toml:"channels" yaml:"channels"`
	QueueDepth        int    `toml:"queue_depth" yaml:"queue_depth"`
	WordWidth         int    `toml:"word_width" yaml:"word_width"`
	WriteFreq         string `toml:"write_freq" yaml:"write_freq"`
	ReadFreq          string `toml:"read_freq" yaml:"read_freq"`
	Policy            string `toml:"policy" yaml:"policy"`
	MaxReads          int    `toml:"max_reads" yaml:"max_reads"`
	DegradedMode      *bool  `toml:"degraded_mode" yaml:"degraded_mode"`
	DegradedThreshold *int   `toml:"degraded_threshold" yaml:"degraded_threshold"`
	PacketFormat      string `toml:"packet_format" yaml:"packet_format"`
	MaxSegmentWords   *int   `toml:"max_segment_words" yaml:"max_segment_words"`
	Input             string `toml:"input" yaml:"input"`
	Rows              int    `toml:"rows" yaml:"rows"`
	Seed              *int64 `toml:"seed" yaml:"seed"`
	TraceOut          string `toml:"trace_out" yaml:"trace_out"`
	FramesOut         string `toml:"frames_out" yaml:"frames_out"`
	ReportDir         string `toml:"report_dir" yaml:"report_dir"`
	LogLevel          string `toml:"log_level" yaml:"log_level"`
	Watch             *bool  `toml:"watch" yaml:"watch"`
}

// LoadFileConfig reads and parses a config file. Files ending in .yaml or
// .yml are decoded as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.readout/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".readout", "config.toml")
	}
	return ""
}

// ApplyFileConfig overlays the keys present in fc on cfg, leaving flags named
// in changed untouched.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	setValue(s, "channels", fc.Channels, &cfg.Channels)
	setValue(s, "queue-depth", fc.QueueDepth, &cfg.QueueDepth)
	setValue(s, "word-width", fc.WordWidth, &cfg.WordWidth)
	setValue(s, "write-freq", fc.WriteFreq, &cfg.WriteFreq)
	setValue(s, "read-freq", fc.ReadFreq, &cfg.ReadFreq)
	setValue(s, "policy", fc.Policy, &cfg.Policy)
	setValue(s, "max-reads", fc.MaxReads, &cfg.MaxReads)
	setPtr(s, "degraded", fc.DegradedMode, &cfg.DegradedMode)
	setPtr(s, "degraded-threshold", fc.DegradedThreshold, &cfg.DegradedThreshold)
	setValue(s, "format", fc.PacketFormat, &cfg.PacketFormat)
	setPtr(s, "max-segment-words", fc.MaxSegmentWords, &cfg.MaxSegmentWords)
	setValue(s, "input", fc.Input, &cfg.Input)
	setValue(s, "rows", fc.Rows, &cfg.Rows)
	setPtr(s, "seed", fc.Seed, &cfg.Seed)
	setValue(s, "trace-out", fc.TraceOut, &cfg.TraceOut)
	setValue(s, "frames-out", fc.FramesOut, &cfg.FramesOut)
	setValue(s, "report-dir", fc.ReportDir, &cfg.ReportDir)
	setValue(s, "log-level", fc.LogLevel, &cfg.LogLevel)
	setPtr(s, "watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
