package cliconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/readout/internal/arbiter"
	"github.com/bft-labs/readout/internal/clock"
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/fifo"
	"github.com/bft-labs/readout/internal/packet"
)

// Config holds CLI configuration for readout.
type Config struct {
	Channels   int
	QueueDepth int
	WordWidth  int

	WriteFreq string
	ReadFreq  string

	Policy   string
	MaxReads int

	DegradedMode      bool
	DegradedThreshold int

	PacketFormat    string
	MaxSegmentWords int

	// Input is a CSV file of sample rows. When empty, Rows synthetic rows
	// are generated from Seed.
	Input string
	Rows  int
	Seed  int64

	TraceOut  string
	FramesOut string
	ReportDir string

	LogLevel string
	Watch    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Channels:          4,
		QueueDepth:        256,
		WordWidth:         domain.MaxWordWidth,
		WriteFreq:         "20",
		ReadFreq:          "37.5",
		Policy:            arbiter.CongestionAware.String(),
		MaxReads:          arbiter.DefaultMaxReads,
		DegradedThreshold: fifo.AlmostFullMargin,
		PacketFormat:      packet.Fixed.String(),
		MaxSegmentWords:   packet.DefaultMaxSegmentWords,
		Rows:              1000,
		Seed:              1,
		LogLevel:          "info",
	}
}

// Validate checks the configuration and normalises names.
func (c *Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueDepth <= fifo.AlmostFullMargin {
		return fmt.Errorf("%w: queue-depth must exceed %d", domain.ErrInvalidConfig, fifo.AlmostFullMargin)
	}
	if c.WordWidth < 1 || c.WordWidth > domain.MaxWordWidth {
		return fmt.Errorf("%w: word-width must be in [1,%d]", domain.ErrInvalidConfig, domain.MaxWordWidth)
	}
	if _, err := clock.ParseFrequency(c.WriteFreq); err != nil {
		return fmt.Errorf("write-freq: %w", err)
	}
	if _, err := clock.ParseFrequency(c.ReadFreq); err != nil {
		return fmt.Errorf("read-freq: %w", err)
	}

	p, err := arbiter.ParsePolicy(c.Policy)
	if err != nil {
		return err
	}
	c.Policy = p.String()

	f, err := packet.ParseFormat(c.PacketFormat)
	if err != nil {
		return err
	}
	c.PacketFormat = f.String()

	if c.DegradedThreshold < 0 || c.DegradedThreshold >= c.QueueDepth {
		return fmt.Errorf("%w: degraded-threshold must be in [0,%d)", domain.ErrInvalidConfig, c.QueueDepth)
	}
	if c.Input == "" && c.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive when no input file is given", domain.ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log-level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// configSetter applies file and environment values underneath the flags the
// user gave explicitly. A flag name present in changed is never overwritten.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) pinned(flag string) bool { return s.changed[flag] }

// setValue copies v into dst unless v is the zero value.
func setValue[T comparable](s *configSetter, flag string, v T, dst *T) {
	var zero T
	if v == zero || s.pinned(flag) {
		return
	}
	*dst = v
}

// setPtr copies *v into dst when the key was present, so explicit zeros and
// negatives survive.
func setPtr[T any](s *configSetter, flag string, v *T, dst *T) {
	if v == nil || s.pinned(flag) {
		return
	}
	*dst = *v
}

// setParsed parses raw and stores it. An empty raw string means unset.
func setParsed[T any](s *configSetter, flag, raw string, parse func(string) (T, error), dst *T) error {
	if raw == "" || s.pinned(flag) {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = v
	return nil
}

func parseInt64(raw string) (int64, error) { return strconv.ParseInt(raw, 10, 64) }

// parseSwitch accepts "true" and "1"; anything else is false.
func parseSwitch(raw string) (bool, error) { return raw == "true" || raw == "1", nil }
