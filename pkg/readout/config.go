package readout

import (
	"fmt"

	"github.com/bft-labs/readout/internal/arbiter"
	"github.com/bft-labs/readout/internal/clock"
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/packet"
	"github.com/bft-labs/readout/internal/sim"
)

// Config holds the parameters of a readout simulation.
type Config struct {
	// Channels is the number of detector channels. Required.
	Channels int

	// QueueDepth is the per-channel queue capacity in words.
	// Default: 256
	QueueDepth int

	// WordWidth is the queue word width in bits, at most 16.
	// Default: 16
	WordWidth int

	// WriteFreq and ReadFreq are clock frequencies in MHz with at most one
	// decimal place, for example "20" or "37.5MHz".
	// Default: "20" and "37.5"
	WriteFreq string
	ReadFreq  string

	// Policy names the arbitration policy: rr, rr-skip, urgency or carr.
	// Default: "carr"
	Policy string

	// MaxReads caps consecutive reads from one channel under carr.
	// Default: 4
	MaxReads int

	// DegradedMode enables binarised encoding when a queue nears full.
	DegradedMode bool

	// DegradedThreshold is the free-space level at or below which degraded
	// encoding kicks in. Zero is a valid threshold.
	DegradedThreshold int

	// Format names the packet format: fixed or stuffed.
	// Default: "fixed"
	Format string

	// MaxSegmentWords caps fixed-format segments. Negative disables the cap.
	// Default: 32
	MaxSegmentWords int
}

// DefaultConfig returns a Config for four channels with every default set.
func DefaultConfig() Config {
	c := Config{Channels: 4, DegradedThreshold: 4}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	if c.QueueDepth == 0 {
		c.QueueDepth = 256
	}
	if c.WordWidth == 0 {
		c.WordWidth = domain.MaxWordWidth
	}
	if c.WriteFreq == "" {
		c.WriteFreq = "20"
	}
	if c.ReadFreq == "" {
		c.ReadFreq = "37.5"
	}
	if c.Policy == "" {
		c.Policy = arbiter.CongestionAware.String()
	}
	if c.MaxReads == 0 {
		c.MaxReads = arbiter.DefaultMaxReads
	}
	if c.Format == "" {
		c.Format = packet.Fixed.String()
	}
	if c.MaxSegmentWords == 0 {
		c.MaxSegmentWords = packet.DefaultMaxSegmentWords
	}
}

// Validate checks the configuration. It does not apply defaults.
func (c Config) Validate() error {
	_, _, err := c.resolve()
	return err
}

func (c Config) resolve() (sim.Config, packet.Format, error) {
	wf, err := clock.ParseFrequency(c.WriteFreq)
	if err != nil {
		return sim.Config{}, 0, fmt.Errorf("write frequency: %w", err)
	}
	rf, err := clock.ParseFrequency(c.ReadFreq)
	if err != nil {
		return sim.Config{}, 0, fmt.Errorf("read frequency: %w", err)
	}
	policy, err := arbiter.ParsePolicy(c.Policy)
	if err != nil {
		return sim.Config{}, 0, err
	}
	format, err := packet.ParseFormat(c.Format)
	if err != nil {
		return sim.Config{}, 0, err
	}
	if c.MaxReads < 1 {
		return sim.Config{}, 0, fmt.Errorf("%w: max reads must be positive, got %d", domain.ErrInvalidConfig, c.MaxReads)
	}

	sc := sim.Config{
		Channels:          c.Channels,
		QueueDepth:        c.QueueDepth,
		WordWidth:         c.WordWidth,
		WriteFreq:         wf,
		ReadFreq:          rf,
		Policy:            policy,
		MaxReads:          c.MaxReads,
		DegradedMode:      c.DegradedMode,
		DegradedThreshold: c.DegradedThreshold,
		RecordTrace:       true,
	}
	if err := sc.Validate(); err != nil {
		return sim.Config{}, 0, err
	}
	return sc, format, nil
}

// Policies returns the names of every arbitration policy.
func Policies() []string {
	names := make([]string, len(arbiter.Policies))
	for i, p := range arbiter.Policies {
		names[i] = p.String()
	}
	return names
}
