package sim

import (
	"fmt"

	"github.com/bft-labs/readout/internal/arbiter"
	"github.com/bft-labs/readout/internal/channel"
	"github.com/bft-labs/readout/internal/clock"
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/fifo"
)

// Config fixes the shape of one simulation run. Nothing here changes while
// the run is in progress.
type Config struct {
	Channels   int
	QueueDepth int
	WordWidth  int

	WriteFreq clock.Frequency
	ReadFreq  clock.Frequency

	Policy   arbiter.Policy
	MaxReads int

	DegradedMode      bool
	DegradedThreshold int

	// RecordTrace keeps the drain trace in the result.
	RecordTrace bool
}

// DefaultConfig mirrors the reference 16-bit, 256-deep readout running a
// 20 MHz write clock against a 37.5 MHz read clock.
func DefaultConfig() Config {
	return Config{
		Channels:          4,
		QueueDepth:        256,
		WordWidth:         domain.MaxWordWidth,
		WriteFreq:         clock.FrequencyFromMHz(20),
		ReadFreq:          clock.FrequencyFromMHz(37.5),
		Policy:            arbiter.CongestionAware,
		MaxReads:          arbiter.DefaultMaxReads,
		DegradedThreshold: channel.DefaultDegradedThreshold,
		RecordTrace:       true,
	}
}

// Validate checks the configuration and fails fast on impossible shapes.
func (c Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channel count must be positive, got %d", domain.ErrInvalidConfig, c.Channels)
	}
	if c.QueueDepth <= fifo.AlmostFullMargin {
		return fmt.Errorf("%w: queue depth must exceed %d, got %d", domain.ErrInvalidConfig, fifo.AlmostFullMargin, c.QueueDepth)
	}
	if c.WordWidth < 1 || c.WordWidth > domain.MaxWordWidth {
		return fmt.Errorf("%w: word width must be in [1,%d], got %d", domain.ErrInvalidConfig, domain.MaxWordWidth, c.WordWidth)
	}
	if c.WriteFreq <= 0 || c.ReadFreq <= 0 {
		return fmt.Errorf("%w: frequencies must be positive", domain.ErrInvalidConfig)
	}
	if c.Policy == arbiter.CongestionAware && c.MaxReads < 0 {
		return fmt.Errorf("%w: max reads must be positive, got %d", domain.ErrInvalidConfig, c.MaxReads)
	}
	if c.DegradedThreshold < 0 || c.DegradedThreshold >= c.QueueDepth {
		return fmt.Errorf("%w: degraded threshold %d outside [0,%d)", domain.ErrInvalidConfig, c.DegradedThreshold, c.QueueDepth)
	}
	return nil
}
