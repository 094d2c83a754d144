package samples

import (
	"fmt"
	"math/rand"

	"github.com/bft-labs/readout/internal/domain"
)

// SyntheticConfig shapes a generated hit pattern.
type SyntheticConfig struct {
	Rows     int
	Channels int
	// PixelsPerChannel is the number of samples each channel takes per row.
	PixelsPerChannel int
	Seed             int64

	// BaseRate is the per-pixel hit probability outside a burst.
	BaseRate float64
	// BurstRate is the per-pixel hit probability inside a burst.
	BurstRate float64
	// BurstEvery and BurstLen place a burst window of BurstLen rows every
	// BurstEvery rows. Channel c's window is shifted by c*BurstEvery/Channels
	// so bursts rotate across the detector.
	BurstEvery int
	BurstLen   int
}

// DefaultSynthetic returns a pattern that is mostly quiet with periodic
// bursts dense enough to back up a channel queue.
func DefaultSynthetic(rows, channels int, seed int64) SyntheticConfig {
	return SyntheticConfig{
		Rows:             rows,
		Channels:         channels,
		PixelsPerChannel: 5,
		Seed:             seed,
		BaseRate:         0.02,
		BurstRate:        0.6,
		BurstEvery:       200,
		BurstLen:         40,
	}
}

// Synthetic generates rows from cfg. The same cfg always yields the same rows.
func Synthetic(cfg SyntheticConfig) ([][]uint8, error) {
	if cfg.Rows < 0 || cfg.Channels <= 0 || cfg.PixelsPerChannel <= 0 {
		return nil, fmt.Errorf("%w: synthetic shape %dx%dx%d", domain.ErrInvalidConfig, cfg.Rows, cfg.Channels, cfg.PixelsPerChannel)
	}
	if cfg.BaseRate < 0 || cfg.BaseRate > 1 || cfg.BurstRate < 0 || cfg.BurstRate > 1 {
		return nil, fmt.Errorf("%w: hit rates must be in [0,1]", domain.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var q Quantiser
	width := cfg.Channels * cfg.PixelsPerChannel

	rows := make([][]uint8, cfg.Rows)
	for r := range rows {
		row := make([]uint8, width)
		for c := 0; c < cfg.Channels; c++ {
			rate := cfg.BaseRate
			if inBurst(cfg, r, c) {
				rate = cfg.BurstRate
			}
			for p := 0; p < cfg.PixelsPerChannel; p++ {
				if rng.Float64() < rate {
					// hits land in the upper half of the intensity range
					row[c*cfg.PixelsPerChannel+p] = q.Quantise(0.5 + rng.Float64()/2)
				}
			}
		}
		rows[r] = row
	}
	return rows, nil
}

func inBurst(cfg SyntheticConfig, row, channel int) bool {
	if cfg.BurstEvery <= 0 || cfg.BurstLen <= 0 {
		return false
	}
	shift := channel * cfg.BurstEvery / cfg.Channels
	return (row+cfg.BurstEvery-shift%cfg.BurstEvery)%cfg.BurstEvery < cfg.BurstLen
}
