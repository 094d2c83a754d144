// Package readout is a convenience entry point to the readout simulator.
//
// Example usage:
//
//	cfg := readout.DefaultConfig()
//	cfg.Policy = "urgency"
//	out, err := readout.Simulate(context.Background(), cfg, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Embedders that need options should use github.com/bft-labs/readout/pkg/readout.
package readout

import (
	"context"

	"github.com/bft-labs/readout/pkg/readout"
)

// Config holds the simulation parameters.
type Config = readout.Config

// Output is everything a run produced.
type Output = readout.Output

// DefaultConfig returns a four-channel Config with defaults applied.
func DefaultConfig() Config {
	return readout.DefaultConfig()
}

// Simulate runs rows through a fresh simulator built from cfg.
func Simulate(ctx context.Context, cfg Config, rows [][]uint8) (*Output, error) {
	r, err := readout.New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, rows)
}
