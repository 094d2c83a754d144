package readout

import (
	"context"
	"fmt"

	"github.com/bft-labs/readout/internal/packet"
	"github.com/bft-labs/readout/internal/sim"
	"github.com/bft-labs/readout/pkg/log"
)

// Readout runs a configured simulation and frames its output.
type Readout struct {
	config Config
	opts   options
	sim    *sim.Simulation
	pkt    packet.Packetiser
}

// Output is everything one run produced.
type Output struct {
	Report Report
	Trace  Trace
	// Frames is the framed word stream.
	Frames []uint16
	// ReportPath is set when a report repository saved the report.
	ReportPath string
}

// New creates a Readout. Zero-valued fields of cfg take their defaults.
func New(cfg Config, opts ...Option) (*Readout, error) {
	cfg.SetDefaults()
	simCfg, format, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	cfg.Policy = simCfg.Policy.String()
	cfg.Format = format.String()

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	simOpts := []sim.Option{sim.WithLogger(o.logger)}
	if o.sink != nil {
		simOpts = append(simOpts, sim.WithEventSink(o.sink))
	}
	if o.runID != "" {
		simOpts = append(simOpts, sim.WithRunID(o.runID))
	}
	s, err := sim.New(simCfg, simOpts...)
	if err != nil {
		return nil, err
	}

	pkt, err := packet.New(format, packet.Options{
		WordWidth:       cfg.WordWidth,
		MaxSegmentWords: cfg.MaxSegmentWords,
		Logger:          o.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Readout{config: cfg, opts: o, sim: s, pkt: pkt}, nil
}

// Config returns the configuration with defaults applied.
func (r *Readout) Config() Config { return r.config }

// RunID identifies this instance's runs.
func (r *Readout) RunID() string { return r.sim.RunID() }

// RowWidth is the number of samples each input row must carry.
func (r *Readout) RowWidth() int { return r.sim.RowWidth() }

// Run simulates rows, frames the drain trace and builds the report. Running
// again with the same rows produces the same trace and frames.
func (r *Readout) Run(ctx context.Context, rows [][]uint8) (*Output, error) {
	started := r.opts.now()

	res, err := r.sim.Run(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	frames, err := r.pkt.Build(res.Trace)
	if err != nil {
		return nil, fmt.Errorf("packetise: %w", err)
	}
	stats := r.pkt.Stats()

	out := &Output{
		Trace:  res.Trace,
		Frames: frames,
		Report: Report{
			RunID:         res.RunID,
			Policy:        r.config.Policy,
			Format:        r.pkt.Format().String(),
			Channels:      r.config.Channels,
			QueueDepth:    r.config.QueueDepth,
			WriteInterval: int(res.WriteInterval),
			ReadInterval:  int(res.ReadInterval),
			WriteMHz:      res.WriteMHz,
			ReadMHz:       res.ReadMHz,
			Counters:      res.Counters,
			Drained:       res.Drained,
			Residual:      res.Residual,
			PeakOccupancy: res.Peak,
			Frames:        stats,
			StartedAt:     started,
			FinishedAt:    r.opts.now(),
		},
	}

	if r.opts.reports != nil {
		path, err := r.opts.reports.Save(ctx, out.Report)
		if err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
		out.ReportPath = path
		r.opts.logger.Info("report saved", log.String("path", path))
	}
	return out, nil
}

// DecodeStuffed recovers the channel-tagged words from a stuffed-format
// stream. The read index of each entry is its position in the stream.
func DecodeStuffed(frames []uint16) (Trace, error) {
	return packet.DecodeStuffed(frames)
}

// CheckFrames reports an error when the report's frame headers and enders
// do not balance.
func CheckFrames(r Report) error {
	return packet.CheckStructure(r.Frames)
}
