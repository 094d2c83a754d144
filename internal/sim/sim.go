// Package sim drives the readout data path: channels are produced into on the
// write clock and drained by one arbiter on the read clock, both derived from
// a common tick base. The run is single-threaded and deterministic.
package sim

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bft-labs/readout/internal/arbiter"
	"github.com/bft-labs/readout/internal/channel"
	"github.com/bft-labs/readout/internal/clock"
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/encoder"
	"github.com/bft-labs/readout/internal/fifo"
	"github.com/bft-labs/readout/internal/ports"
	"github.com/bft-labs/readout/pkg/log"
)

// EncoderFactory builds the encoder for a channel.
type EncoderFactory func(channel int) ports.Encoder

// Option configures a Simulation.
type Option func(*options)

type options struct {
	logger     ports.Logger
	sink       ports.EventSink
	newEncoder EncoderFactory
	runID      string
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l ports.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventSink forwards data-path events to sink.
func WithEventSink(sink ports.EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithEncoderFactory replaces the default Row5P encoder.
func WithEncoderFactory(f EncoderFactory) Option {
	return func(o *options) { o.newEncoder = f }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// Result is what a run produced.
type Result struct {
	RunID    string
	Trace    domain.Trace
	Counters domain.Counters

	// Occupancy holds each channel's free-space samples.
	Occupancy [][]int
	Drained   []int
	Residual  []int
	Peak      []int

	WriteInterval int64
	ReadInterval  int64

	// WriteMHz and ReadMHz are the configured clock frequencies.
	WriteMHz float64
	ReadMHz  float64
}

// Simulation owns the channels, the arbiter and the clock scheduler.
type Simulation struct {
	cfg       Config
	opts      options
	channels  []*channel.Channel
	arb       arbiter.Arbiter
	scheduler *clock.Scheduler
	sink      *loggingSink
	counters  domain.Counters
	width     int
}

// New builds a simulation from cfg.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:     log.Discard,
		newEncoder: func(int) ports.Encoder { return encoder.NewRow5P() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	s := &Simulation{cfg: cfg, opts: o}
	s.sink = &loggingSink{logger: o.logger, next: o.sink, counters: &s.counters}

	s.channels = make([]*channel.Channel, cfg.Channels)
	for i := range s.channels {
		q, err := fifo.New(cfg.QueueDepth, cfg.WordWidth)
		if err != nil {
			return nil, err
		}
		enc := o.newEncoder(i)
		if i == 0 {
			s.width = enc.Width()
		} else if enc.Width() != s.width {
			return nil, fmt.Errorf("%w: channel %d encoder width %d differs from %d", domain.ErrInvalidConfig, i, enc.Width(), s.width)
		}
		ch, err := channel.New(i, q, enc, channel.Options{
			DegradedMode:      cfg.DegradedMode,
			DegradedThreshold: cfg.DegradedThreshold,
			Sink:              s.sink,
		})
		if err != nil {
			return nil, err
		}
		s.channels[i] = ch
	}

	arb, err := arbiter.New(cfg.Policy, s.channels, arbiter.Options{MaxReads: cfg.MaxReads})
	if err != nil {
		return nil, err
	}
	s.arb = arb

	sched, err := clock.NewScheduler(cfg.WriteFreq, cfg.ReadFreq)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched
	return s, nil
}

// RowWidth is the number of samples one input row must carry.
func (s *Simulation) RowWidth() int { return s.width * len(s.channels) }

// RunID identifies the run.
func (s *Simulation) RunID() string { return s.opts.runID }

// Run feeds rows through the data path. Each write opportunity consumes one
// row, sliced across channels in ascending id order; each read opportunity
// performs one arbiter step. The run ends on the tick that produces the last
// row. Overflow and range errors abort the run. Every call starts from a
// reset state, so repeated runs over the same rows yield the same result.
func (s *Simulation) Run(ctx context.Context, rows [][]uint8) (Result, error) {
	if err := s.Reset(); err != nil {
		return Result{}, err
	}
	logger := s.opts.logger
	logger.Info("simulation starting",
		log.String("run_id", s.opts.runID),
		log.String("policy", s.cfg.Policy.String()),
		log.Int("channels", len(s.channels)),
		log.Int("rows", len(rows)),
		log.String("clock", s.scheduler.String()),
	)

	var trace domain.Trace
	produced := 0
	for produced < len(rows) {
		tick, write, read := s.scheduler.Next()
		s.counters.Ticks++

		if write && produced < len(rows) {
			if err := ctx.Err(); err != nil {
				return s.result(trace), err
			}
			if err := s.produce(rows[produced], produced); err != nil {
				return s.result(trace), fmt.Errorf("tick %d: %w", tick, err)
			}
			produced++
			s.counters.Writes++
		}

		if read {
			res, err := s.arb.Step(int(tick))
			if err != nil {
				return s.result(trace), err
			}
			switch res.Outcome {
			case arbiter.Popped:
				e := domain.Entry{ReadIndex: s.counters.Reads, Channel: res.Channel, Word: res.Word}
				if s.cfg.RecordTrace {
					trace = append(trace, e)
				}
				s.sink.OnPop(e)
			case arbiter.Skipped:
				s.sink.OnSkip(int(tick), res.Channel)
			case arbiter.Idle:
				s.sink.OnIdle(int(tick))
			}
			s.counters.Reads++
		}
	}

	r := s.result(trace)
	logger.Info("simulation finished",
		log.String("run_id", s.opts.runID),
		log.Int("ticks", r.Counters.Ticks),
		log.Int("pops", r.Counters.Pops),
		log.Int("skips", r.Counters.Skips),
		log.Int("idles", r.Counters.Idles),
		log.Int("degraded", r.Counters.Degraded),
		log.Ints("residual", r.Residual),
	)
	return r, nil
}

func (s *Simulation) produce(row []uint8, timestamp int) error {
	if len(row) != s.RowWidth() {
		return fmt.Errorf("row %d has %d samples, want %d: %w", timestamp, len(row), s.RowWidth(), domain.ErrRange)
	}
	for i, ch := range s.channels {
		if err := ch.ProduceAndEnqueue(row[i*s.width:(i+1)*s.width], timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) result(trace domain.Trace) Result {
	n := len(s.channels)
	r := Result{
		RunID:         s.opts.runID,
		Trace:         trace,
		Counters:      s.counters,
		Occupancy:     make([][]int, n),
		Drained:       make([]int, n),
		Residual:      make([]int, n),
		Peak:          make([]int, n),
		WriteInterval: s.scheduler.WriteInterval(),
		ReadInterval:  s.scheduler.ReadInterval(),
		WriteMHz:      s.cfg.WriteFreq.MHz(),
		ReadMHz:       s.cfg.ReadFreq.MHz(),
	}
	for i, ch := range s.channels {
		r.Occupancy[i] = ch.Occupancy()
		r.Residual[i] = ch.Queue().Len()
		r.Peak[i] = ch.Peak()
	}
	if s.cfg.RecordTrace {
		r.Drained = trace.PerChannel(n)
	}
	return r
}

// Reset returns every channel, the arbiter and the scheduler to their initial
// state so the same Simulation can be run again.
func (s *Simulation) Reset() error {
	for _, ch := range s.channels {
		ch.Reset()
	}
	arb, err := arbiter.New(s.cfg.Policy, s.channels, arbiter.Options{MaxReads: s.cfg.MaxReads})
	if err != nil {
		return err
	}
	s.arb = arb
	s.scheduler.Reset()
	s.counters = domain.Counters{}
	return nil
}
