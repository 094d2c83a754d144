package readout

import (
	"time"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/ports"
	"github.com/bft-labs/readout/pkg/log"
)

// Re-export types so callers need not import internal packages.
type (
	// Logger is the structured logger interface from pkg/log.
	Logger = log.Logger

	// Word is one queue word.
	Word = domain.Word

	// Entry is one drained word with its read index and channel.
	Entry = domain.Entry

	// Trace is the ordered drain trace of a run.
	Trace = domain.Trace

	// Report summarises a run.
	Report = domain.Report

	// EventSink receives data-path events as they happen.
	EventSink = ports.EventSink

	// ReportRepository persists reports.
	ReportRepository = ports.ReportRepository
)

// Option configures optional behavior of Readout.
type Option func(*options)

type options struct {
	logger  ports.Logger
	sink    ports.EventSink
	reports ports.ReportRepository
	runID   string
	now     func() time.Time
}

func defaultOptions() options {
	return options{
		logger: log.Discard,
		now:    time.Now,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventSink forwards every degraded, pop, skip and idle event to sink.
// Events are delivered synchronously from the simulation loop. A sink shared
// by Compare is called from several goroutines.
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithReportRepository saves every run's report to repo.
func WithReportRepository(repo ReportRepository) Option {
	return func(o *options) {
		o.reports = repo
	}
}

// WithRunID fixes the run id instead of generating a random one.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithClock replaces the wall clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
