package domain

import "time"

// Report summarises one simulation run. It is persisted as JSON after the
// run completes and is the input to offline comparison of policies.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Policy is the arbitration policy name.
	Policy string `json:"policy"`

	// Format is the packetiser format name.
	Format string `json:"format"`

	// Channels is the number of channels simulated.
	Channels int `json:"channels"`

	// QueueDepth is the per-channel queue capacity in words.
	QueueDepth int `json:"queue_depth"`

	// WriteInterval and ReadInterval are the tick divisors of the two clocks.
	WriteInterval int `json:"write_interval"`
	ReadInterval  int `json:"read_interval"`

	// WriteMHz and ReadMHz are the clock frequencies the intervals derive from.
	WriteMHz float64 `json:"write_mhz"`
	ReadMHz  float64 `json:"read_mhz"`

	// Counters collected by the simulation loop.
	Counters Counters `json:"counters"`

	// Drained holds the number of words drained per channel.
	Drained []int `json:"drained"`

	// Residual holds the words left in each queue when the run ended.
	Residual []int `json:"residual"`

	// PeakOccupancy holds the highest queue occupancy seen per channel.
	PeakOccupancy []int `json:"peak_occupancy"`

	// Frames describes the framed output.
	Frames FrameStats `json:"frames"`

	// StartedAt and FinishedAt bracket the run in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Counters are the per-run event tallies.
type Counters struct {
	Ticks    int `json:"ticks"`
	Writes   int `json:"writes"`
	Reads    int `json:"reads"`
	Pops     int `json:"pops"`
	Skips    int `json:"skips"`
	Idles    int `json:"idles"`
	Degraded int `json:"degraded"`
}

// FrameStats describes a packetised stream.
type FrameStats struct {
	Headers       int     `json:"headers"`
	Enders        int     `json:"enders"`
	Segments      int     `json:"segments"`
	Stuffed       int     `json:"stuffed"`
	EncodedWords  int     `json:"encoded_words"`
	OriginalWords int     `json:"original_words"`
	Ratio         float64 `json:"ratio"`
}

// Balanced reports whether every frame header has a matching ender.
func (s FrameStats) Balanced() bool {
	return s.Headers == s.Enders
}

// Duration returns the wall-clock time the run took.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
