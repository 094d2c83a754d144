// Package channel implements a readout channel: one encoder feeding one
// bounded queue, with optional degraded encoding under backpressure.
package channel

import (
	"fmt"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/encoder"
	"github.com/bft-labs/readout/internal/fifo"
	"github.com/bft-labs/readout/internal/ports"
)

// DefaultDegradedThreshold is the free-space level, in words, at or below
// which degraded encoding kicks in unless configured otherwise.
const DefaultDegradedThreshold = fifo.AlmostFullMargin

// Options configures a Channel.
type Options struct {
	// DegradedMode enables binary coercion of rows when the queue is near
	// capacity.
	DegradedMode bool

	// DegradedThreshold is the free space, in words, at or below which rows are
	// coerced. It is used as given; zero coerces only when the queue has no
	// room left.
	DegradedThreshold int

	// Sink receives degraded-mode events. Optional.
	Sink ports.EventSink
}

// Channel owns one queue and one encoder.
type Channel struct {
	id        int
	queue     *fifo.Queue
	enc       ports.Encoder
	degraded  bool
	threshold int
	sink      ports.EventSink

	occupancy     []int
	peak          int
	degradedCount int
}

// New creates channel id around queue and enc.
func New(id int, queue *fifo.Queue, enc ports.Encoder, opts Options) (*Channel, error) {
	if queue == nil || enc == nil {
		return nil, fmt.Errorf("%w: channel %d needs a queue and an encoder", domain.ErrInvalidConfig, id)
	}
	threshold := opts.DegradedThreshold
	if threshold < 0 || threshold >= queue.Cap() {
		return nil, fmt.Errorf("%w: degraded threshold %d outside [0,%d)", domain.ErrInvalidConfig, threshold, queue.Cap())
	}
	return &Channel{
		id:        id,
		queue:     queue,
		enc:       enc,
		degraded:  opts.DegradedMode,
		threshold: threshold,
		sink:      opts.Sink,
	}, nil
}

// ID returns the channel id.
func (c *Channel) ID() int { return c.id }

// Queue returns the channel's queue.
func (c *Channel) Queue() *fifo.Queue { return c.queue }

// Peak returns the highest queue occupancy seen since the last Reset.
func (c *Channel) Peak() int { return c.peak }

// DegradedRows returns the number of rows coerced since the last Reset.
func (c *Channel) DegradedRows() int { return c.degradedCount }

// Occupancy returns the free-space samples recorded at each production and
// drain opportunity.
func (c *Channel) Occupancy() []int {
	return append([]int(nil), c.occupancy...)
}

// ProduceAndEnqueue encodes row and pushes the resulting words.
// The caller must drain a full queue before producing into it again.
func (c *Channel) ProduceAndEnqueue(row []uint8, timestamp int) error {
	if c.queue.IsFull() {
		return fmt.Errorf("channel %d: produce at %d: %w", c.id, timestamp, domain.ErrOverflow)
	}
	if len(row) != c.enc.Width() {
		return fmt.Errorf("channel %d: row has %d samples, encoder expects %d: %w",
			c.id, len(row), c.enc.Width(), domain.ErrRange)
	}

	if c.degraded && c.queue.SpaceAvailable() <= c.threshold {
		row = encoder.Binarize(row)
		c.degradedCount++
		if c.sink != nil {
			c.sink.OnDegraded(c.id, timestamp, c.queue.SpaceAvailable())
		}
	}

	words, err := c.enc.Encode(timestamp, row)
	if err != nil {
		return fmt.Errorf("channel %d: encode at %d: %w", c.id, timestamp, err)
	}
	for _, w := range words {
		if err := c.queue.Push(w); err != nil {
			return fmt.Errorf("channel %d: enqueue at %d: %w", c.id, timestamp, err)
		}
	}
	if n := c.queue.Len(); n > c.peak {
		c.peak = n
	}
	c.occupancy = append(c.occupancy, c.queue.SpaceAvailable())
	return nil
}

// Drain pops the oldest queued word.
func (c *Channel) Drain() (domain.Word, error) {
	w, err := c.queue.Pop()
	if err != nil {
		return 0, fmt.Errorf("channel %d: %w", c.id, err)
	}
	c.occupancy = append(c.occupancy, c.queue.SpaceAvailable())
	return w, nil
}

// Reset clears the queue, the encoder state and the occupancy log.
func (c *Channel) Reset() {
	c.queue.Reset()
	c.enc.Reset()
	c.occupancy = nil
	c.peak = 0
	c.degradedCount = 0
}
