// Package clock reconciles the write and read clock domains of the readout
// path on a common integer tick base.
//
// With both rates in tenths of a MHz (w, r), one period of the common base is
// lcm(w, r) ticks; the write side fires every lcm/w ticks and the read side
// every lcm/r ticks, so the two sides realign exactly once per period.
package clock

import (
	"fmt"

	"github.com/bft-labs/readout/internal/domain"
)

// Scheduler is a tick counter that reports which clock domains fire on each tick.
type Scheduler struct {
	write, read   Frequency
	period        int64
	writeInterval int64
	readInterval  int64
	tick          int64
}

// NewScheduler derives the common tick base for the two rates.
func NewScheduler(write, read Frequency) (*Scheduler, error) {
	if write <= 0 || read <= 0 {
		return nil, fmt.Errorf("%w: clock frequencies must be positive (write %d, read %d)", domain.ErrInvalidConfig, write, read)
	}
	w, r := int64(write), int64(read)
	period := w / gcd(w, r) * r
	return &Scheduler{
		write:         write,
		read:          read,
		period:        period,
		writeInterval: period / w,
		readInterval:  period / r,
	}, nil
}

// Next reports whether the write and read domains fire on the current tick,
// then advances the counter. Both may fire on the same tick.
func (s *Scheduler) Next() (tick int64, write, read bool) {
	tick = s.tick
	write = tick%s.writeInterval == 0
	read = tick%s.readInterval == 0
	s.tick++
	return tick, write, read
}

// Reset rewinds the tick counter to zero.
func (s *Scheduler) Reset() { s.tick = 0 }

// Tick returns the next tick Next will report.
func (s *Scheduler) Tick() int64 { return s.tick }

// Period returns the number of ticks after which both clocks realign.
func (s *Scheduler) Period() int64 { return s.period }

// WriteInterval returns the ticks between write opportunities.
func (s *Scheduler) WriteInterval() int64 { return s.writeInterval }

// ReadInterval returns the ticks between read opportunities.
func (s *Scheduler) ReadInterval() int64 { return s.readInterval }

// WritesPerPeriod and ReadsPerPeriod give the rational rate relationship.
func (s *Scheduler) WritesPerPeriod() int64 { return s.period / s.writeInterval }
func (s *Scheduler) ReadsPerPeriod() int64  { return s.period / s.readInterval }

func (s *Scheduler) String() string {
	return fmt.Sprintf("write %s every %d ticks, read %s every %d ticks, period %d",
		s.write, s.writeInterval, s.read, s.readInterval, s.period)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
