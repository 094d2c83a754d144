package arbiter

import (
	"github.com/bft-labs/readout/internal/channel"
	"github.com/bft-labs/readout/internal/domain"
)

// congestionAware is a sticky round robin with a burst cap and preemption
// towards almost-full channels.
type congestionAware struct {
	channels []*channel.Channel
	maxReads int

	current    int
	burst      int
	lastPopped domain.Word
	hasPopped  bool
}

func newCongestionAware(channels []*channel.Channel, maxReads int) *congestionAware {
	return &congestionAware{channels: channels, maxReads: maxReads}
}

func (a *congestionAware) Policy() Policy { return CongestionAware }

// Select applies, in order: idle when everything is empty, preempt to an
// almost-full channel, move off an empty current channel, rotate after
// maxReads consecutive reads, otherwise stay.
func (a *congestionAware) Select() (int, bool) {
	if allEmpty(a.channels) {
		return a.current, false
	}

	n := len(a.channels)
	for i := 1; i < n; i++ {
		j := (a.current + i) % n
		q := a.channels[j].Queue()
		if !q.IsEmpty() && q.AlmostFull() {
			a.current, a.burst = j, 0
			return a.current, true
		}
	}

	if a.channels[a.current].Queue().IsEmpty() || a.burst >= a.maxReads {
		a.current, _ = nextNonEmpty(a.channels, a.current)
		a.burst = 0
	}
	return a.current, true
}

func (a *congestionAware) Step(tick int) (StepResult, error) {
	id, ok := a.Select()
	if !ok {
		a.hasPopped = false
		return idle(tick), nil
	}
	res, err := drain(a.channels, tick, id)
	if err != nil {
		return res, err
	}
	if res.Outcome == Popped {
		a.burst++
		a.lastPopped, a.hasPopped = res.Word, true
	}
	return res, nil
}

// Current returns the sticky channel index.
func (a *congestionAware) Current() int { return a.current }

// Burst returns the consecutive reads served from the current channel.
func (a *congestionAware) Burst() int { return a.burst }

// LastPopped returns the last dequeued word; ok is false after an idle step.
func (a *congestionAware) LastPopped() (domain.Word, bool) { return a.lastPopped, a.hasPopped }
