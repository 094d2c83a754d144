package arbiter

import "github.com/bft-labs/readout/internal/channel"

// roundRobin models a multiplexer with no look-ahead.
type roundRobin struct {
	channels []*channel.Channel
	last     int
}

func newRoundRobin(channels []*channel.Channel) *roundRobin {
	return &roundRobin{channels: channels, last: len(channels) - 1}
}

func (a *roundRobin) Policy() Policy { return RoundRobin }

func (a *roundRobin) Select() (int, bool) {
	a.last = (a.last + 1) % len(a.channels)
	return a.last, true
}

func (a *roundRobin) Step(tick int) (StepResult, error) {
	id, _ := a.Select()
	return drain(a.channels, tick, id)
}

// roundRobinSkipEmpty probes forward for the first non-empty channel. When
// every channel is empty the pointer stays where the last probe left it.
type roundRobinSkipEmpty struct {
	channels []*channel.Channel
	last     int
}

func newRoundRobinSkipEmpty(channels []*channel.Channel) *roundRobinSkipEmpty {
	return &roundRobinSkipEmpty{channels: channels, last: len(channels) - 1}
}

func (a *roundRobinSkipEmpty) Policy() Policy { return RoundRobinSkipEmpty }

func (a *roundRobinSkipEmpty) Select() (int, bool) {
	n := len(a.channels)
	for i := 0; i < n; i++ {
		a.last = (a.last + 1) % n
		if !a.channels[a.last].Queue().IsEmpty() {
			return a.last, true
		}
	}
	return a.last, false
}

func (a *roundRobinSkipEmpty) Step(tick int) (StepResult, error) {
	id, ok := a.Select()
	if !ok {
		return idle(tick), nil
	}
	return drain(a.channels, tick, id)
}
