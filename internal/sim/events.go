package sim

import (
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/ports"
)

// loggingSink counts events, logs them and forwards them to an optional
// downstream sink.
type loggingSink struct {
	logger   ports.Logger
	next     ports.EventSink
	counters *domain.Counters
}

func (s *loggingSink) OnDegraded(channel, timestamp, space int) {
	s.counters.Degraded++
	s.logger.Info("degraded encoding",
		ports.Int("channel", channel),
		ports.Int("timestamp", timestamp),
		ports.Int("space_available", space),
	)
	if s.next != nil {
		s.next.OnDegraded(channel, timestamp, space)
	}
}

func (s *loggingSink) OnPop(e domain.Entry) {
	s.counters.Pops++
	if s.next != nil {
		s.next.OnPop(e)
	}
}

func (s *loggingSink) OnSkip(tick, channel int) {
	s.counters.Skips++
	s.logger.Debug("read slot skipped", ports.Int("tick", tick), ports.Int("channel", channel))
	if s.next != nil {
		s.next.OnSkip(tick, channel)
	}
}

func (s *loggingSink) OnIdle(tick int) {
	s.counters.Idles++
	s.logger.Debug("arbiter idle", ports.Int("tick", tick))
	if s.next != nil {
		s.next.OnIdle(tick)
	}
}
