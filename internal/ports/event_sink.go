package ports

import "github.com/bft-labs/readout/internal/domain"

// EventSink receives data-path events as they happen.
// Events are delivered synchronously from the simulation loop; implementations
// must not call back into the simulation.
type EventSink interface {
	// OnDegraded is called when a channel coerces a row to its binary form
	// because its queue is near capacity.
	OnDegraded(channel, timestamp, spaceAvailable int)

	// OnPop is called for every successful dequeue.
	OnPop(entry domain.Entry)

	// OnSkip is called when the selected channel was empty and the read slot
	// was wasted.
	OnSkip(tick, channel int)

	// OnIdle is called when the arbiter found nothing to drain.
	OnIdle(tick int)
}
