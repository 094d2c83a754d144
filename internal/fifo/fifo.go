// Package fifo provides the bounded word queue each readout channel owns.
//
// A Queue is a fixed-capacity ring of fixed-width words. It is not safe for
// concurrent use: the owning channel pushes and the arbiter pops on their own
// tick boundaries within a single control flow.
package fifo

import (
	"fmt"

	"github.com/bft-labs/readout/internal/domain"
)

// AlmostFullMargin is the occupancy margin, in words, below capacity at which
// a queue reports itself almost full.
const AlmostFullMargin = 4

// Queue is a bounded FIFO of fixed-width words.
type Queue struct {
	slots []domain.Word
	head  int
	size  int
	width int
	limit uint32
}

// New creates a queue holding at most capacity words of widthBits each.
func New(capacity, widthBits int) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: queue capacity must be positive, got %d", domain.ErrInvalidConfig, capacity)
	}
	if widthBits <= 0 || widthBits > domain.MaxWordWidth {
		return nil, fmt.Errorf("%w: word width must be in [1,%d], got %d", domain.ErrInvalidConfig, domain.MaxWordWidth, widthBits)
	}
	return &Queue{
		slots: make([]domain.Word, capacity),
		width: widthBits,
		limit: 1 << uint(widthBits),
	}, nil
}

// Push appends w to the tail of the queue.
func (q *Queue) Push(w domain.Word) error {
	if uint32(w) >= q.limit {
		return fmt.Errorf("%w: word %s exceeds %d-bit width", domain.ErrRange, w, q.width)
	}
	if q.size == len(q.slots) {
		return fmt.Errorf("%w: capacity %d", domain.ErrOverflow, len(q.slots))
	}
	q.slots[(q.head+q.size)%len(q.slots)] = w
	q.size++
	return nil
}

// Pop removes and returns the oldest word.
func (q *Queue) Pop() (domain.Word, error) {
	if q.size == 0 {
		return 0, domain.ErrUnderflow
	}
	w := q.slots[q.head]
	q.head = (q.head + 1) % len(q.slots)
	q.size--
	return w, nil
}

// Peek returns the oldest word without removing it.
func (q *Queue) Peek() (domain.Word, bool) {
	if q.size == 0 {
		return 0, false
	}
	return q.slots[q.head], true
}

// Reset discards all queued words.
func (q *Queue) Reset() {
	q.head = 0
	q.size = 0
}

// Cap returns the capacity in words.
func (q *Queue) Cap() int { return len(q.slots) }

// Len returns the number of queued words.
func (q *Queue) Len() int { return q.size }

// Width returns the word width in bits.
func (q *Queue) Width() int { return q.width }

// IsEmpty reports whether no words are queued.
func (q *Queue) IsEmpty() bool { return q.size == 0 }

// IsFull reports whether every slot is occupied.
func (q *Queue) IsFull() bool { return q.size == len(q.slots) }

// SpaceUsed returns the number of occupied slots. It equals Len.
func (q *Queue) SpaceUsed() int { return q.size }

// SpaceAvailable returns the number of free slots.
func (q *Queue) SpaceAvailable() int { return len(q.slots) - q.size }

// AlmostFull reports whether occupancy is within AlmostFullMargin of capacity.
func (q *Queue) AlmostFull() bool { return q.size >= len(q.slots)-AlmostFullMargin }
