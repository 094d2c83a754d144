// Package arbiter implements the drain scheduling policies that decide which
// channel's queue the shared consumer reads on each read opportunity.
//
// The policy set is closed: [Policy] enumerates it and [New] builds the
// matching [Arbiter]. Every Step performs at most one dequeue.
package arbiter

import (
	"fmt"
	"strings"

	"github.com/bft-labs/readout/internal/channel"
	"github.com/bft-labs/readout/internal/domain"
)

// Policy selects an arbitration algorithm.
type Policy int

const (
	// RoundRobin visits every channel in turn, wasting the slot when the
	// visited channel is empty.
	RoundRobin Policy = iota

	// RoundRobinSkipEmpty visits channels in turn but skips empty ones.
	RoundRobinSkipEmpty

	// UrgencyWeighted drains the channel with the highest occupancy-and-age score.
	UrgencyWeighted

	// CongestionAware stays on one channel for a bounded burst and preempts to
	// channels that are almost full.
	CongestionAware
)

// Policies lists every policy in declaration order.
var Policies = []Policy{RoundRobin, RoundRobinSkipEmpty, UrgencyWeighted, CongestionAware}

// String returns the short policy name.
func (p Policy) String() string {
	switch p {
	case RoundRobin:
		return "rr"
	case RoundRobinSkipEmpty:
		return "rr-skip"
	case UrgencyWeighted:
		return "urgency"
	case CongestionAware:
		return "carr"
	default:
		return "unknown"
	}
}

// ParsePolicy accepts the short names returned by Policy.String as well as a
// few long forms.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rr", "round-robin", "roundrobin":
		return RoundRobin, nil
	case "rr-skip", "rrse", "round-robin-skip-empty", "roundrobinskipempty":
		return RoundRobinSkipEmpty, nil
	case "urgency", "urgency-weighted", "urgencyweighted":
		return UrgencyWeighted, nil
	case "carr", "congestion-aware", "congestionaware":
		return CongestionAware, nil
	}
	return 0, fmt.Errorf("%w: unknown arbitration policy %q", domain.ErrInvalidConfig, s)
}

// Outcome classifies what a Step did.
type Outcome int

const (
	// Popped means a word was dequeued.
	Popped Outcome = iota
	// Skipped means the selected channel was empty and the slot was wasted.
	Skipped
	// Idle means no channel was selected.
	Idle
)

func (o Outcome) String() string {
	switch o {
	case Popped:
		return "popped"
	case Skipped:
		return "skipped"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// StepResult describes one drain opportunity.
type StepResult struct {
	Tick    int
	Outcome Outcome
	// Channel is the selected channel, or -1 when idle.
	Channel int
	// Word is valid only when Outcome is Popped.
	Word domain.Word
}

// Arbiter drains a fixed set of channels one word per step.
type Arbiter interface {
	// Policy reports which algorithm this arbiter runs.
	Policy() Policy

	// Select picks the channel to drain and updates scheduling state.
	// ok is false when the policy decides to idle.
	Select() (id int, ok bool)

	// Step selects a channel and dequeues at most one word from it.
	Step(tick int) (StepResult, error)
}

// Options tunes policy-specific behaviour.
type Options struct {
	// MaxReads caps consecutive reads from one channel under CongestionAware.
	MaxReads int
}

// DefaultMaxReads is the CongestionAware burst cap used when Options.MaxReads is zero.
const DefaultMaxReads = 4

// New builds the arbiter for policy over channels. Channel ids must equal
// their index in channels.
func New(policy Policy, channels []*channel.Channel, opts Options) (Arbiter, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: arbiter needs at least one channel", domain.ErrInvalidConfig)
	}
	for i, ch := range channels {
		if ch == nil || ch.ID() != i {
			return nil, fmt.Errorf("%w: channel at index %d has mismatched id", domain.ErrInvalidConfig, i)
		}
	}

	switch policy {
	case RoundRobin:
		return newRoundRobin(channels), nil
	case RoundRobinSkipEmpty:
		return newRoundRobinSkipEmpty(channels), nil
	case UrgencyWeighted:
		return newUrgency(channels), nil
	case CongestionAware:
		maxReads := opts.MaxReads
		if maxReads == 0 {
			maxReads = DefaultMaxReads
		}
		if maxReads < 1 {
			return nil, fmt.Errorf("%w: max reads must be positive, got %d", domain.ErrInvalidConfig, maxReads)
		}
		return newCongestionAware(channels, maxReads), nil
	}
	return nil, fmt.Errorf("%w: unknown arbitration policy %d", domain.ErrInvalidConfig, int(policy))
}

// drain dequeues from channels[id], reporting a skip when it is empty.
func drain(channels []*channel.Channel, tick, id int) (StepResult, error) {
	ch := channels[id]
	if ch.Queue().IsEmpty() {
		return StepResult{Tick: tick, Outcome: Skipped, Channel: id}, nil
	}
	w, err := ch.Drain()
	if err != nil {
		return StepResult{}, fmt.Errorf("tick %d: %w", tick, err)
	}
	return StepResult{Tick: tick, Outcome: Popped, Channel: id, Word: w}, nil
}

func idle(tick int) StepResult {
	return StepResult{Tick: tick, Outcome: Idle, Channel: -1}
}

// nextNonEmpty scans forward from start+1 over every channel, wrapping, and
// returns the first non-empty one. The scan includes start itself last.
func nextNonEmpty(channels []*channel.Channel, start int) (int, bool) {
	n := len(channels)
	for i := 1; i <= n; i++ {
		j := (start + i) % n
		if !channels[j].Queue().IsEmpty() {
			return j, true
		}
	}
	return start, false
}

func allEmpty(channels []*channel.Channel) bool {
	for _, ch := range channels {
		if !ch.Queue().IsEmpty() {
			return false
		}
	}
	return true
}
