package arbiter

import "github.com/bft-labs/readout/internal/channel"

// MaxAge is the saturation value of the per-channel age counter.
const MaxAge = 255

// urgencyWeighted scores each channel by occupancy and waiting time.
type urgencyWeighted struct {
	channels []*channel.Channel
	urgency  []int
	age      []int
}

func newUrgency(channels []*channel.Channel) *urgencyWeighted {
	return &urgencyWeighted{
		channels: channels,
		urgency:  make([]int, len(channels)),
		age:      make([]int, len(channels)),
	}
}

func (a *urgencyWeighted) Policy() Policy { return UrgencyWeighted }

// Select rescores every channel, picks the highest urgency (lowest id on
// ties) and restarts the winner's age. An empty channel scores zero.
func (a *urgencyWeighted) Select() (int, bool) {
	best, bestScore := -1, 0
	for i, ch := range a.channels {
		q := ch.Queue()
		if q.IsEmpty() {
			a.urgency[i] = 0
			a.age[i] = 0
			continue
		}
		a.urgency[i] = q.SpaceUsed()*4 + a.age[i]
		if a.age[i] < MaxAge {
			a.age[i]++
		}
		if a.urgency[i] > bestScore {
			best, bestScore = i, a.urgency[i]
		}
	}
	if best < 0 {
		return 0, false
	}
	a.age[best] = 0
	return best, true
}

func (a *urgencyWeighted) Step(tick int) (StepResult, error) {
	id, ok := a.Select()
	if !ok {
		return idle(tick), nil
	}
	if a.channels[id].Queue().IsEmpty() {
		a.urgency[id] = 0
		a.age[id] = 0
	}
	return drain(a.channels, tick, id)
}

// Urgencies returns the scores computed by the last Select.
func (a *urgencyWeighted) Urgencies() []int { return append([]int(nil), a.urgency...) }

// Ages returns the current age counters.
func (a *urgencyWeighted) Ages() []int { return append([]int(nil), a.age...) }
