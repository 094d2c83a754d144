package domain

import "fmt"

// Word is a single encoder output word. Queue widths are at most 16 bits so
// every word fits the 16-bit framing protocol.
type Word uint16

// MaxWordWidth is the widest word the data path carries.
const MaxWordWidth = 16

// String renders the word the way the drain trace prints it.
func (w Word) String() string {
	return fmt.Sprintf("0x%04X", uint16(w))
}

// Entry is one successful dequeue recorded by the arbiter.
type Entry struct {
	// ReadIndex is the index of the read opportunity that popped the word.
	ReadIndex int `json:"read_index"`

	// Channel is the id of the channel the word was drained from.
	Channel int `json:"channel"`

	// Word is the drained word.
	Word Word `json:"word"`
}

// Trace is the ordered drain trace. Append order is the only order that matters.
type Trace []Entry

// PerChannel counts drained words by channel id.
func (t Trace) PerChannel(channels int) []int {
	counts := make([]int, channels)
	for _, e := range t {
		if e.Channel >= 0 && e.Channel < channels {
			counts[e.Channel]++
		}
	}
	return counts
}
