package domain

import "errors"

// Domain errors represent failure conditions of the readout data path.
// They are returned wrapped with context and can be checked with errors.Is.
var (
	// ErrOverflow is returned when a word is pushed into a full queue, or a
	// channel is asked to produce while its queue is already full.
	ErrOverflow = errors.New("readout: queue overflow")

	// ErrUnderflow is returned when popping from an empty queue. Arbiters check
	// emptiness first, so reaching it indicates a policy bug.
	ErrUnderflow = errors.New("readout: queue underflow")

	// ErrRange is returned when a word does not fit the configured width or a
	// sample row does not match the encoder's pixel width.
	ErrRange = errors.New("readout: value out of range")

	// ErrStructural reports a frame header/ender count mismatch. It is a
	// warning: the framed stream is still produced.
	ErrStructural = errors.New("readout: frame structure mismatch")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("readout: invalid configuration")
)
