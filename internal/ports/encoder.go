package ports

import "github.com/bft-labs/readout/internal/domain"

// Encoder is the per-channel row encoder capability.
// Implementations carry their own state between calls; the owning channel
// holds the encoder exclusively and is the only caller.
type Encoder interface {
	// Encode consumes one row of samples taken at timestamp and returns the
	// words to enqueue: none when the row repeats, one data word, or a
	// resynchronisation word followed by a data word.
	Encode(timestamp int, row []uint8) ([]domain.Word, error)

	// Width returns the number of pixels the encoder expects per row.
	Width() int

	// Reset returns the encoder to its initial state.
	Reset()
}
