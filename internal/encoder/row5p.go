// Package encoder provides the reference row encoder used by readout channels.
//
// Row5P packs a row of five 3-bit pixels into a single 15-bit data word and
// suppresses rows that repeat the previous one. Words with the top bit set
// are timing words: 0x8000 marks a timer roll-over and 0x8000|t resynchronises
// the decoder to timestamp t after a run of suppressed rows.
package encoder

import (
	"fmt"
	"slices"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/ports"
)

const (
	// PixelsPerRow is the number of pixels Row5P packs into one word.
	PixelsPerRow = 5

	// PixelBits is the bit depth of a quantised pixel.
	PixelBits = 3

	// TimestampFlag marks a timing word.
	TimestampFlag domain.Word = 0x8000

	// TimestampMask extracts the timer value from a timing word.
	TimestampMask = 0x7FFF

	pixelMask = 1<<PixelBits - 1
)

// Row5P encodes five-pixel rows.
type Row5P struct {
	prev    [PixelsPerRow]uint8
	hasPrev bool
	// next is the timestamp the decoder will assign to the next data word.
	next int
}

// NewRow5P returns an encoder in its initial state.
func NewRow5P() *Row5P {
	return &Row5P{}
}

// Width returns PixelsPerRow.
func (e *Row5P) Width() int { return PixelsPerRow }

// Reset forgets the previous row and timing state.
func (e *Row5P) Reset() {
	*e = Row5P{}
}

// Encode implements ports.Encoder.
func (e *Row5P) Encode(timestamp int, row []uint8) ([]domain.Word, error) {
	if len(row) != PixelsPerRow {
		return nil, fmt.Errorf("%w: row has %d pixels, want %d", domain.ErrRange, len(row), PixelsPerRow)
	}
	if timestamp < 0 {
		return nil, fmt.Errorf("%w: negative timestamp %d", domain.ErrRange, timestamp)
	}

	if e.hasPrev && slices.Equal(e.prev[:], row) {
		if timestamp > 0 && timestamp&TimestampMask == 0 {
			return []domain.Word{TimestampFlag}, nil
		}
		return nil, nil
	}

	data, err := Pack(row)
	if err != nil {
		return nil, err
	}

	var out []domain.Word
	if e.hasPrev && timestamp != e.next {
		// On a timer wrap the resync word is the roll-over word itself.
		out = []domain.Word{TimestampFlag | domain.Word(timestamp&TimestampMask), data}
	} else {
		out = []domain.Word{data}
	}

	copy(e.prev[:], row)
	e.hasPrev = true
	e.next = timestamp + 1
	return out, nil
}

// Pack packs a five-pixel row into a data word, first pixel in the low bits.
func Pack(row []uint8) (domain.Word, error) {
	if len(row) != PixelsPerRow {
		return 0, fmt.Errorf("%w: row has %d pixels, want %d", domain.ErrRange, len(row), PixelsPerRow)
	}
	var w domain.Word
	for i, px := range row {
		if px > pixelMask {
			return 0, fmt.Errorf("%w: pixel %d value %d exceeds %d bits", domain.ErrRange, i, px, PixelBits)
		}
		w |= domain.Word(px) << (PixelBits * i)
	}
	return w, nil
}

// Unpack reverses Pack.
func Unpack(w domain.Word) []uint8 {
	row := make([]uint8, PixelsPerRow)
	for i := range row {
		row[i] = uint8(w>>(PixelBits*i)) & pixelMask
	}
	return row
}

// Binarize returns a copy of row with every non-zero pixel set to 1.
// Channels use it to trade fidelity for fewer distinct rows under backpressure.
func Binarize(row []uint8) []uint8 {
	out := make([]uint8, len(row))
	for i, px := range row {
		if px != 0 {
			out[i] = 1
		}
	}
	return out
}

var _ ports.Encoder = (*Row5P)(nil)
