// Package packet serialises a drain trace into self-delimiting 16-bit frames.
//
// Every frame opens with SOF and Header and closes with EOF. Inside a frame
// the trace is cut into per-channel segments; a frame ends whenever the
// channel id decreases, which marks the start of a new production cycle.
// Two segment formats exist: [Fixed] prefixes each segment with a control
// word, [Stuffed] prefixes it with ChannelStart and the channel id and
// escapes payload words that collide with control values.
package packet

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/ports"
	"github.com/bft-labs/readout/pkg/log"
)

// Control words.
const (
	SOF          uint16 = 0xFACE
	Header       uint16 = 0x0001
	EOF          uint16 = 0xDEAD
	ChannelStart uint16 = 0xC0DE
	Escape       uint16 = 0xBEEF

	// EscapeMask is XORed into an escaped payload word.
	EscapeMask uint16 = 0xFFFF
)

// DefaultMaxSegmentWords caps a fixed-format segment's payload.
const DefaultMaxSegmentWords = 32

// Format selects the segment encoding.
type Format int

const (
	// Fixed emits a channel<<8|width control word before each segment.
	Fixed Format = iota
	// Stuffed emits ChannelStart and the channel id, and word-stuffs payload.
	Stuffed
)

func (f Format) String() string {
	switch f {
	case Fixed:
		return "fixed"
	case Stuffed:
		return "stuffed"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "fixed-length":
		return Fixed, nil
	case "stuffed", "variable", "variable-length":
		return Stuffed, nil
	}
	return 0, fmt.Errorf("%w: unknown packet format %q", domain.ErrInvalidConfig, s)
}

// Packetiser turns a drain trace into a framed word stream.
type Packetiser interface {
	// Format reports the segment encoding.
	Format() Format

	// Build frames trace. Statistics are reset at the start of each call.
	Build(trace domain.Trace) ([]uint16, error)

	// Stats describes the stream produced by the last Build.
	Stats() domain.FrameStats
}

// Options configures a Packetiser.
type Options struct {
	// WordWidth is the payload word width in bits, written into fixed-format
	// control words. Zero means domain.MaxWordWidth.
	WordWidth int

	// MaxSegmentWords splits fixed-format runs longer than this into several
	// segments. Zero means DefaultMaxSegmentWords; negative disables the cap.
	MaxSegmentWords int

	// Logger receives structural warnings. Optional.
	Logger ports.Logger
}

// New returns the packetiser for format.
func New(format Format, opts Options) (Packetiser, error) {
	if opts.WordWidth == 0 {
		opts.WordWidth = domain.MaxWordWidth
	}
	if opts.WordWidth < 1 || opts.WordWidth > domain.MaxWordWidth {
		return nil, fmt.Errorf("%w: word width %d", domain.ErrInvalidConfig, opts.WordWidth)
	}
	if opts.MaxSegmentWords == 0 {
		opts.MaxSegmentWords = DefaultMaxSegmentWords
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard
	}
	switch format {
	case Fixed:
		return &fixed{framer: framer{logger: opts.Logger}, width: opts.WordWidth, maxSegment: opts.MaxSegmentWords}, nil
	case Stuffed:
		return &stuffed{framer: framer{logger: opts.Logger}}, nil
	}
	return nil, fmt.Errorf("%w: unknown packet format %d", domain.ErrInvalidConfig, int(format))
}

// framer holds the frame-level state shared by both formats.
type framer struct {
	logger  ports.Logger
	out     []uint16
	current int
	stats   domain.FrameStats
}

func (f *framer) reset(originalWords int) {
	f.out = make([]uint16, 0, originalWords*2+4)
	f.current = -1
	f.stats = domain.FrameStats{OriginalWords: originalWords}
}

func (f *framer) openFrame() {
	f.out = append(f.out, SOF, Header)
	f.stats.Headers++
}

func (f *framer) closeFrame() {
	f.out = append(f.out, EOF)
	f.stats.Enders++
}

// enterChannel handles a channel change, closing the frame on a decrease.
// It reports whether a new segment must start.
func (f *framer) enterChannel(ch int) bool {
	if ch == f.current {
		return false
	}
	if f.current != -1 && ch < f.current {
		f.closeFrame()
		f.openFrame()
	}
	f.current = ch
	return true
}

func (f *framer) finish(format Format) []uint16 {
	f.closeFrame()
	f.stats.EncodedWords = len(f.out)
	if f.stats.OriginalWords > 0 {
		f.stats.Ratio = float64(f.stats.EncodedWords) / float64(f.stats.OriginalWords)
	}
	if err := CheckStructure(f.stats); err != nil {
		f.logger.Warn("frame structure mismatch",
			log.String("format", format.String()),
			log.Int("headers", f.stats.Headers),
			log.Int("enders", f.stats.Enders),
		)
	}
	return f.out
}

// Stats implements Packetiser.
func (f *framer) Stats() domain.FrameStats { return f.stats }

// CheckStructure returns an ErrStructural error when headers and enders differ.
func CheckStructure(s domain.FrameStats) error {
	if s.Balanced() {
		return nil
	}
	return fmt.Errorf("%w: %d headers, %d enders", domain.ErrStructural, s.Headers, s.Enders)
}

// Bytes serialises words big-endian.
func Bytes(words []uint16) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint16(b[2*i:], w)
	}
	return b
}

// FromBytes reverses Bytes.
func FromBytes(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count %d", domain.ErrRange, len(b))
	}
	words := make([]uint16, len(b)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return words, nil
}
