package packet

import (
	"fmt"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/pkg/log"
)

type stuffed struct {
	framer
}

func (p *stuffed) Format() Format { return Stuffed }

// Build implements Packetiser.
func (p *stuffed) Build(trace domain.Trace) ([]uint16, error) {
	p.reset(len(trace))
	p.openFrame()
	for _, e := range trace {
		if e.Channel < 0 || e.Channel > 0xFFFF {
			return nil, fmt.Errorf("%w: channel %d does not fit a word", domain.ErrRange, e.Channel)
		}
		if p.enterChannel(e.Channel) {
			p.out = append(p.out, ChannelStart, uint16(e.Channel))
			p.stats.Segments++
		}
		before := len(p.out)
		p.out = Stuff(p.out, uint16(e.Word))
		if len(p.out)-before > 1 {
			p.stats.Stuffed++
			p.logger.Debug("escaped reserved word", log.Int("channel", e.Channel), log.Word("word", uint16(e.Word)))
		}
	}
	return p.finish(Stuffed), nil
}

// Reserved reports whether w collides with a control value that must be
// escaped inside a stuffed payload.
func Reserved(w uint16) bool {
	return w == ChannelStart || w == EOF || w == Escape
}

// Stuff appends w to dst, escaping it when reserved.
func Stuff(dst []uint16, w uint16) []uint16 {
	if Reserved(w) {
		return append(dst, Escape, w^EscapeMask)
	}
	return append(dst, w)
}

// Unstuff reverses Stuff over a payload sequence.
func Unstuff(payload []uint16) ([]uint16, error) {
	out := make([]uint16, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		w := payload[i]
		if w == Escape {
			if i+1 == len(payload) {
				return nil, fmt.Errorf("%w: dangling escape at end of payload", domain.ErrStructural)
			}
			i++
			w = payload[i] ^ EscapeMask
		}
		out = append(out, w)
	}
	return out, nil
}

// DecodeStuffed parses a stuffed-format stream back into a drain trace.
// ReadIndex is assigned sequentially in stream order.
func DecodeStuffed(words []uint16) (domain.Trace, error) {
	var trace domain.Trace
	i := 0
	next := func() (uint16, bool) {
		if i >= len(words) {
			return 0, false
		}
		w := words[i]
		i++
		return w, true
	}

	for i < len(words) {
		if w, _ := next(); w != SOF {
			return trace, fmt.Errorf("%w: word %d: expected SOF, got 0x%04X", domain.ErrStructural, i-1, w)
		}
		if w, ok := next(); !ok || w != Header {
			return trace, fmt.Errorf("%w: word %d: expected header", domain.ErrStructural, i-1)
		}

		channel := -1
	frame:
		for {
			w, ok := next()
			if !ok {
				return trace, fmt.Errorf("%w: stream ended inside a frame", domain.ErrStructural)
			}
			switch w {
			case EOF:
				break frame
			case ChannelStart:
				id, ok := next()
				if !ok {
					return trace, fmt.Errorf("%w: stream ended after channel start", domain.ErrStructural)
				}
				channel = int(id)
			case Escape:
				v, ok := next()
				if !ok {
					return trace, fmt.Errorf("%w: dangling escape", domain.ErrStructural)
				}
				w = v ^ EscapeMask
				fallthrough
			default:
				if channel < 0 {
					return trace, fmt.Errorf("%w: word %d: payload before channel start", domain.ErrStructural, i-1)
				}
				trace = append(trace, domain.Entry{ReadIndex: len(trace), Channel: channel, Word: domain.Word(w)})
			}
		}
	}
	return trace, nil
}
