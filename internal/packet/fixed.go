package packet

import (
	"fmt"

	"github.com/bft-labs/readout/internal/domain"
)

// MaxFixedChannel is the largest channel id a fixed-format control word holds.
const MaxFixedChannel = 0xFF

type fixed struct {
	framer
	width      int
	maxSegment int
	segLen     int
}

func (p *fixed) Format() Format { return Fixed }

// Build implements Packetiser.
func (p *fixed) Build(trace domain.Trace) ([]uint16, error) {
	p.reset(len(trace))
	p.segLen = 0
	p.openFrame()
	for _, e := range trace {
		if e.Channel < 0 || e.Channel > MaxFixedChannel {
			return nil, fmt.Errorf("%w: channel %d does not fit a fixed control word", domain.ErrRange, e.Channel)
		}
		if p.enterChannel(e.Channel) || (p.maxSegment > 0 && p.segLen == p.maxSegment) {
			p.out = append(p.out, ControlWord(e.Channel, p.width))
			p.stats.Segments++
			p.segLen = 0
		}
		p.out = append(p.out, uint16(e.Word))
		p.segLen++
	}
	return p.finish(Fixed), nil
}

// ControlWord packs a channel id and word width into a fixed-format segment prefix.
func ControlWord(channel, width int) uint16 {
	return uint16(channel&0xFF)<<8 | uint16(width&0xFF)
}
