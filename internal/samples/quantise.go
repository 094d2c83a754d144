package samples

// Thresholds3Bit are the intensity cut points of the 3-bit quantiser.
// A sample above Thresholds3Bit[i] quantises to at least i+1.
var Thresholds3Bit = [7]float64{0.2, 0.3, 0.4, 0.5, 0.66, 0.8, 0.9}

// Quantiser maps intensities in [0,1] onto 3-bit pixel values.
type Quantiser struct {
	// Invert quantises 1-v instead of v, for sensors where a hit reads dark.
	Invert bool
}

// Quantise returns the 3-bit value for intensity v.
func (q Quantiser) Quantise(v float64) uint8 {
	if q.Invert {
		v = 1 - v
	}
	var out uint8
	for i, t := range Thresholds3Bit {
		if v > t {
			out = uint8(i + 1)
		}
	}
	return out
}

// QuantiseRow quantises every intensity in row.
func (q Quantiser) QuantiseRow(row []float64) []uint8 {
	out := make([]uint8, len(row))
	for i, v := range row {
		out[i] = q.Quantise(v)
	}
	return out
}
