package clock

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bft-labs/readout/internal/domain"
)

// Frequency is a clock rate in tenths of a MHz. 37.5 MHz is Frequency(375).
type Frequency int64

// ParseFrequency parses a decimal MHz value with at most one fractional digit.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "MHz"))
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: frequency %q must be positive", domain.ErrInvalidConfig, s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && len(frac) > 1 {
		return 0, fmt.Errorf("%w: frequency %q finer than 0.1 MHz", domain.ErrInvalidConfig, s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency %q: %v", domain.ErrInvalidConfig, s, err)
	}
	f := w * 10
	if hasFrac && frac != "" {
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("%w: frequency %q: bad fractional part", domain.ErrInvalidConfig, s)
		}
		f += d
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w: frequency %q must be positive", domain.ErrInvalidConfig, s)
	}
	return Frequency(f), nil
}

// FrequencyFromMHz rounds mhz to the nearest 0.1 MHz.
func FrequencyFromMHz(mhz float64) Frequency {
	return Frequency(math.Round(mhz * 10))
}

// MHz returns the frequency as a float.
func (f Frequency) MHz() float64 { return float64(f) / 10 }

func (f Frequency) String() string {
	if f%10 == 0 {
		return fmt.Sprintf("%dMHz", f/10)
	}
	return fmt.Sprintf("%d.%dMHz", f/10, f%10)
}
