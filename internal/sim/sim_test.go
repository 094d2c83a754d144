package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/readout/internal/arbiter"
	"github.com/bft-labs/readout/internal/clock"
	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/encoder"
	"github.com/bft-labs/readout/internal/ports"
)

// changingRows returns n rows for channels channels in which every channel's
// pixels change on every row.
func changingRows(n, channels int) [][]uint8 {
	rows := make([][]uint8, n)
	for r := range rows {
		row := make([]uint8, channels*encoder.PixelsPerRow)
		for c := 0; c < channels; c++ {
			for p := 0; p < encoder.PixelsPerRow; p++ {
				row[c*encoder.PixelsPerRow+p] = uint8((r + c + p) % 8)
			}
		}
		rows[r] = row
	}
	return rows
}

// encodeAll runs each channel's slice of rows through a fresh encoder.
func encodeAll(t *testing.T, rows [][]uint8, channels int) [][]domain.Word {
	t.Helper()
	out := make([][]domain.Word, channels)
	for c := 0; c < channels; c++ {
		enc := encoder.NewRow5P()
		for ts, row := range rows {
			words, err := enc.Encode(ts, row[c*encoder.PixelsPerRow:(c+1)*encoder.PixelsPerRow])
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			out[c] = append(out[c], words...)
		}
	}
	return out
}

func testConfig(policy arbiter.Policy) Config {
	cfg := DefaultConfig()
	cfg.Channels = 3
	cfg.QueueDepth = 64
	cfg.Policy = policy
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no channels", func(c *Config) { c.Channels = 0 }},
		{"queue too shallow", func(c *Config) { c.QueueDepth = 4 }},
		{"word too wide", func(c *Config) { c.WordWidth = 17 }},
		{"zero write clock", func(c *Config) { c.WriteFreq = 0 }},
		{"negative burst", func(c *Config) { c.MaxReads = -1 }},
		{"threshold beyond depth", func(c *Config) { c.DegradedThreshold = c.QueueDepth }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestRunConservesWords(t *testing.T) {
	rows := changingRows(50, 3)
	want := encodeAll(t, rows, 3)

	for _, policy := range arbiter.Policies {
		t.Run(policy.String(), func(t *testing.T) {
			s, err := New(testConfig(policy))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			res, err := s.Run(context.Background(), rows)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			perChannel := make([][]domain.Word, 3)
			for _, e := range res.Trace {
				perChannel[e.Channel] = append(perChannel[e.Channel], e.Word)
			}
			for c := 0; c < 3; c++ {
				if got := res.Drained[c] + res.Residual[c]; got != len(want[c]) {
					t.Errorf("channel %d: drained+residual = %d, want %d", c, got, len(want[c]))
				}
				// Drained words are a prefix of the channel's encoded stream.
				if diff := cmp.Diff(want[c][:len(perChannel[c])], perChannel[c]); diff != "" {
					t.Errorf("channel %d drain order mismatch (-want +got):\n%s", c, diff)
				}
			}

			for i, e := range res.Trace {
				if i > 0 && e.ReadIndex <= res.Trace[i-1].ReadIndex {
					t.Fatalf("read index not increasing at %d", i)
				}
			}
			if res.Counters.Writes != len(rows) {
				t.Errorf("Writes = %d, want %d", res.Counters.Writes, len(rows))
			}
			if res.Counters.Pops != len(res.Trace) {
				t.Errorf("Pops = %d, trace has %d entries", res.Counters.Pops, len(res.Trace))
			}
			if got := res.Counters.Pops + res.Counters.Skips + res.Counters.Idles; got != res.Counters.Reads {
				t.Errorf("pops+skips+idles = %d, reads = %d", got, res.Counters.Reads)
			}
		})
	}
}

func TestRunIsRepeatable(t *testing.T) {
	rows := changingRows(40, 3)
	s, err := New(testConfig(arbiter.UrgencyWeighted), WithRunID("fixed"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := s.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := s.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated run differs (-first +second):\n%s", diff)
	}
}

func TestRunRejectsShortRow(t *testing.T) {
	s, err := New(testConfig(arbiter.RoundRobin))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows := [][]uint8{make([]uint8, 14)}
	if _, err := s.Run(context.Background(), rows); !errors.Is(err, domain.ErrRange) {
		t.Errorf("Run() error = %v, want ErrRange", err)
	}
}

func TestRunOverflowAborts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels = 1
	cfg.QueueDepth = 6
	cfg.DegradedThreshold = 1
	cfg.WriteFreq = clock.FrequencyFromMHz(20)
	cfg.ReadFreq = clock.FrequencyFromMHz(1)
	cfg.Policy = arbiter.RoundRobin

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = s.Run(context.Background(), changingRows(20, 1))
	if !errors.Is(err, domain.ErrOverflow) {
		t.Fatalf("Run() error = %v, want ErrOverflow", err)
	}
}

func TestRunHonoursContext(t *testing.T) {
	s, err := New(testConfig(arbiter.RoundRobin))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, changingRows(10, 3)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunNoRows(t *testing.T) {
	s, err := New(testConfig(arbiter.CongestionAware))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := s.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Counters.Ticks != 0 || len(res.Trace) != 0 {
		t.Errorf("empty run produced ticks=%d trace=%d", res.Counters.Ticks, len(res.Trace))
	}
}

type recordingSink struct {
	degraded []int
	pops     int
	skips    int
	idles    int
}

func (r *recordingSink) OnDegraded(channel, _, _ int) { r.degraded = append(r.degraded, channel) }
func (r *recordingSink) OnPop(domain.Entry)           { r.pops++ }
func (r *recordingSink) OnSkip(int, int)              { r.skips++ }
func (r *recordingSink) OnIdle(int)                   { r.idles++ }

func TestRunDegradedEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels = 2
	cfg.QueueDepth = 16
	cfg.DegradedMode = true
	cfg.DegradedThreshold = 12
	cfg.WriteFreq = clock.FrequencyFromMHz(20)
	cfg.ReadFreq = clock.FrequencyFromMHz(10)
	cfg.Policy = arbiter.RoundRobin

	sink := &recordingSink{}
	s, err := New(cfg, WithEventSink(sink))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := s.Run(context.Background(), changingRows(12, 2))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.degraded) == 0 {
		t.Fatal("no degraded events recorded")
	}
	if res.Counters.Degraded != len(sink.degraded) {
		t.Errorf("Degraded = %d, sink saw %d", res.Counters.Degraded, len(sink.degraded))
	}
	if sink.pops != res.Counters.Pops || sink.skips != res.Counters.Skips || sink.idles != res.Counters.Idles {
		t.Errorf("sink counts %d/%d/%d differ from counters %+v", sink.pops, sink.skips, sink.idles, res.Counters)
	}
}

func TestNewRejectsMixedEncoderWidths(t *testing.T) {
	cfg := testConfig(arbiter.RoundRobin)
	factory := func(ch int) ports.Encoder {
		if ch == 1 {
			return &wideEncoder{}
		}
		return encoder.NewRow5P()
	}
	if _, err := New(cfg, WithEncoderFactory(factory)); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

type wideEncoder struct{}

func (wideEncoder) Encode(int, []uint8) ([]domain.Word, error) { return nil, nil }
func (wideEncoder) Width() int                                 { return 6 }
func (wideEncoder) Reset()                                     {}
