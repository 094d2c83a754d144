package cliconfig

import (
	"errors"
	"testing"

	"github.com/bft-labs/readout/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.QueueDepth != 256 {
		t.Errorf("QueueDepth = %v, want 256", cfg.QueueDepth)
	}
	if cfg.WordWidth != 16 {
		t.Errorf("WordWidth = %v, want 16", cfg.WordWidth)
	}
	if cfg.WriteFreq != "20" || cfg.ReadFreq != "37.5" {
		t.Errorf("frequencies = %v/%v, want 20/37.5", cfg.WriteFreq, cfg.ReadFreq)
	}
	if cfg.Policy != "carr" {
		t.Errorf("Policy = %v, want carr", cfg.Policy)
	}
	if cfg.MaxSegmentWords != 32 {
		t.Errorf("MaxSegmentWords = %v, want 32", cfg.MaxSegmentWords)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErr    bool
		wantPolicy string
		wantFormat string
	}{
		{
			name:       "defaults",
			mutate:     func(*Config) {},
			wantPolicy: "carr",
			wantFormat: "fixed",
		},
		{
			name: "long names are normalised",
			mutate: func(c *Config) {
				c.Policy = "Urgency-Weighted"
				c.PacketFormat = "variable-length"
			},
			wantPolicy: "urgency",
			wantFormat: "stuffed",
		},
		{
			name:    "zero channels",
			mutate:  func(c *Config) { c.Channels = 0 },
			wantErr: true,
		},
		{
			name:    "queue at almost-full margin",
			mutate:  func(c *Config) { c.QueueDepth = 4 },
			wantErr: true,
		},
		{
			name:    "word width too wide",
			mutate:  func(c *Config) { c.WordWidth = 17 },
			wantErr: true,
		},
		{
			name:    "bad write frequency",
			mutate:  func(c *Config) { c.WriteFreq = "fast" },
			wantErr: true,
		},
		{
			name:    "two fractional digits",
			mutate:  func(c *Config) { c.ReadFreq = "37.25" },
			wantErr: true,
		},
		{
			name:    "unknown policy",
			mutate:  func(c *Config) { c.Policy = "lottery" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.PacketFormat = "jumbo" },
			wantErr: true,
		},
		{
			name:    "threshold equals depth",
			mutate:  func(c *Config) { c.DegradedThreshold = c.QueueDepth },
			wantErr: true,
		},
		{
			name:    "no rows and no input",
			mutate:  func(c *Config) { c.Rows = 0 },
			wantErr: true,
		},
		{
			name: "input file without rows",
			mutate: func(c *Config) {
				c.Rows = 0
				c.Input = "rows.csv"
			},
			wantPolicy: "carr",
			wantFormat: "fixed",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if cfg.Policy != tt.wantPolicy {
				t.Errorf("Policy = %v, want %v", cfg.Policy, tt.wantPolicy)
			}
			if cfg.PacketFormat != tt.wantFormat {
				t.Errorf("PacketFormat = %v, want %v", cfg.PacketFormat, tt.wantFormat)
			}
		})
	}
}
