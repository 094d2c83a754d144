package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	zero := 0
	neg := -1
	seed := int64(42)

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Channels:     8,
				QueueDepth:   128,
				WriteFreq:    "40",
				Policy:       "urgency",
				DegradedMode: &trueVal,
				Seed:         &seed,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Channels:     8,
				QueueDepth:   128,
				WriteFreq:    "40",
				Policy:       "urgency",
				DegradedMode: true,
				Seed:         42,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Channels: 8,
				Policy:   "rr",
			},
			changed: map[string]bool{"channels": true},
			initial: Config{
				Channels: 2,
				Policy:   "carr",
			},
			expected: Config{
				Channels: 2, // unchanged because flag was set
				Policy:   "rr",
			},
		},
		{
			name: "zero and negative pointers are applied",
			fileConfig: FileConfig{
				DegradedThreshold: &zero,
				MaxSegmentWords:   &neg,
			},
			changed: map[string]bool{},
			initial: Config{
				DegradedThreshold: 4,
				MaxSegmentWords:   32,
			},
			expected: Config{
				DegradedThreshold: 0,
				MaxSegmentWords:   -1,
			},
		},
		{
			name:       "zero ints leave defaults",
			fileConfig: FileConfig{Channels: 0, Rows: 0},
			changed:    map[string]bool{},
			initial:    Config{Channels: 4, Rows: 1000},
			expected:   Config{Channels: 4, Rows: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			if err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed); err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `
channels = 6
policy = "rr-skip"
write_freq = "20"
degraded_mode = true
degraded_threshold = 0
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
channels: 6
policy: rr-skip
write_freq: "20"
degraded_mode: true
degraded_threshold: 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to create test config file: %v", err)
			}

			fc, err := LoadFileConfig(configPath)
			if err != nil {
				t.Fatalf("LoadFileConfig() error = %v", err)
			}
			if fc.Channels != 6 {
				t.Errorf("Channels = %v, want 6", fc.Channels)
			}
			if fc.Policy != "rr-skip" {
				t.Errorf("Policy = %v, want rr-skip", fc.Policy)
			}
			if fc.WriteFreq != "20" {
				t.Errorf("WriteFreq = %v, want 20", fc.WriteFreq)
			}
			if fc.DegradedMode == nil || !*fc.DegradedMode {
				t.Errorf("DegradedMode = %v, want true", fc.DegradedMode)
			}
			if fc.DegradedThreshold == nil || *fc.DegradedThreshold != 0 {
				t.Errorf("DegradedThreshold = %v, want 0", fc.DegradedThreshold)
			}
			if fc.MaxSegmentWords != nil {
				t.Errorf("MaxSegmentWords = %v, want nil", *fc.MaxSegmentWords)
			}
		})
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.toml")

	invalidContent := `
channels = 4
this is not valid toml
`
	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestLoadFileConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yml")

	if err := os.WriteFile(configPath, []byte("channels: [4\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid YAML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	// Should return a path containing .readout
	if path != "" && !strings.Contains(path, ".readout") {
		t.Errorf("DefaultConfigPath() = %v, should contain .readout", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
