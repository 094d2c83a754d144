package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/readout/internal/domain"
)

func TestReportFileRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	repo := NewReportFileRepository(dir)
	ctx := context.Background()

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := domain.Report{
		RunID:         "b",
		Policy:        "carr",
		Format:        "stuffed",
		Channels:      2,
		QueueDepth:    256,
		WriteInterval: 15,
		ReadInterval:  8,
		Counters:      domain.Counters{Ticks: 30, Writes: 2, Reads: 4, Pops: 3, Idles: 1},
		Drained:       []int{2, 1},
		Residual:      []int{0, 0},
		PeakOccupancy: []int{2, 1},
		Frames:        domain.FrameStats{Headers: 1, Enders: 1, EncodedWords: 10, OriginalWords: 3, Ratio: 10.0 / 3},
		StartedAt:     started,
		FinishedAt:    started.Add(time.Second),
	}

	path, err := repo.Save(ctx, report)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, "report-b.json") {
		t.Errorf("Save() path = %v", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx, "b")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(report, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	report.RunID = "a"
	if _, err := repo.Save(ctx, report); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	ids, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.Load(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
	if _, err := repo.Save(ctx, domain.Report{}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("Save(no id) error = %v, want ErrInvalidConfig", err)
	}
}

func TestReportFileRepository_ListMissingDir(t *testing.T) {
	repo := NewReportFileRepository(filepath.Join(t.TempDir(), "nope"))
	ids, err := repo.List(context.Background())
	if err != nil || len(ids) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", ids, err)
	}
}

func TestWriteTrace(t *testing.T) {
	trace := domain.Trace{
		{ReadIndex: 0, Channel: 1, Word: 0x0049},
		{ReadIndex: 2, Channel: 0, Word: 0x8005},
	}
	var buf bytes.Buffer
	if err := WriteTrace(&buf, trace); err != nil {
		t.Fatalf("WriteTrace() error = %v", err)
	}
	want := TraceHeader + "\n" +
		"0, 1, 0x0049, 73\n" +
		"2, 0, 0x8005, 32773\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTrace() =\n%s\nwant\n%s", got, want)
	}

	back, err := ReadTrace(&buf)
	if err != nil {
		t.Fatalf("ReadTrace() error = %v", err)
	}
	if diff := cmp.Diff(trace, back); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTraceErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "0, 1, 0x0001"},
		{"bad index", "x, 1, 0x0001, 1"},
		{"negative channel", "0, -1, 0x0001, 1"},
		{"bad hex", "0, 1, 0xZZ, 1"},
		{"decimal mismatch", "0, 1, 0x0010, 15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrace(strings.NewReader(TraceHeader + "\n" + tt.line + "\n"))
			if !errors.Is(err, domain.ErrRange) {
				t.Errorf("ReadTrace() error = %v, want ErrRange", err)
			}
		})
	}
}

func TestSaveTraceAndFrames(t *testing.T) {
	dir := t.TempDir()

	trace := domain.Trace{{ReadIndex: 0, Channel: 0, Word: 1}}
	tracePath := filepath.Join(dir, "out", "trace.txt")
	if err := SaveTrace(tracePath, trace); err != nil {
		t.Fatalf("SaveTrace() error = %v", err)
	}
	f, err := os.Open(tracePath)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()
	back, err := ReadTrace(f)
	if err != nil {
		t.Fatalf("ReadTrace() error = %v", err)
	}
	if diff := cmp.Diff(trace, back); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}

	words := []uint16{0xFACE, 0x0001, 0x0110, 0x1234, 0xDEAD}
	framesPath := filepath.Join(dir, "frames.bin")
	if err := SaveFrames(framesPath, words); err != nil {
		t.Fatalf("SaveFrames() error = %v", err)
	}
	raw, err := os.ReadFile(framesPath)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}
	if !bytes.Equal(raw[:4], []byte{0xFA, 0xCE, 0x00, 0x01}) {
		t.Errorf("frames not big-endian: % x", raw[:4])
	}
	got, err := LoadFrames(framesPath)
	if err != nil {
		t.Fatalf("LoadFrames() error = %v", err)
	}
	if diff := cmp.Diff(words, got); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}
