package encoder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/readout/internal/domain"
)

func TestPackUnpack(t *testing.T) {
	row := []uint8{1, 2, 3, 4, 7}
	w, err := Pack(row)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	want := domain.Word(1 | 2<<3 | 3<<6 | 4<<9 | 7<<12)
	if w != want {
		t.Fatalf("Pack = %v, want %v", w, want)
	}
	if w&TimestampFlag != 0 {
		t.Fatalf("data word %v collides with timing flag", w)
	}
	if diff := cmp.Diff(row, Unpack(w)); diff != "" {
		t.Errorf("Unpack mismatch (-want +got):\n%s", diff)
	}
}

func TestPack_Range(t *testing.T) {
	if _, err := Pack([]uint8{0, 8, 0, 0, 0}); !errors.Is(err, domain.ErrRange) {
		t.Fatalf("Pack with 4-bit pixel error = %v, want ErrRange", err)
	}
	if _, err := Pack([]uint8{0, 0}); !errors.Is(err, domain.ErrRange) {
		t.Fatalf("Pack with short row error = %v, want ErrRange", err)
	}
}

func TestRow5P_Encode(t *testing.T) {
	a := []uint8{1, 0, 0, 0, 0}
	b := []uint8{0, 1, 0, 0, 0}
	wa, _ := Pack(a)
	wb, _ := Pack(b)

	steps := []struct {
		ts   int
		row  []uint8
		want []domain.Word
	}{
		{0, a, []domain.Word{wa}},
		{1, b, []domain.Word{wb}},
		{2, b, nil},
		{3, b, nil},
		{4, a, []domain.Word{TimestampFlag | 4, wa}},
		{5, b, []domain.Word{wb}},
	}

	e := NewRow5P()
	for _, s := range steps {
		got, err := e.Encode(s.ts, s.row)
		if err != nil {
			t.Fatalf("Encode(%d): %v", s.ts, err)
		}
		if diff := cmp.Diff(s.want, got); diff != "" {
			t.Errorf("Encode(%d) mismatch (-want +got):\n%s", s.ts, diff)
		}
	}
}

func TestRow5P_RollOver(t *testing.T) {
	e := NewRow5P()
	row := []uint8{2, 2, 2, 2, 2}
	if _, err := e.Encode(0x7FFF, row); err != nil {
		t.Fatal(err)
	}
	got, err := e.Encode(0x8000, row)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]domain.Word{TimestampFlag}, got); diff != "" {
		t.Errorf("roll-over mismatch (-want +got):\n%s", diff)
	}
}

func TestRow5P_ChangedRowOnWrapAfterGap(t *testing.T) {
	e := NewRow5P()
	same := []uint8{1, 1, 1, 1, 1}
	for _, ts := range []int{0x7FFD, 0x7FFE, 0x7FFF} {
		if _, err := e.Encode(ts, same); err != nil {
			t.Fatal(err)
		}
	}
	changed := []uint8{4, 0, 4, 0, 4}
	got, err := e.Encode(0x8000, changed)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := Pack(changed)
	if diff := cmp.Diff([]domain.Word{TimestampFlag, data}, got); diff != "" {
		t.Errorf("wrap after suppressed rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRow5P_Reset(t *testing.T) {
	e := NewRow5P()
	row := []uint8{3, 0, 3, 0, 3}
	if _, err := e.Encode(0, row); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	got, err := e.Encode(7, row)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("after Reset a repeated row should encode as one data word, got %v", got)
	}
}

func TestBinarize(t *testing.T) {
	in := []uint8{0, 1, 5, 0, 7}
	want := []uint8{0, 1, 1, 0, 1}
	if diff := cmp.Diff(want, Binarize(in)); diff != "" {
		t.Errorf("Binarize mismatch (-want +got):\n%s", diff)
	}
	if in[2] != 5 {
		t.Error("Binarize modified its input")
	}
}
