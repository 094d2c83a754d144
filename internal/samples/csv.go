// Package samples supplies input rows for a simulation, either read from a
// CSV file or generated synthetically.
package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bft-labs/readout/internal/domain"
)

// MaxPixel is the largest 3-bit pixel value.
const MaxPixel = 7

// ReadCSV parses one row per record. Integer cells are taken as quantised
// pixel values in [0,7]; cells containing a decimal point are intensities in
// [0,1] and go through q. Lines starting with '#' are ignored. Every record
// must have the same number of cells.
func ReadCSV(r io.Reader, q Quantiser) ([][]uint8, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var rows [][]uint8
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
		row := make([]uint8, len(rec))
		for i, cell := range rec {
			v, err := parseCell(cell, q)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %d: %w", line, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads rows from the file at path.
func LoadCSV(path string, q Quantiser) ([][]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, q)
}

func parseCell(cell string, q Quantiser) (uint8, error) {
	cell = strings.TrimSpace(cell)
	if strings.ContainsAny(cell, ".eE") {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", domain.ErrRange, cell)
		}
		if f < 0 || f > 1 {
			return 0, fmt.Errorf("%w: intensity %v outside [0,1]", domain.ErrRange, f)
		}
		return q.Quantise(f), nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrRange, cell)
	}
	if n < 0 || n > MaxPixel {
		return 0, fmt.Errorf("%w: pixel %d outside [0,%d]", domain.ErrRange, n, MaxPixel)
	}
	return uint8(n), nil
}

// WriteCSV writes rows as integer cells.
func WriteCSV(w io.Writer, rows [][]uint8) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0)
	for _, row := range rows {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, strconv.Itoa(int(v)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
