package fs

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bft-labs/readout/internal/domain"
)

// TraceHeader is the first line of a trace file.
const TraceHeader = "read_index, channel_id, word_hex, word_dec"

// WriteTrace writes one line per entry: read index, channel, the word in hex
// and the word in decimal.
func WriteTrace(w io.Writer, trace domain.Trace) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, TraceHeader); err != nil {
		return err
	}
	for _, e := range trace {
		if _, err := fmt.Fprintf(bw, "%d, %d, %s, %d\n", e.ReadIndex, e.Channel, e.Word, uint16(e.Word)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadTrace parses the format written by WriteTrace. The decimal column must
// agree with the hex column.
func ReadTrace(r io.Reader) (domain.Trace, error) {
	sc := bufio.NewScanner(r)
	var trace domain.Trace
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || (line == 1 && text == TraceHeader) {
			continue
		}
		e, err := parseTraceLine(text)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		trace = append(trace, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return trace, nil
}

func parseTraceLine(text string) (domain.Entry, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return domain.Entry{}, fmt.Errorf("%w: want 4 fields, got %d", domain.ErrRange, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: read index %q", domain.ErrRange, parts[0])
	}
	ch, err := strconv.Atoi(parts[1])
	if err != nil || ch < 0 {
		return domain.Entry{}, fmt.Errorf("%w: channel %q", domain.ErrRange, parts[1])
	}
	hex, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(parts[2]), "0x"), 16, 16)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: word %q", domain.ErrRange, parts[2])
	}
	dec, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil || dec != hex {
		return domain.Entry{}, fmt.Errorf("%w: decimal %q does not match %s", domain.ErrRange, parts[3], parts[2])
	}
	return domain.Entry{ReadIndex: idx, Channel: ch, Word: domain.Word(hex)}, nil
}

// SaveTrace writes trace to path atomically.
func SaveTrace(path string, trace domain.Trace) error {
	var buf bytes.Buffer
	if err := WriteTrace(&buf, trace); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes(), 0o644)
}
