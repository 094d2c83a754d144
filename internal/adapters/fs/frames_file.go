package fs

import (
	"os"

	"github.com/bft-labs/readout/internal/packet"
)

// SaveFrames writes the framed word stream to path as big-endian bytes.
func SaveFrames(path string, words []uint16) error {
	return writeAtomic(path, packet.Bytes(words), 0o644)
}

// LoadFrames reads a word stream written by SaveFrames.
func LoadFrames(path string) ([]uint16, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return packet.FromBytes(b)
}
