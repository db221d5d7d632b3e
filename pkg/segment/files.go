package segment

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// PrefixSize is the size of the length prefix carried by segment files.
const PrefixSize = 4

// File is a single level segment as stored on disk.
type File struct {
	Length  uint32 // declared length from the prefix; not validated
	Payload []byte
}

// ReadFile reads a segment file and strips its length prefix.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open segment: %w", err)
	}
	defer f.Close()

	seg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read segment %s: %w", path, err)
	}
	return seg, nil
}

// Read reads a length-prefixed segment from r.
func Read(r io.Reader) (*File, error) {
	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("read prefix: %w", err)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return &File{
		Length:  binary.LittleEndian.Uint32(prefix[:]),
		Payload: payload,
	}, nil
}

// LoadFiles reads segment files in level order and joins their payloads.
func LoadFiles(paths []string) ([]byte, error) {
	payloads := make([][]byte, 0, len(paths))
	for _, path := range paths {
		seg, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, seg.Payload)
	}
	return Join(payloads), nil
}

// Join concatenates segment payloads in level order. It returns nil when
// there are no payload bytes, so an empty set reads as no segments.
func Join(payloads [][]byte) []byte {
	total := 0
	for _, p := range payloads {
		total += len(p)
	}

	if total == 0 {
		return nil
	}

	out := make([]byte, 0, total)
	for _, p := range payloads {
		out = append(out, p...)
	}
	return out
}
