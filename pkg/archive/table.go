package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBadTable is returned when the segment table does not match the payload.
var ErrBadTable = errors.New("archive: invalid segment table")

// tableSize returns the encoded size of a table for n segments.
func tableSize(n int) int {
	return 4 + 4*n
}

// encodeSegments lays out the segment table followed by the payloads.
func encodeSegments(segments [][]byte) []byte {
	size := tableSize(len(segments))
	for _, s := range segments {
		size += len(s)
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(segments)))
	offset := tableSize(len(segments))
	for i, s := range segments {
		binary.LittleEndian.PutUint32(buf[4+4*i:8+4*i], uint32(len(s)))
		copy(buf[offset:], s)
		offset += len(s)
	}
	return buf
}

// decodeSegments splits a decompressed archive body into segments.
// The returned slices alias data.
func decodeSegments(data []byte) ([][]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadTable, len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	if uint64(tableSize(count)) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d entries exceed %d bytes", ErrBadTable, count, len(data))
	}

	segments := make([][]byte, count)
	offset := uint64(tableSize(count))
	for i := 0; i < count; i++ {
		length := uint64(binary.LittleEndian.Uint32(data[4+4*i : 8+4*i]))
		if offset+length > uint64(len(data)) {
			return nil, fmt.Errorf("%w: segment %d overruns payload", ErrBadTable, i)
		}
		segments[i] = data[offset : offset+length]
		offset += length
	}
	if offset != uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadTable, uint64(len(data))-offset)
	}
	return segments, nil
}
