// Package segment rebuilds complete CRN containers from segmented ones.
//
// A segmented container omits its largest mip levels to save transfer size.
// Those levels are shipped as separate segment payloads, or not at all.
// Reassemble reinserts the missing span (zero-filled, or filled with the
// caller's segment bytes) so that the codec can read the result with the
// offsets already stored in the header. The input's length decides where the
// last level ends, since a segmented header only records its header size.
package segment

import (
	"errors"
	"fmt"

	"github.com/goopsie/crnbridge/pkg/crn"
)

var (
	// ErrNotSegmented is returned when reassembly is requested for a container without the segmented flag.
	ErrNotSegmented = errors.New("segment: container is not segmented")

	// ErrAllLevelsAbsent is returned when every level is declared missing, leaving nothing to recover from.
	ErrAllLevelsAbsent = errors.New("segment: all mip levels are segments")

	// ErrSegmentOverflow is returned when the supplied segment bytes exceed the reserved region.
	ErrSegmentOverflow = errors.New("segment: segment bytes exceed reserved region")
)

// Descriptor describes which levels are missing from a segmented container.
type Descriptor struct {
	// Levels is the number of leading (largest) levels absent from the input.
	Levels int

	// Bytes optionally holds the payload of the absent levels, in level order.
	// When nil the absent levels are zero-filled.
	Bytes []byte
}

// Container is a reassembled, complete container.
type Container struct {
	Data []byte

	// Header is the input header with the end of the last level resolved.
	// The header bytes in Data are the input's, unchanged.
	Header *crn.Header

	// BaseLevel is the first level that holds real data and should be exported.
	// It is zero when the absent levels were supplied by the caller.
	BaseLevel int
}

// Reassemble parses input and rebuilds the complete container.
func Reassemble(input []byte, desc Descriptor) (*Container, error) {
	h, err := crn.Parse(input)
	if err != nil {
		return nil, err
	}
	return ReassembleHeader(h, input, desc)
}

// ReassembleHeader rebuilds the complete container using an already parsed header.
//
// The output is headerByteSize + span(levels) + (len(input) - headerByteSize)
// bytes. The header region is copied verbatim; the input tail is copied to
// headerByteSize + LevelOffsets[desc.Levels] and its length decides where the
// last level ends.
func ReassembleHeader(h *crn.Header, input []byte, desc Descriptor) (*Container, error) {
	if !h.IsSegmented() {
		return nil, ErrNotSegmented
	}

	levels := h.LevelCount()
	if desc.Levels < 0 {
		return nil, fmt.Errorf("segment: negative level count %d", desc.Levels)
	}
	if desc.Levels >= levels {
		return nil, fmt.Errorf("%w: %d of %d levels missing", ErrAllLevelsAbsent, desc.Levels, levels)
	}

	headerSize := int(h.HeaderByteSize)
	if headerSize > len(input) {
		return nil, fmt.Errorf("%w: header region of %d bytes exceeds input size %d", crn.ErrTruncatedInput, headerSize, len(input))
	}
	tail := input[headerSize:]

	// The tail holds levels [desc.Levels, levels) and must reach into the last one.
	lastStart := h.LevelOffsets[levels-1] - h.LevelOffsets[desc.Levels]
	if uint64(len(tail)) <= uint64(lastStart) {
		return nil, fmt.Errorf("%w: %d bytes of level data, need more than %d for levels %d..%d",
			crn.ErrTruncatedInput, len(tail), lastStart, desc.Levels, levels-1)
	}
	end := uint64(h.LevelOffsets[desc.Levels]) + uint64(len(tail))
	if end > uint64(^uint32(0)-h.HeaderByteSize) {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the container limit", crn.ErrMalformedHeader, end)
	}

	var recovered uint32
	for level := 1; level <= desc.Levels; level++ {
		recovered += h.LevelOffsets[level] - h.LevelOffsets[level-1]
	}

	if uint64(len(desc.Bytes)) > uint64(recovered) {
		return nil, fmt.Errorf("%w: got %d bytes, reserved %d", ErrSegmentOverflow, len(desc.Bytes), recovered)
	}

	out := make([]byte, headerSize+int(recovered)+len(tail))
	copy(out, input[:headerSize])
	copy(out[headerSize+int(h.LevelOffsets[desc.Levels]):], tail)

	c := &Container{
		Data:      out,
		Header:    h.WithPayloadEnd(uint32(end)),
		BaseLevel: desc.Levels,
	}

	if desc.Bytes != nil {
		copy(out[headerSize+int(h.LevelOffsets[0]):], desc.Bytes)
		c.BaseLevel = 0
	}

	return c, nil
}
