// Package crntest builds synthetic CRN containers for tests.
package crntest

import (
	"github.com/goopsie/crnbridge/pkg/crn"
)

// DefaultHeaderByteSize leaves room for the offset table and a small tables region.
const DefaultHeaderByteSize = 128

// Container describes a synthetic container.
type Container struct {
	HeaderByteSize uint32   // bytes before level 0; DefaultHeaderByteSize when zero
	LevelOffsets   []uint32 // relative offsets, one more than the level count
	Segmented      bool
	Missing        int // leading levels left out of the payload
}

// Header returns the header described by c.
func (c Container) Header() *crn.Header {
	size := c.HeaderByteSize
	if size == 0 {
		size = DefaultHeaderByteSize
	}
	levels := len(c.LevelOffsets) - 1
	h := &crn.Header{
		HeaderSize:     uint16(crn.FixedHeaderSize + 4*levels),
		Width:          256,
		Height:         256,
		Levels:         uint8(levels),
		Faces:          1,
		Format:         crn.FormatDXT5,
		HeaderByteSize: size,
		LevelOffsets:   append([]uint32(nil), c.LevelOffsets...),
	}
	if c.Segmented {
		h.Flags |= crn.FlagSegmented
	}
	return h
}

// Bytes encodes the container. Payload byte at logical offset x is Pattern(x);
// the Missing leading levels are omitted. Segmented containers store the
// header region size as their data size.
func (c Container) Bytes() []byte {
	h := c.Header()
	head, err := h.MarshalBinary()
	if err != nil {
		panic(err)
	}

	start := c.LevelOffsets[c.Missing]
	end := c.LevelOffsets[len(c.LevelOffsets)-1]
	out := make([]byte, 0, len(head)+int(end-start))
	out = append(out, head...)
	for x := start; x < end; x++ {
		out = append(out, Pattern(x))
	}
	return out
}

// Pattern returns the payload byte stored at logical payload offset x. It is never zero.
func Pattern(x uint32) byte {
	return byte(x%251) + 1
}
