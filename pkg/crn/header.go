// Package crn provides a read-only view over crunch (CRN) texture containers.
//
// A CRN file starts with a fixed header, followed by the codebook palettes and
// Huffman tables, followed by the mip level payloads. The header carries an
// offset table with one entry per level. Level 0 is the largest level and is
// stored first.
//
// Segmented containers physically omit their largest levels; those levels are
// shipped separately and must be reinserted before the container can be
// decoded (see package segment).
package crn

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Signature is the CRN file signature ("Hx").
const Signature = 0x4878

// FixedHeaderSize is the size of the header up to the level offset table.
const FixedHeaderSize = 70

// MinHeaderSize is the smallest possible header: the fixed part plus one level offset.
const MinHeaderSize = FixedHeaderSize + 4

// MaxLevels is the largest level count a CRN header can declare.
const MaxLevels = 16

// Flags is the header flag bitset.
type Flags uint16

const (
	// FlagSegmented marks a container whose largest levels are shipped as separate segments.
	FlagSegmented Flags = 1 << 0
)

var (
	// ErrMalformedHeader is returned when the header is too short or its offset table is inconsistent.
	ErrMalformedHeader = errors.New("crn: malformed header")

	// ErrTruncatedInput is returned when the offset table references bytes beyond the supplied buffer.
	ErrTruncatedInput = errors.New("crn: truncated input")
)

// Palette locates one codebook inside the container.
type Palette struct {
	Offset uint32 // 24-bit file offset
	Size   uint32 // 24-bit byte size
	Count  uint16 // number of entries
}

// Header is the parsed CRN header.
//
// LevelOffsets is relative to the end of the header region, so LevelOffsets[0]
// is always 0. It has LevelCount()+1 entries; the last entry is the end of the
// last level. All offsets are checked once by Parse.
//
// The meaning of DataSize depends on the segmented flag. A complete container
// stores its total size there. A segmented container stores the size of its
// header region instead, and the end of its last level is only known once the
// number of missing levels is: until then the last entry of LevelOffsets equals
// the start of the last level.
type Header struct {
	HeaderSize  uint16 // +0x02: size of the header structure including the offset table
	HeaderCRC16 uint16 // +0x04
	DataSize    uint32 // +0x06: container size, or header region size when segmented
	DataCRC16   uint16 // +0x0A
	Width       uint16 // +0x0C
	Height      uint16 // +0x0E
	Levels      uint8  // +0x10
	Faces       uint8  // +0x11
	Format      uint8  // +0x12: crn_format enum value
	Flags       Flags  // +0x13
	Reserved    uint32 // +0x15
	UserData0   uint32 // +0x19
	UserData1   uint32 // +0x1D

	ColorEndpoints Palette // +0x21
	ColorSelectors Palette // +0x29
	AlphaEndpoints Palette // +0x31
	AlphaSelectors Palette // +0x39

	TablesSize   uint16 // +0x41
	TablesOffset uint32 // +0x43: 24-bit

	// HeaderByteSize is the number of bytes preceding level 0: the header,
	// palettes and tables.
	HeaderByteSize uint32

	// LevelOffsets holds the start of each level relative to HeaderByteSize,
	// followed by the end of the last level.
	LevelOffsets []uint32
}

// Parse reads and validates the header at the start of data.
//
// Parse never reads past data. For complete containers it also checks that the
// declared data size fits the buffer. For segmented containers it checks that
// the declared header region matches level 0; their level bounds are checked
// when the missing levels are known.
func Parse(data []byte) (*Header, error) {
	if len(data) < MinHeaderSize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrMalformedHeader, MinHeaderSize, len(data))
	}

	if sig := binary.BigEndian.Uint16(data[0x00:0x02]); sig != Signature {
		return nil, fmt.Errorf("%w: invalid signature 0x%04x", ErrMalformedHeader, sig)
	}

	h := &Header{
		HeaderSize:  binary.BigEndian.Uint16(data[0x02:0x04]),
		HeaderCRC16: binary.BigEndian.Uint16(data[0x04:0x06]),
		DataSize:    binary.BigEndian.Uint32(data[0x06:0x0A]),
		DataCRC16:   binary.BigEndian.Uint16(data[0x0A:0x0C]),
		Width:       binary.BigEndian.Uint16(data[0x0C:0x0E]),
		Height:      binary.BigEndian.Uint16(data[0x0E:0x10]),
		Levels:      data[0x10],
		Faces:       data[0x11],
		Format:      data[0x12],
		Flags:       Flags(binary.BigEndian.Uint16(data[0x13:0x15])),
		Reserved:    binary.BigEndian.Uint32(data[0x15:0x19]),
		UserData0:   binary.BigEndian.Uint32(data[0x19:0x1D]),
		UserData1:   binary.BigEndian.Uint32(data[0x1D:0x21]),

		ColorEndpoints: decodePalette(data[0x21:0x29]),
		ColorSelectors: decodePalette(data[0x29:0x31]),
		AlphaEndpoints: decodePalette(data[0x31:0x39]),
		AlphaSelectors: decodePalette(data[0x39:0x41]),

		TablesSize:   binary.BigEndian.Uint16(data[0x41:0x43]),
		TablesOffset: uint24(data[0x43:0x46]),
	}

	levels := int(h.Levels)
	if levels == 0 || levels > MaxLevels {
		return nil, fmt.Errorf("%w: invalid level count %d", ErrMalformedHeader, levels)
	}

	tableEnd := FixedHeaderSize + 4*levels
	if int(h.HeaderSize) < tableEnd {
		return nil, fmt.Errorf("%w: header size %d too small for %d levels", ErrMalformedHeader, h.HeaderSize, levels)
	}
	if int(h.HeaderSize) > len(data) {
		return nil, fmt.Errorf("%w: header size %d exceeds input size %d", ErrMalformedHeader, h.HeaderSize, len(data))
	}

	first := binary.BigEndian.Uint32(data[FixedHeaderSize : FixedHeaderSize+4])
	if first < uint32(h.HeaderSize) {
		return nil, fmt.Errorf("%w: level 0 offset %d overlaps header of %d bytes", ErrMalformedHeader, first, h.HeaderSize)
	}
	h.HeaderByteSize = first

	h.LevelOffsets = make([]uint32, levels+1)
	prev := first
	for i := 0; i < levels; i++ {
		pos := FixedHeaderSize + 4*i
		ofs := binary.BigEndian.Uint32(data[pos : pos+4])
		if ofs < prev {
			return nil, fmt.Errorf("%w: level %d offset %d precedes level %d", ErrMalformedHeader, i, ofs, i-1)
		}
		h.LevelOffsets[i] = ofs - first
		prev = ofs
	}

	if h.IsSegmented() {
		if h.DataSize != first {
			return nil, fmt.Errorf("%w: segmented data size %d differs from level 0 offset %d", ErrMalformedHeader, h.DataSize, first)
		}
		if uint64(first) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: header region of %d bytes exceeds input size %d", ErrTruncatedInput, first, len(data))
		}
		h.LevelOffsets[levels] = prev - first
		return h, nil
	}

	if h.DataSize < prev {
		return nil, fmt.Errorf("%w: data size %d ends before level %d", ErrMalformedHeader, h.DataSize, levels-1)
	}
	if uint64(h.DataSize) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: data size %d exceeds input size %d", ErrTruncatedInput, h.DataSize, len(data))
	}
	h.LevelOffsets[levels] = h.DataSize - first

	return h, nil
}

// WithPayloadEnd returns a copy of h whose last level ends at end, relative to
// HeaderByteSize.
func (h *Header) WithPayloadEnd(end uint32) *Header {
	c := *h
	c.LevelOffsets = append([]uint32(nil), h.LevelOffsets...)
	c.LevelOffsets[len(c.LevelOffsets)-1] = end
	return &c
}

// IsSegmented reports whether the segmented flag is set.
func (h *Header) IsSegmented() bool {
	return h.Flags&FlagSegmented != 0
}

// LevelCount returns the number of mip levels declared.
func (h *Header) LevelCount() int {
	return int(h.Levels)
}

// LevelSize returns the payload size of level i.
func (h *Header) LevelSize(i int) uint32 {
	return h.LevelOffsets[i+1] - h.LevelOffsets[i]
}

// PayloadSize returns the size of all level payloads. For a segmented header
// that has not been reassembled it is the start of the last level.
func (h *Header) PayloadSize() uint32 {
	return h.LevelOffsets[h.LevelCount()]
}

// SpanSize returns the size of levels [0, n).
func (h *Header) SpanSize(n int) uint32 {
	return h.LevelOffsets[n] - h.LevelOffsets[0]
}

// String returns a human-readable representation.
func (h *Header) String() string {
	return fmt.Sprintf(
		"CRN: %dx%d, %d levels, %d faces, format=%s, header=%d, data_size=%d, segmented=%t",
		h.Width, h.Height, h.Levels, h.Faces,
		FormatName(h.Format),
		h.HeaderByteSize, h.DataSize, h.IsSegmented(),
	)
}

func decodePalette(b []byte) Palette {
	return Palette{
		Offset: uint24(b[0:3]),
		Size:   uint24(b[3:6]),
		Count:  binary.BigEndian.Uint16(b[6:8]),
	}
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
