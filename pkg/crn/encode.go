package crn

import (
	"encoding/binary"
	"fmt"
)

// crn_format enum values
const (
	FormatDXT1     = 0
	FormatDXT3     = 1
	FormatDXT5     = 2
	FormatDXT5CCxY = 3
	FormatDXT5xGxR = 4
	FormatDXT5xGBR = 5
	FormatDXT5AGBR = 6
	FormatDXNXY    = 7
	FormatDXNYX    = 8
	FormatDXT5A    = 9
	FormatETC1     = 10
)

// FormatName returns a human-readable name for a crn_format value.
func FormatName(format uint8) string {
	switch format {
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	case FormatDXT5CCxY:
		return "DXT5_CCxY"
	case FormatDXT5xGxR:
		return "DXT5_xGxR"
	case FormatDXT5xGBR:
		return "DXT5_xGBR"
	case FormatDXT5AGBR:
		return "DXT5_AGBR"
	case FormatDXNXY:
		return "DXN_XY"
	case FormatDXNYX:
		return "DXN_YX"
	case FormatDXT5A:
		return "DXT5A"
	case FormatETC1:
		return "ETC1"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", format)
	}
}

// MarshalBinary encodes the header region (HeaderByteSize bytes).
// The bytes between the offset table and level 0 are zero. The data size
// field is derived: HeaderByteSize for segmented headers, HeaderByteSize plus
// the end of the last level otherwise.
func (h *Header) MarshalBinary() ([]byte, error) {
	levels := int(h.Levels)
	if levels == 0 || levels > MaxLevels {
		return nil, fmt.Errorf("%w: invalid level count %d", ErrMalformedHeader, levels)
	}
	if len(h.LevelOffsets) != levels+1 {
		return nil, fmt.Errorf("%w: %d level offsets for %d levels", ErrMalformedHeader, len(h.LevelOffsets), levels)
	}
	if int(h.HeaderSize) < FixedHeaderSize+4*levels || uint32(h.HeaderSize) > h.HeaderByteSize {
		return nil, fmt.Errorf("%w: header size %d does not fit header region %d", ErrMalformedHeader, h.HeaderSize, h.HeaderByteSize)
	}

	buf := make([]byte, h.HeaderByteSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header and offset table to buf.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	binary.BigEndian.PutUint16(buf[0x00:0x02], Signature)
	binary.BigEndian.PutUint16(buf[0x02:0x04], h.HeaderSize)
	binary.BigEndian.PutUint16(buf[0x04:0x06], h.HeaderCRC16)
	dataSize := h.HeaderByteSize
	if !h.IsSegmented() {
		dataSize += h.LevelOffsets[len(h.LevelOffsets)-1]
	}
	binary.BigEndian.PutUint32(buf[0x06:0x0A], dataSize)
	binary.BigEndian.PutUint16(buf[0x0A:0x0C], h.DataCRC16)
	binary.BigEndian.PutUint16(buf[0x0C:0x0E], h.Width)
	binary.BigEndian.PutUint16(buf[0x0E:0x10], h.Height)
	buf[0x10] = h.Levels
	buf[0x11] = h.Faces
	buf[0x12] = h.Format
	binary.BigEndian.PutUint16(buf[0x13:0x15], uint16(h.Flags))
	binary.BigEndian.PutUint32(buf[0x15:0x19], h.Reserved)
	binary.BigEndian.PutUint32(buf[0x19:0x1D], h.UserData0)
	binary.BigEndian.PutUint32(buf[0x1D:0x21], h.UserData1)

	encodePalette(buf[0x21:0x29], h.ColorEndpoints)
	encodePalette(buf[0x29:0x31], h.ColorSelectors)
	encodePalette(buf[0x31:0x39], h.AlphaEndpoints)
	encodePalette(buf[0x39:0x41], h.AlphaSelectors)

	binary.BigEndian.PutUint16(buf[0x41:0x43], h.TablesSize)
	putUint24(buf[0x43:0x46], h.TablesOffset)

	for i := 0; i < int(h.Levels); i++ {
		pos := FixedHeaderSize + 4*i
		binary.BigEndian.PutUint32(buf[pos:pos+4], h.HeaderByteSize+h.LevelOffsets[i])
	}
}

func encodePalette(b []byte, p Palette) {
	putUint24(b[0:3], p.Offset)
	putUint24(b[3:6], p.Size)
	binary.BigEndian.PutUint16(b[6:8], p.Count)
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
