package crn_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/goopsie/crnbridge/internal/crntest"
	"github.com/goopsie/crnbridge/pkg/crn"
)

var sixLevels = []uint32{0, 100, 250, 500, 900, 1400, 2000}

func TestParse(t *testing.T) {
	data := crntest.Container{LevelOffsets: sixLevels}.Bytes()

	h, err := crn.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if h.LevelCount() != 6 {
		t.Errorf("LevelCount: got %d, want 6", h.LevelCount())
	}
	if h.HeaderByteSize != crntest.DefaultHeaderByteSize {
		t.Errorf("HeaderByteSize: got %d, want %d", h.HeaderByteSize, crntest.DefaultHeaderByteSize)
	}
	if len(h.LevelOffsets) != 7 {
		t.Fatalf("LevelOffsets len: got %d, want 7", len(h.LevelOffsets))
	}
	for i, want := range sixLevels {
		if h.LevelOffsets[i] != want {
			t.Errorf("LevelOffsets[%d]: got %d, want %d", i, h.LevelOffsets[i], want)
		}
	}
	if h.IsSegmented() {
		t.Error("expected non-segmented header")
	}
	if h.DataSize != crntest.DefaultHeaderByteSize+2000 {
		t.Errorf("DataSize: got %d, want %d", h.DataSize, crntest.DefaultHeaderByteSize+2000)
	}
	if h.Width != 256 || h.Height != 256 {
		t.Errorf("dimensions: got %dx%d, want 256x256", h.Width, h.Height)
	}
}

func TestParseSegmented(t *testing.T) {
	data := crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: 3}.Bytes()

	h, err := crn.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !h.IsSegmented() {
		t.Error("expected segmented header")
	}
	if got := h.SpanSize(3); got != 500 {
		t.Errorf("SpanSize(3): got %d, want 500", got)
	}
	if h.DataSize != crntest.DefaultHeaderByteSize {
		t.Errorf("DataSize: got %d, want %d", h.DataSize, crntest.DefaultHeaderByteSize)
	}
	if got := binary.BigEndian.Uint32(data[0x06:0x0A]); got != crntest.DefaultHeaderByteSize {
		t.Errorf("stored data size: got %d, want %d", got, crntest.DefaultHeaderByteSize)
	}

	// The end of the last level is not known until reassembly.
	if got := h.PayloadSize(); got != 1400 {
		t.Errorf("PayloadSize: got %d, want 1400", got)
	}
	if got := h.LevelSize(4); got != 500 {
		t.Errorf("LevelSize(4): got %d, want 500", got)
	}
	if got := h.LevelSize(5); got != 0 {
		t.Errorf("LevelSize(5): got %d, want 0", got)
	}

	resolved := h.WithPayloadEnd(2000)
	if got := resolved.LevelSize(5); got != 600 {
		t.Errorf("resolved LevelSize(5): got %d, want 600", got)
	}
	if got := h.PayloadSize(); got != 1400 {
		t.Errorf("WithPayloadEnd modified the receiver: PayloadSize %d", got)
	}
}

func TestParseSegmentedErrors(t *testing.T) {
	valid := crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: 3}.Bytes()

	tests := []struct {
		name string
		size uint32
	}{
		{"CompleteSize", crntest.DefaultHeaderByteSize + 2000},
		{"PartialSize", crntest.DefaultHeaderByteSize + 1500},
		{"BelowHeader", crntest.DefaultHeaderByteSize - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]byte(nil), valid...)
			binary.BigEndian.PutUint32(b[0x06:0x0A], tt.size)
			if _, err := crn.Parse(b); !errors.Is(err, crn.ErrMalformedHeader) {
				t.Errorf("got %v, want %v", err, crn.ErrMalformedHeader)
			}
		})
	}

	t.Run("HeaderOnly", func(t *testing.T) {
		if _, err := crn.Parse(valid[:crntest.DefaultHeaderByteSize]); err != nil {
			t.Errorf("parse: %v", err)
		}
	})
}

func TestParseErrors(t *testing.T) {
	valid := crntest.Container{LevelOffsets: sixLevels}.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, crn.ErrMalformedHeader},
		{"ShorterThanMinimum", valid[:crn.MinHeaderSize-1], crn.ErrMalformedHeader},
		{"BadSignature", mutate(func(b []byte) []byte {
			b[0] = 'X'
			return b
		}), crn.ErrMalformedHeader},
		{"ZeroLevels", mutate(func(b []byte) []byte {
			b[0x10] = 0
			return b
		}), crn.ErrMalformedHeader},
		{"TooManyLevels", mutate(func(b []byte) []byte {
			b[0x10] = crn.MaxLevels + 1
			return b
		}), crn.ErrMalformedHeader},
		{"OffsetTablePastHeader", mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint16(b[0x02:0x04], crn.FixedHeaderSize)
			return b
		}), crn.ErrMalformedHeader},
		{"HeaderSizePastInput", valid[:crn.FixedHeaderSize+4*6-1], crn.ErrMalformedHeader},
		{"NonMonotonic", mutate(func(b []byte) []byte {
			pos := crn.FixedHeaderSize + 4*2
			binary.BigEndian.PutUint32(b[pos:pos+4], crntest.DefaultHeaderByteSize+50)
			return b
		}), crn.ErrMalformedHeader},
		{"LevelZeroOverlapsHeader", mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[crn.FixedHeaderSize:crn.FixedHeaderSize+4], 10)
			return b
		}), crn.ErrMalformedHeader},
		{"DataSizeBeforeLastLevel", mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[0x06:0x0A], crntest.DefaultHeaderByteSize+1000)
			return b
		}), crn.ErrMalformedHeader},
		{"Truncated", valid[:len(valid)-1], crn.ErrTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crn.Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarshalBinary(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		h := crntest.Container{LevelOffsets: sixLevels, Segmented: true}.Header()
		h.UserData0 = 0xdeadbeef
		h.ColorEndpoints = crn.Palette{Offset: 0x010203, Size: 0x040506, Count: 77}

		data, err := h.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if len(data) != crntest.DefaultHeaderByteSize {
			t.Fatalf("length: got %d, want %d", len(data), crntest.DefaultHeaderByteSize)
		}

		decoded, err := crn.Parse(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if decoded.UserData0 != h.UserData0 {
			t.Errorf("UserData0: got %x, want %x", decoded.UserData0, h.UserData0)
		}
		if decoded.ColorEndpoints != h.ColorEndpoints {
			t.Errorf("ColorEndpoints: got %+v, want %+v", decoded.ColorEndpoints, h.ColorEndpoints)
		}
		if decoded.Flags != crn.FlagSegmented {
			t.Errorf("Flags: got %x, want %x", decoded.Flags, crn.FlagSegmented)
		}
	})

	t.Run("OffsetCountMismatch", func(t *testing.T) {
		h := crntest.Container{LevelOffsets: sixLevels}.Header()
		h.LevelOffsets = h.LevelOffsets[:3]
		if _, err := h.MarshalBinary(); err == nil {
			t.Error("expected error for offset count mismatch")
		}
	})
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		format   uint8
		expected string
	}{
		{crn.FormatDXT1, "DXT1"},
		{crn.FormatDXT5, "DXT5"},
		{crn.FormatDXNYX, "DXN_YX"},
		{200, "UNKNOWN(200)"},
	}

	for _, tt := range tests {
		if name := crn.FormatName(tt.format); name != tt.expected {
			t.Errorf("Format %d: expected %s, got %s", tt.format, tt.expected, name)
		}
	}
}
