package segment_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/goopsie/crnbridge/internal/crntest"
	"github.com/goopsie/crnbridge/pkg/crn"
	"github.com/goopsie/crnbridge/pkg/segment"
)

var sixLevels = []uint32{0, 100, 250, 500, 900, 1400, 2000}

const headerSize = crntest.DefaultHeaderByteSize

func TestReassemble(t *testing.T) {
	input := crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: 3}.Bytes()

	t.Run("ZeroFill", func(t *testing.T) {
		c, err := segment.Reassemble(input, segment.Descriptor{Levels: 3})
		if err != nil {
			t.Fatalf("reassemble: %v", err)
		}

		wantSize := headerSize + 500 + (len(input) - headerSize)
		if len(c.Data) != wantSize {
			t.Fatalf("size: got %d, want %d", len(c.Data), wantSize)
		}
		if !bytes.Equal(c.Data[:headerSize], input[:headerSize]) {
			t.Error("header region differs from input")
		}
		for i, b := range c.Data[headerSize : headerSize+500] {
			if b != 0 {
				t.Fatalf("reserved byte %d: got %d, want 0", i, b)
			}
		}
		if !bytes.Equal(c.Data[headerSize+500:], input[headerSize:]) {
			t.Error("tail not copied verbatim at headerByteSize+levelOffsets[3]")
		}
		if c.BaseLevel != 3 {
			t.Errorf("BaseLevel: got %d, want 3", c.BaseLevel)
		}
	})

	t.Run("ExternalBytes", func(t *testing.T) {
		external := make([]byte, 500)
		for i := range external {
			external[i] = crntest.Pattern(uint32(i))
		}

		c, err := segment.Reassemble(input, segment.Descriptor{Levels: 3, Bytes: external})
		if err != nil {
			t.Fatalf("reassemble: %v", err)
		}
		if !bytes.Equal(c.Data[headerSize:headerSize+500], external) {
			t.Error("reserved region does not match external bytes")
		}
		if c.BaseLevel != 0 {
			t.Errorf("BaseLevel: got %d, want 0", c.BaseLevel)
		}

		// With every level supplied the result equals the complete container.
		complete := crntest.Container{LevelOffsets: sixLevels, Segmented: true}.Bytes()
		if !bytes.Equal(c.Data, complete) {
			t.Error("reassembled container differs from complete container")
		}
	})

	t.Run("ShortExternalBytes", func(t *testing.T) {
		external := bytes.Repeat([]byte{0xff}, 100)

		c, err := segment.Reassemble(input, segment.Descriptor{Levels: 3, Bytes: external})
		if err != nil {
			t.Fatalf("reassemble: %v", err)
		}
		if !bytes.Equal(c.Data[headerSize:headerSize+100], external) {
			t.Error("external bytes not copied")
		}
		for _, b := range c.Data[headerSize+100 : headerSize+500] {
			if b != 0 {
				t.Fatal("remainder of reserved region not zero")
			}
		}
	})

	t.Run("Reparse", func(t *testing.T) {
		c, err := segment.Reassemble(input, segment.Descriptor{Levels: 3})
		if err != nil {
			t.Fatalf("reassemble: %v", err)
		}
		h, err := crn.Parse(c.Data)
		if err != nil {
			t.Fatalf("parse reassembled: %v", err)
		}
		if h.DataSize != headerSize {
			t.Errorf("DataSize: got %d, want %d", h.DataSize, headerSize)
		}
		if got := headerSize + int(c.Header.PayloadSize()); got != len(c.Data) {
			t.Errorf("resolved container size: got %d, want %d", got, len(c.Data))
		}
		if got := c.Header.LevelSize(5); got != 600 {
			t.Errorf("last level size: got %d, want 600", got)
		}
		for level := 3; level < 6; level++ {
			start := headerSize + int(h.LevelOffsets[level])
			if got, want := c.Data[start], crntest.Pattern(h.LevelOffsets[level]); got != want {
				t.Errorf("level %d first byte: got %d, want %d", level, got, want)
			}
		}
	})
}

// stripLevels hand-builds a segmented container from a complete one: the
// segmented flag is set, the data size is rewritten to the header region size
// and the first k levels are cut from the payload.
func stripLevels(complete []byte, k int) []byte {
	h, err := crn.Parse(complete)
	if err != nil {
		panic(err)
	}
	out := append([]byte(nil), complete[:h.HeaderByteSize]...)
	flags := binary.BigEndian.Uint16(out[0x13:0x15])
	binary.BigEndian.PutUint16(out[0x13:0x15], flags|uint16(crn.FlagSegmented))
	binary.BigEndian.PutUint32(out[0x06:0x0A], h.HeaderByteSize)
	return append(out, complete[h.HeaderByteSize+h.LevelOffsets[k]:]...)
}

func TestReassembleStoredLayout(t *testing.T) {
	complete := crntest.Container{LevelOffsets: sixLevels}.Bytes()

	for k := 0; k < len(sixLevels)-1; k++ {
		input := stripLevels(complete, k)
		if got := binary.BigEndian.Uint32(input[0x06:0x0A]); got != headerSize {
			t.Fatalf("k=%d: stored data size %d, want %d", k, got, headerSize)
		}

		c, err := segment.Reassemble(input, segment.Descriptor{Levels: k})
		if err != nil {
			t.Fatalf("k=%d: reassemble: %v", k, err)
		}
		if len(c.Data) != len(complete) {
			t.Errorf("k=%d: size got %d, want %d", k, len(c.Data), len(complete))
		}
		if !bytes.Equal(c.Data[:headerSize], input[:headerSize]) {
			t.Errorf("k=%d: header region not copied verbatim", k)
		}
		start := headerSize + int(sixLevels[k])
		if !bytes.Equal(c.Data[start:], complete[start:]) {
			t.Errorf("k=%d: tail not placed at level %d", k, k)
		}
		if got := c.Header.PayloadSize(); got != 2000 {
			t.Errorf("k=%d: PayloadSize got %d, want 2000", k, got)
		}
	}

	t.Run("EmptySegmentBytes", func(t *testing.T) {
		input := stripLevels(complete, 2)
		c, err := segment.Reassemble(input, segment.Descriptor{Levels: 2, Bytes: segment.Join([][]byte{{}, {}})})
		if err != nil {
			t.Fatalf("reassemble: %v", err)
		}
		if c.BaseLevel != 2 {
			t.Errorf("BaseLevel: got %d, want 2", c.BaseLevel)
		}
	})
}

func TestReassembleTailPlacement(t *testing.T) {
	for k := 0; k < len(sixLevels)-1; k++ {
		input := crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: k}.Bytes()

		c, err := segment.Reassemble(input, segment.Descriptor{Levels: k})
		if err != nil {
			t.Fatalf("k=%d: reassemble: %v", k, err)
		}

		start := headerSize + int(sixLevels[k])
		tail := c.Data[start:]
		if len(tail) != len(input)-headerSize {
			t.Errorf("k=%d: tail length got %d, want %d", k, len(tail), len(input)-headerSize)
		}
		if !bytes.Equal(tail, input[headerSize:]) {
			t.Errorf("k=%d: tail mismatch", k)
		}
	}
}

func TestReassembleErrors(t *testing.T) {
	segmented := crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: 3}.Bytes()

	tests := []struct {
		name  string
		input []byte
		desc  segment.Descriptor
		want  error
	}{
		{
			name:  "NotSegmented",
			input: crntest.Container{LevelOffsets: sixLevels}.Bytes(),
			desc:  segment.Descriptor{Levels: 3},
			want:  segment.ErrNotSegmented,
		},
		{
			name:  "AllLevelsAbsent",
			input: segmented,
			desc:  segment.Descriptor{Levels: 6},
			want:  segment.ErrAllLevelsAbsent,
		},
		{
			name:  "MoreThanAllLevelsAbsent",
			input: segmented,
			desc:  segment.Descriptor{Levels: 9},
			want:  segment.ErrAllLevelsAbsent,
		},
		{
			name:  "TruncatedTail",
			input: segmented[:headerSize+900],
			desc:  segment.Descriptor{Levels: 3},
			want:  crn.ErrTruncatedInput,
		},
		{
			name:  "HeaderOnly",
			input: segmented[:headerSize],
			desc:  segment.Descriptor{Levels: 3},
			want:  crn.ErrTruncatedInput,
		},
		{
			name:  "WrongMissingCount",
			input: crntest.Container{LevelOffsets: sixLevels, Segmented: true, Missing: 5}.Bytes(),
			desc:  segment.Descriptor{Levels: 2},
			want:  crn.ErrTruncatedInput,
		},
		{
			name:  "SegmentOverflow",
			input: segmented,
			desc:  segment.Descriptor{Levels: 3, Bytes: make([]byte, 501)},
			want:  segment.ErrSegmentOverflow,
		},
		{
			name:  "MalformedHeader",
			input: segmented[:10],
			desc:  segment.Descriptor{Levels: 3},
			want:  crn.ErrMalformedHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := segment.Reassemble(tt.input, tt.desc)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if c != nil {
				t.Error("expected nil container on failure")
			}
		})
	}
}

func BenchmarkReassemble(b *testing.B) {
	offsets := []uint32{0, 1 << 20, 5 << 18, 11 << 17, 23 << 16, 47 << 15, 95 << 14}
	input := crntest.Container{LevelOffsets: offsets, Segmented: true, Missing: 2}.Bytes()
	desc := segment.Descriptor{Levels: 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := segment.Reassemble(input, desc); err != nil {
			b.Fatal(err)
		}
	}
}
