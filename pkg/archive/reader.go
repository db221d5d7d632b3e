package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"
)

const (
	// DefaultCompressionLevel is the default compression level for encoding.
	DefaultCompressionLevel = zstd.DefaultCompression
)

// Reader wraps an io.Reader to provide decompression of archive data.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte // Reusable buffer for header decoding
}

// NewReader creates a new archive reader from the given source.
// It reads and validates the header, then returns a reader for the decompressed body.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{
		header: &Header{},
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	reader.zReader = zstd.NewReader(io.LimitReader(r, int64(reader.header.CompressedLength)))
	return reader, nil
}

// Header returns the archive header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed body length. Validate keeps it within MaxLength.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// ReadAll reads the entire decompressed body from an archive.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, int64(reader.Length())))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if len(data) != reader.Length() {
		return nil, fmt.Errorf("read content: got %d bytes, header declares %d: %w", len(data), reader.Length(), io.ErrUnexpectedEOF)
	}

	return data, nil
}

// ReadSegments reads an archive and returns its segments in level order.
func ReadSegments(r io.Reader) ([][]byte, error) {
	data, err := ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeSegments(data)
}

// ReadFile reads the segments stored in the archive at path.
func ReadFile(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	segments, err := ReadSegments(f)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	return segments, nil
}
