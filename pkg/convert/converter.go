// Package convert turns CRN containers into output textures and hands the
// results back as owned buffers.
//
// A Converter parses the container header, reassembles segmented containers,
// runs the codec and tracks the output in an ownership registry. A Session
// adds a last-error slot on top of a Converter for callers that can only
// query failures after the fact.
package convert

import (
	"fmt"
	"unsafe"

	"github.com/google/uuid"

	"github.com/goopsie/crnbridge/internal/logger"
	"github.com/goopsie/crnbridge/pkg/codec"
	"github.com/goopsie/crnbridge/pkg/crn"
	"github.com/goopsie/crnbridge/pkg/ownership"
	"github.com/goopsie/crnbridge/pkg/segment"
)

// Converter converts CRN containers through a codec. It is safe for concurrent use
// provided the codec is.
type Converter struct {
	codec    codec.Codec
	alloc    ownership.Allocator
	registry *ownership.Registry
	log      logger.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithAllocator sets the allocator for output buffers. The default is a HeapAllocator.
func WithAllocator(a ownership.Allocator) Option {
	return func(c *Converter) {
		c.alloc = a
	}
}

// WithRegistry sets the registry that tracks output buffers.
func WithRegistry(r *ownership.Registry) Option {
	return func(c *Converter) {
		c.registry = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(c *Converter) {
		c.log = l
	}
}

// New creates a Converter around cdc.
func New(cdc codec.Codec, opts ...Option) *Converter {
	c := &Converter{codec: cdc}
	for _, opt := range opts {
		opt(c)
	}
	if c.alloc == nil {
		c.alloc = ownership.NewHeapAllocator()
	}
	if c.registry == nil {
		c.registry = ownership.NewRegistry()
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	return c
}

// Request describes one conversion.
type Request struct {
	Input  []byte
	Format codec.Format

	// SegmentedLevels is the number of leading levels missing from a
	// segmented Input. Zero means the input is complete.
	SegmentedLevels int

	// SegmentBytes optionally holds the missing levels' payload.
	SegmentBytes []byte
}

// Convert runs req and returns the tracked output buffer. On failure no
// buffer is returned and nothing stays tracked.
func (c *Converter) Convert(req Request) (*ownership.Buffer, error) {
	log := c.log.With("conversion", uuid.NewString())

	buf, err := c.convert(req, log)
	if err != nil {
		log.Warn("conversion failed", "error", err)
		return nil, err
	}
	return buf, nil
}

func (c *Converter) convert(req Request, log logger.Logger) (*ownership.Buffer, error) {
	if !req.Format.Valid() {
		return nil, newError(KindCodecEncode, "format", fmt.Errorf("%w: %d", ErrInvalidFormat, int32(req.Format)))
	}
	if req.SegmentedLevels < 0 {
		return nil, newError(KindSegmentation, "reassemble", fmt.Errorf("negative segmented level count %d", req.SegmentedLevels))
	}

	h, err := crn.Parse(req.Input)
	if err != nil {
		return nil, newError(KindHeaderParse, "parse", err)
	}
	log.Debug("parsed header", "header", h.String(), "segmented_levels", req.SegmentedLevels)

	data := req.Input
	opts := codec.EncodeOptions{Format: req.Format}

	switch {
	case h.IsSegmented() && req.SegmentedLevels == 0 && req.SegmentBytes == nil:
		opts.Direct = true
	case h.IsSegmented():
		rc, err := segment.ReassembleHeader(h, req.Input, segment.Descriptor{
			Levels: req.SegmentedLevels,
			Bytes:  req.SegmentBytes,
		})
		if err != nil {
			return nil, newError(KindSegmentation, "reassemble", err)
		}
		data = rc.Data
		opts.BaseLevel = rc.BaseLevel
		opts.Direct = true
		log.Debug("reassembled", "size", len(rc.Data), "base_level", rc.BaseLevel)
	case req.SegmentedLevels > 0:
		log.Warn("ignoring segmented level count for complete container", "segmented_levels", req.SegmentedLevels)
	}

	out, err := c.encode(data, opts)
	if err != nil {
		return nil, err
	}

	buf, err := ownership.CopyBuffer(c.alloc, out)
	if err != nil {
		return nil, newError(KindAllocation, "alloc", err)
	}
	c.registry.Track(buf)

	log.Debug("converted", "format", req.Format.String(), "size", buf.Len())
	return buf, nil
}

func (c *Converter) encode(data []byte, opts codec.EncodeOptions) ([]byte, error) {
	tex, err := c.codec.Decode(data)
	if err != nil {
		return nil, newError(KindCodecDecode, "decode", err)
	}
	defer tex.Close()

	out, err := tex.Encode(opts)
	if err != nil {
		return nil, newError(KindCodecEncode, "encode", err)
	}
	if len(out) == 0 {
		return nil, newError(KindCodecEncode, "encode", ErrEmptyOutput)
	}
	if !codec.Matches(opts.Format, out) {
		return nil, newError(KindCodecEncode, "encode", fmt.Errorf("%w: want %s", ErrFormatMismatch, opts.Format))
	}
	return out, nil
}

// Release frees a buffer previously returned by Convert. It reports false for
// pointers this converter does not track.
func (c *Converter) Release(p unsafe.Pointer) bool {
	return c.registry.Release(p)
}

// Registry returns the registry tracking output buffers.
func (c *Converter) Registry() *ownership.Registry {
	return c.registry
}
