// Package ownership tracks buffers that are allocated here but owned and
// released by a caller, typically on the far side of a C boundary.
//
// A Buffer remembers how it was allocated (Scalar or Array) so it can be
// released the same way. A Registry maps raw pointers back to their Buffer
// for callers that only hold the pointer.
package ownership

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Shape is the allocation form of a buffer.
type Shape uint8

const (
	// Scalar is a single object.
	Scalar Shape = iota
	// Array is a contiguous block sized at allocation time.
	Array
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// ErrInvalidSize is returned for non-positive allocation sizes.
var ErrInvalidSize = errors.New("ownership: invalid allocation size")

// Allocator hands out memory that outlives the call that produced it.
// Free is always called with the shape passed to Alloc.
type Allocator interface {
	Alloc(shape Shape, size int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer, shape Shape)
}

// Buffer is an owned block of memory that knows how to release itself.
// Release is safe to call more than once and from multiple goroutines.
type Buffer struct {
	ptr   unsafe.Pointer
	size  int
	shape Shape
	alloc Allocator

	once     sync.Once
	released atomic.Bool
	registry atomic.Pointer[Registry]
}

// NewBuffer allocates size bytes from alloc.
func NewBuffer(alloc Allocator, shape Shape, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	p, err := alloc.Alloc(shape, size)
	if err != nil {
		return nil, fmt.Errorf("alloc %s of %d bytes: %w", shape, size, err)
	}
	return &Buffer{ptr: p, size: size, shape: shape, alloc: alloc}, nil
}

// CopyBuffer allocates an Array buffer from alloc holding a copy of data.
func CopyBuffer(alloc Allocator, data []byte) (*Buffer, error) {
	b, err := NewBuffer(alloc, Array, len(data))
	if err != nil {
		return nil, err
	}
	copy(b.Bytes(), data)
	return b, nil
}

// Pointer returns the address of the first byte.
func (b *Buffer) Pointer() unsafe.Pointer {
	return b.ptr
}

// Len returns the size in bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Shape returns the allocation shape.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Released reports whether the buffer has been released.
func (b *Buffer) Released() bool {
	return b.released.Load()
}

// Bytes returns the buffer contents, or nil once released.
func (b *Buffer) Bytes() []byte {
	if b.released.Load() {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// Release removes the buffer from its registry, if any, and frees it.
func (b *Buffer) Release() {
	if r := b.registry.Load(); r != nil {
		r.forget(b)
	}
	b.free()
}

func (b *Buffer) free() {
	b.once.Do(func() {
		b.released.Store(true)
		b.alloc.Free(b.ptr, b.shape)
	})
}
