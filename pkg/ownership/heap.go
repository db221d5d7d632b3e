package ownership

import (
	"fmt"
	"sync"
	"unsafe"
)

// HeapAllocator allocates from the Go heap and keeps every block reachable
// until it is freed. Its memory must not be handed to C code.
type HeapAllocator struct {
	mu   sync.Mutex
	live map[unsafe.Pointer][]byte
}

// NewHeapAllocator creates a heap allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{
		live: make(map[unsafe.Pointer][]byte),
	}
}

// Alloc allocates a zeroed block of size bytes.
func (a *HeapAllocator) Alloc(shape Shape, size int) (unsafe.Pointer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	data := make([]byte, size)
	p := unsafe.Pointer(&data[0])

	a.mu.Lock()
	a.live[p] = data
	a.mu.Unlock()
	return p, nil
}

// Free drops the block at p. Unknown pointers are ignored.
func (a *HeapAllocator) Free(p unsafe.Pointer, shape Shape) {
	a.mu.Lock()
	delete(a.live, p)
	a.mu.Unlock()
}

// Live returns the number of blocks not yet freed.
func (a *HeapAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
