package ownership

import (
	"sync"
	"unsafe"
)

// Registry maps pointers handed to a caller back to the Buffer that owns them.
// The lock is held only for map access, never while memory is allocated for
// or freed from a buffer.
type Registry struct {
	mu      sync.Mutex
	entries map[unsafe.Pointer]*Buffer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[unsafe.Pointer]*Buffer),
	}
}

// Track records b under its pointer. Re-tracking a pointer replaces the
// previous entry without releasing it.
func (r *Registry) Track(b *Buffer) {
	b.registry.Store(r)

	r.mu.Lock()
	r.entries[b.ptr] = b
	r.mu.Unlock()
}

// Release frees the buffer tracked under p and removes the entry.
// It reports false, and does nothing, when p is not tracked.
func (r *Registry) Release(p unsafe.Pointer) bool {
	r.mu.Lock()
	b, ok := r.entries[p]
	if ok {
		delete(r.entries, p)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	b.free()
	return true
}

// Lookup returns the shape recorded for p.
func (r *Registry) Lookup(p unsafe.Pointer) (Shape, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.entries[p]
	if !ok {
		return 0, false
	}
	return b.shape, true
}

// Len returns the number of tracked buffers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ReleaseAll frees every tracked buffer and returns how many were released.
func (r *Registry) ReleaseAll() int {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[unsafe.Pointer]*Buffer)
	r.mu.Unlock()

	for _, b := range entries {
		b.free()
	}
	return len(entries)
}

// forget removes b if it is still the entry for its pointer.
func (r *Registry) forget(b *Buffer) {
	r.mu.Lock()
	if r.entries[b.ptr] == b {
		delete(r.entries, b.ptr)
	}
	r.mu.Unlock()
}
