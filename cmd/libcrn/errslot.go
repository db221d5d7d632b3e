package main

import (
	"sync"
	"unsafe"
)

// messageSlots holds one C string per key. A stored string stays valid until
// its key is set again or freed. Keys are never evicted on their own; a slot
// lives until clear or close.
type messageSlots struct {
	alloc func(string) unsafe.Pointer
	free  func(unsafe.Pointer)

	mu    sync.Mutex
	slots map[uint64]unsafe.Pointer
	empty unsafe.Pointer
}

func newMessageSlots(alloc func(string) unsafe.Pointer, free func(unsafe.Pointer)) *messageSlots {
	return &messageSlots{
		alloc: alloc,
		free:  free,
		slots: make(map[uint64]unsafe.Pointer),
	}
}

func (m *messageSlots) set(key uint64, msg string) {
	p := m.alloc(msg)

	m.mu.Lock()
	old := m.slots[key]
	m.slots[key] = p
	m.mu.Unlock()

	if old != nil {
		m.free(old)
	}
}

// get returns the string for key, or the shared empty string.
func (m *messageSlots) get(key uint64) unsafe.Pointer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.slots[key]; ok {
		return p
	}
	return m.emptyLocked()
}

// none returns the shared empty string.
func (m *messageSlots) none() unsafe.Pointer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emptyLocked()
}

func (m *messageSlots) emptyLocked() unsafe.Pointer {
	if m.empty == nil {
		m.empty = m.alloc("")
	}
	return m.empty
}

// clear frees the string stored for key. Later gets return the empty string.
func (m *messageSlots) clear(key uint64) {
	m.mu.Lock()
	p, ok := m.slots[key]
	delete(m.slots, key)
	m.mu.Unlock()

	if ok {
		m.free(p)
	}
}

// close frees every stored string. Pointers returned earlier become invalid.
func (m *messageSlots) close() {
	m.mu.Lock()
	slots, empty := m.slots, m.empty
	m.slots = make(map[uint64]unsafe.Pointer)
	m.empty = nil
	m.mu.Unlock()

	for _, p := range slots {
		m.free(p)
	}
	if empty != nil {
		m.free(empty)
	}
}

func (m *messageSlots) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
