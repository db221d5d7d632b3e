package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/goopsie/crnbridge/pkg/ownership"
)

var errOutOfMemory = errors.New("libcrn: out of memory")

// cAllocator allocates output buffers with malloc so callers can hold them
// past the Go call that produced them.
type cAllocator struct{}

func (cAllocator) Alloc(shape ownership.Shape, size int) (unsafe.Pointer, error) {
	p := C.malloc(C.size_t(size))
	if p == nil {
		return nil, errOutOfMemory
	}
	return p, nil
}

func (cAllocator) Free(p unsafe.Pointer, shape ownership.Shape) {
	C.free(p)
}

func cString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

func cFree(p unsafe.Pointer) {
	C.free(p)
}
