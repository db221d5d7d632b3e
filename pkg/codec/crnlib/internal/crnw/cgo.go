//go:build crnlib && cgo

// Package crnw is the thin cgo layer over the crnlib C++ shim.
package crnw

/*
#cgo CXXFLAGS: -O2 -std=c++11
#cgo LDFLAGS: -lcrn -lstdc++ -lm -pthread

#include <stdlib.h>
#include "crnw.h"
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// ErrorString returns the shim's description of code.
func ErrorString(code int) string {
	return C.GoString(C.crnw_error_string(C.int(code)))
}

// Read parses a complete CRN container. The returned handle must be passed to Destroy.
func Read(data []byte) (unsafe.Pointer, int) {
	if len(data) == 0 {
		return nil, int(C.CRNW_ERR_BAD_ARG)
	}
	var tex unsafe.Pointer
	code := C.crnw_read(unsafe.Pointer(&data[0]), C.size_t(len(data)), &tex)
	runtime.KeepAlive(data)
	return tex, int(code)
}

// Levels returns the mip level count of tex.
func Levels(tex unsafe.Pointer) int {
	return int(C.crnw_levels(tex))
}

// Write encodes tex and returns a copy of the crnlib output buffer.
func Write(tex unsafe.Pointer, format, baseLevel int, direct bool) ([]byte, int) {
	var out *C.uint8_t
	var size C.size_t
	d := C.int(0)
	if direct {
		d = 1
	}

	code := C.crnw_write(tex, C.int(format), C.int(baseLevel), d, &out, &size)
	if code != C.CRNW_OK {
		return nil, int(code)
	}
	defer C.crnw_free_buffer(out)

	return C.GoBytes(unsafe.Pointer(out), C.int(size)), 0
}

// Destroy frees tex.
func Destroy(tex unsafe.Pointer) {
	if tex != nil {
		C.crnw_destroy(tex)
	}
}
