package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

typedef struct {
	int32_t conversionType;
} ConversionOptions;
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/goopsie/crnbridge/pkg/codec"
	"github.com/goopsie/crnbridge/pkg/codec/crnlib"
	"github.com/goopsie/crnbridge/pkg/convert"
)

var errNullOutput = errors.New("libcrn: output pointers must not be null")

// codeBadContext is returned by CrnConvert for an unknown context handle.
const codeBadContext = -1

var (
	defaultOnce    sync.Once
	defaultSession *convert.Session

	// threadErrors holds the last legacy error of each OS thread until that
	// thread calls ClearError.
	threadErrors = newMessageSlots(cString, cFree)
)

func newSession() *convert.Session {
	return convert.NewSession(crnlib.New(),
		convert.WithAllocator(cAllocator{}),
		convert.WithLogger(loggerFromEnv(os.Getenv, os.Stderr)),
	)
}

func legacySession() *convert.Session {
	defaultOnce.Do(func() {
		defaultSession = newSession()
	})
	return defaultSession
}

func request(in *C.uint8_t, inSize C.size_t, format C.int32_t, levels C.size_t, seg *C.uint8_t, segSize C.size_t) convert.Request {
	req := convert.Request{
		Format:          codec.Format(format),
		SegmentedLevels: int(levels),
	}
	if in != nil && inSize > 0 {
		req.Input = unsafe.Slice((*byte)(unsafe.Pointer(in)), int(inSize))
	}
	if seg != nil && segSize > 0 {
		req.SegmentBytes = unsafe.Slice((*byte)(unsafe.Pointer(seg)), int(segSize))
	}
	return req
}

func recovered(r any) error {
	return &convert.Error{Kind: convert.KindInternal, Op: "libcrn", Err: fmt.Errorf("panic: %v", r)}
}

//export ConvertCrnInMemory
func ConvertCrnInMemory(in *C.uint8_t, inSize C.size_t, options C.ConversionOptions, numLevelSegments C.size_t,
	levelSegmentBytes *C.uint8_t, levelSegmentBytesSize C.size_t, outBuff **C.uint8_t, outBuffSize *C.size_t) (ok C.bool) {
	tid := threadID()
	defer func() {
		if r := recover(); r != nil {
			threadErrors.set(tid, recovered(r).Error())
			ok = false
		}
	}()

	if outBuff == nil || outBuffSize == nil {
		threadErrors.set(tid, errNullOutput.Error())
		return false
	}

	req := request(in, inSize, options.conversionType, numLevelSegments, levelSegmentBytes, levelSegmentBytesSize)
	buf, err := legacySession().Convert(req)
	if err != nil {
		threadErrors.set(tid, err.Error())
		return false
	}

	*outBuff = (*C.uint8_t)(buf.Pointer())
	*outBuffSize = C.size_t(buf.Len())
	return true
}

//export GetError
func GetError() *C.char {
	return (*C.char)(threadErrors.get(threadID()))
}

// ClearError frees the calling thread's last error. Callers that convert from
// short-lived threads should call it before the thread exits.
//
//export ClearError
func ClearError() {
	threadErrors.clear(threadID())
}

//export FreeMemory
func FreeMemory(data unsafe.Pointer) {
	defer func() { recover() }()
	if data != nil {
		legacySession().Release(data)
	}
}

// crnContext is the state behind a CrnCreateContext handle.
type crnContext struct {
	session *convert.Session
	errors  *messageSlots
}

func lookup(h C.uintptr_t) (ctx *crnContext, ok bool) {
	if h == 0 {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			ctx, ok = nil, false
		}
	}()
	ctx, ok = cgo.Handle(h).Value().(*crnContext)
	return ctx, ok
}

//export CrnCreateContext
func CrnCreateContext() C.uintptr_t {
	ctx := &crnContext{
		session: newSession(),
		errors:  newMessageSlots(cString, cFree),
	}
	return C.uintptr_t(cgo.NewHandle(ctx))
}

//export CrnDestroyContext
func CrnDestroyContext(h C.uintptr_t) {
	ctx, ok := lookup(h)
	if !ok {
		return
	}
	defer func() { recover() }()

	ctx.session.Close()
	ctx.errors.close()
	cgo.Handle(h).Delete()
}

//export CrnConvert
func CrnConvert(h C.uintptr_t, in *C.uint8_t, inSize C.size_t, format C.int32_t, numLevelSegments C.size_t,
	levelSegmentBytes *C.uint8_t, levelSegmentBytesSize C.size_t, outBuff **C.uint8_t, outBuffSize *C.size_t) (code C.int32_t) {
	ctx, ok := lookup(h)
	if !ok {
		return codeBadContext
	}
	defer func() {
		if r := recover(); r != nil {
			err := recovered(r)
			ctx.session.SetLastError(err)
			ctx.errors.set(0, err.Error())
			code = C.int32_t(convert.Code(err))
		}
	}()

	if outBuff == nil || outBuffSize == nil {
		err := &convert.Error{Kind: convert.KindInternal, Op: "libcrn", Err: errNullOutput}
		ctx.session.SetLastError(err)
		ctx.errors.set(0, err.Error())
		return C.int32_t(convert.Code(err))
	}

	req := request(in, inSize, format, numLevelSegments, levelSegmentBytes, levelSegmentBytesSize)
	buf, err := ctx.session.Convert(req)
	if err != nil {
		ctx.errors.set(0, err.Error())
		return C.int32_t(convert.Code(err))
	}

	*outBuff = (*C.uint8_t)(buf.Pointer())
	*outBuffSize = C.size_t(buf.Len())
	return 0
}

//export CrnRelease
func CrnRelease(h C.uintptr_t, data unsafe.Pointer) {
	ctx, ok := lookup(h)
	if !ok || data == nil {
		return
	}
	defer func() { recover() }()
	ctx.session.Release(data)
}

//export CrnGetLastError
func CrnGetLastError(h C.uintptr_t) *C.char {
	ctx, ok := lookup(h)
	if !ok {
		return (*C.char)(threadErrors.none())
	}
	return (*C.char)(ctx.errors.get(0))
}

//export CrnTrackedCount
func CrnTrackedCount(h C.uintptr_t) C.size_t {
	ctx, ok := lookup(h)
	if !ok {
		return 0
	}
	return C.size_t(ctx.session.Tracked())
}
