//go:build crnlib && cgo

package crnlib

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/goopsie/crnbridge/pkg/codec"
	"github.com/goopsie/crnbridge/pkg/codec/crnlib/internal/crnw"
)

// Enabled reports whether the crnlib binding is compiled in.
func Enabled() bool { return true }

type crnCodec struct{}

// New returns the crnlib codec.
func New() codec.Codec { return crnCodec{} }

func (crnCodec) Decode(data []byte) (codec.Texture, error) {
	tex, code := crnw.Read(data)
	if code != 0 {
		return nil, fmt.Errorf("crnlib: decode: %s", crnw.ErrorString(code))
	}
	return &texture{tex: tex}, nil
}

type texture struct {
	mu  sync.Mutex
	tex unsafe.Pointer
}

func (t *texture) Levels() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tex == nil {
		return 0
	}
	return crnw.Levels(t.tex)
}

func (t *texture) Encode(opts codec.EncodeOptions) ([]byte, error) {
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("crnlib: encode: invalid format %d", int32(opts.Format))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tex == nil {
		return nil, ErrClosed
	}

	out, code := crnw.Write(t.tex, int(opts.Format), opts.BaseLevel, opts.Direct)
	if code != 0 {
		return nil, fmt.Errorf("crnlib: encode %s: %s", opts.Format, crnw.ErrorString(code))
	}
	return out, nil
}

func (t *texture) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	crnw.Destroy(t.tex)
	t.tex = nil
	return nil
}
