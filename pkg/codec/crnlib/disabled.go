//go:build !crnlib || !cgo

package crnlib

import "github.com/goopsie/crnbridge/pkg/codec"

// Enabled reports whether the crnlib binding is compiled in.
func Enabled() bool { return false }

type disabledCodec struct{}

// New returns a codec whose Decode always fails with ErrDisabled.
func New() codec.Codec { return disabledCodec{} }

func (disabledCodec) Decode([]byte) (codec.Texture, error) {
	return nil, ErrDisabled
}
