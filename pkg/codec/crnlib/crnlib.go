// Package crnlib binds the crunch texture library.
//
// The binding is compiled only with -tags crnlib and CGO_ENABLED=1, and links
// against libcrn. Other builds get a stub codec that reports ErrDisabled.
package crnlib

import "errors"

var (
	// ErrDisabled is returned by the stub codec.
	ErrDisabled = errors.New("crnlib: disabled (build with -tags crnlib and CGO_ENABLED=1)")

	// ErrClosed is returned when a closed texture is encoded.
	ErrClosed = errors.New("crnlib: texture closed")
)
