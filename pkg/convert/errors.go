package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind uint8

const (
	KindHeaderParse Kind = iota + 1
	KindSegmentation
	KindCodecDecode
	KindCodecEncode
	KindAllocation
	KindInternal
)

// String returns a short description of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeaderParse:
		return "header parse"
	case KindSegmentation:
		return "segmentation"
	case KindCodecDecode:
		return "codec decode"
	case KindCodecEncode:
		return "codec encode"
	case KindAllocation:
		return "allocation"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

var (
	// ErrInvalidFormat is returned for an output format outside the known enumerants.
	ErrInvalidFormat = errors.New("convert: invalid output format")

	// ErrEmptyOutput is returned when the codec reports success but produces no bytes.
	ErrEmptyOutput = errors.New("convert: codec produced no output")

	// ErrFormatMismatch is returned when the codec output does not carry the requested format's signature.
	ErrFormatMismatch = errors.New("convert: output does not match requested format")
)

// Error is a conversion failure with its kind and the stage that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind carried by err. Errors that did not come from this
// package report KindInternal; nil reports zero.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Code returns the stable numeric code for err used at the C boundary.
// Zero means success.
func Code(err error) int32 {
	return int32(KindOf(err))
}
