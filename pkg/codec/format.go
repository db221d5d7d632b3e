package codec

import (
	"fmt"
	"strings"
)

// Format is an output file format. Values match crnlib's
// texture_file_types::format so they can cross the C boundary unchanged.
type Format int32

const (
	FormatDDS Format = iota
	FormatCRN
	FormatKTX
	FormatTGA
	FormatPNG
	FormatJPG
	FormatJPEG
	FormatBMP

	formatCount
)

var formatNames = [formatCount]string{
	FormatDDS:  "dds",
	FormatCRN:  "crn",
	FormatKTX:  "ktx",
	FormatTGA:  "tga",
	FormatPNG:  "png",
	FormatJPG:  "jpg",
	FormatJPEG: "jpeg",
	FormatBMP:  "bmp",
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f >= 0 && f < formatCount
}

// String returns the lowercase format name.
func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int32(f))
	}
	return formatNames[f]
}

// Extension returns the file extension for f, including the leading dot.
func (f Format) Extension() string {
	if !f.Valid() {
		return ""
	}
	return "." + formatNames[f]
}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for f, n := range formatNames {
		if n == name {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("codec: unknown format %q", s)
}

// Formats returns every known format in enumerant order.
func Formats() []Format {
	out := make([]Format, formatCount)
	for i := range out {
		out[i] = Format(i)
	}
	return out
}
