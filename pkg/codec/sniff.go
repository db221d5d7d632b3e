package codec

import "bytes"

var (
	magicDDS  = []byte("DDS ")
	magicPNG  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	magicJPEG = []byte{0xff, 0xd8, 0xff}
	magicKTX  = []byte{0xab, 'K', 'T', 'X', ' ', '1', '1', 0xbb, '\r', '\n', 0x1a, '\n'}
	magicCRN  = []byte("Hx")
	magicBMP  = []byte("BM")
)

// Sniff identifies data by its leading signature. TGA has no signature and
// is never reported; JPEG data is reported as FormatJPG.
func Sniff(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, magicDDS):
		return FormatDDS, true
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG, true
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPG, true
	case bytes.HasPrefix(data, magicKTX):
		return FormatKTX, true
	case bytes.HasPrefix(data, magicCRN):
		return FormatCRN, true
	case bytes.HasPrefix(data, magicBMP):
		return FormatBMP, true
	}
	return 0, false
}

// Matches reports whether data carries the signature expected for f.
// Formats without a reliable signature always match.
func Matches(f Format, data []byte) bool {
	switch f {
	case FormatDDS, FormatPNG, FormatJPG, FormatJPEG, FormatKTX:
	default:
		return true
	}

	got, ok := Sniff(data)
	if !ok {
		return false
	}
	if f == FormatJPEG {
		f = FormatJPG
	}
	return got == f
}
