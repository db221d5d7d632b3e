package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/crnbridge/pkg/archive"
	"github.com/goopsie/crnbridge/pkg/segment"
)

// resolveOutput picks the output path: the explicit flag, else the input's
// base name with ext, placed in dir (or next to the input).
func resolveOutput(input, outFlag, dir, suffix, ext string) (string, error) {
	out := strings.TrimSpace(outFlag)
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base == "" || base == "." {
			return "", fmt.Errorf("invalid input path: %q", input)
		}
		if dir == "" {
			dir = filepath.Dir(input)
		}
		out = filepath.Join(dir, base+suffix+ext)
	}

	out = filepath.Clean(out)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	return out, nil
}

// loadSegments returns the missing level payload from segment files or an
// archive, and the number of levels it covers. Both empty means none.
func loadSegments(paths []string, archivePath string) ([]byte, int, error) {
	switch {
	case len(paths) > 0 && archivePath != "":
		return nil, 0, fmt.Errorf("--segment and --archive are mutually exclusive")
	case archivePath != "":
		segments, err := archive.ReadFile(archivePath)
		if err != nil {
			return nil, 0, err
		}
		return segment.Join(segments), len(segments), nil
	case len(paths) > 0:
		data, err := segment.LoadFiles(paths)
		if err != nil {
			return nil, 0, err
		}
		return data, len(paths), nil
	}
	return nil, 0, nil
}

// levelsFor resolves the missing level count from the flag and the segment count.
func levelsFor(flagSet bool, flagValue, segments int) int {
	if flagSet {
		return flagValue
	}
	return segments
}
