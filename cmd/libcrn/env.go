package main

import (
	"io"

	"github.com/goopsie/crnbridge/internal/logger"
)

const (
	envLogLevel  = "LIBCRN_LOG_LEVEL"
	envLogFormat = "LIBCRN_LOG_FORMAT"
)

// loggerFromEnv builds the library logger. Logging stays off unless a level
// is set; an unknown format falls back to text.
func loggerFromEnv(getenv func(string) string, w io.Writer) logger.Logger {
	level := getenv(envLogLevel)
	if level == "" || level == "off" {
		return logger.Discard()
	}
	l, err := logger.Open(w, getenv(envLogFormat), level)
	if err != nil {
		l = logger.Text(w, logger.ParseLevel(level))
		l.Warn("unknown log format, using text", "format", getenv(envLogFormat))
	}
	return l
}
