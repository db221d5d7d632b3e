package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goopsie/crnbridge/internal/logger"
)

var (
	logLevel  string
	logFormat string
	outputDir string

	cfg Config
	log logger.Logger = logger.Discard()
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json, off)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "directory for outputs when --output is not given",
			Destination: &outputDir,
		},
	}
}

// segmentFlags are shared by the commands that rebuild segmented containers.
func segmentFlags(input *string, segments *[]string, archivePath *string, levels *int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "path to the .crn container",
			Destination: input,
			Required:    true,
		},
		&cli.StringSliceFlag{
			Name:        "segment",
			Aliases:     []string{"s"},
			Usage:       "level segment file, in level order (repeatable)",
			Destination: segments,
		},
		&cli.StringFlag{
			Name:        "archive",
			Usage:       "segment archive holding the missing levels",
			Destination: archivePath,
		},
		&cli.IntFlag{
			Name:        "levels",
			Aliases:     []string{"n"},
			Usage:       "number of missing levels (defaults to the segment count)",
			Destination: levels,
		},
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig()
	if err != nil {
		return ctx, err
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg, &logLevel, &logFormat, &outputDir)

	l, err := logger.Open(os.Stderr, logFormat, logLevel)
	if err != nil {
		return ctx, fmt.Errorf("--log-format: %w", err)
	}
	log = l
	return logger.WithContext(ctx, l), nil
}
