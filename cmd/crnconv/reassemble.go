package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goopsie/crnbridge/pkg/segment"
)

func reassembleCmd() *cli.Command {
	var (
		input       string
		segments    []string
		archivePath string
		levels      int
		output      string
	)

	flags := segmentFlags(&input, &segments, &archivePath, &levels)
	flags = append(flags, &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "output path for the complete container",
		Destination: &output,
	})

	return &cli.Command{
		Name:  "reassemble",
		Usage: "Rebuild a complete CRN container from a segmented one",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			segBytes, count, err := loadSegments(segments, archivePath)
			if err != nil {
				return err
			}

			c, err := segment.Reassemble(data, segment.Descriptor{
				Levels: levelsFor(cmd.IsSet("levels"), levels, count),
				Bytes:  segBytes,
			})
			if err != nil {
				return err
			}
			log.Debug("reassembled", "input", input, "size", len(c.Data), "base_level", c.BaseLevel)

			out, err := resolveOutput(input, output, outputDir, "_full", ".crn")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, c.Data, 0o644); err != nil {
				return err
			}

			fmt.Printf("%s -> %s (%d bytes, base level %d)\n", input, out, len(c.Data), c.BaseLevel)
			return nil
		},
	}
}
