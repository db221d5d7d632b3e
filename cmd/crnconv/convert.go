package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goopsie/crnbridge/pkg/codec"
	"github.com/goopsie/crnbridge/pkg/codec/crnlib"
	"github.com/goopsie/crnbridge/pkg/convert"
)

func convertCmd() *cli.Command {
	var (
		input       string
		segments    []string
		archivePath string
		levels      int
		format      string
		output      string
	)

	flags := segmentFlags(&input, &segments, &archivePath, &levels)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (dds, png, jpg, jpeg, ktx, tga, bmp, crn)",
			Value:       "dds",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output path",
			Destination: &output,
		},
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a CRN texture (reassembling segmented ones) to another format",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConvertConfig(cmd, cfg, &format)

			f, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}
			if !crnlib.Enabled() {
				return crnlib.ErrDisabled
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			segBytes, count, err := loadSegments(segments, archivePath)
			if err != nil {
				return err
			}

			conv := convert.New(crnlib.New(), convert.WithLogger(log))
			buf, err := conv.Convert(convert.Request{
				Input:           data,
				Format:          f,
				SegmentedLevels: levelsFor(cmd.IsSet("levels"), levels, count),
				SegmentBytes:    segBytes,
			})
			if err != nil {
				return err
			}
			defer buf.Release()

			out, err := resolveOutput(input, output, outputDir, "", f.Extension())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Printf("%s -> %s (%d bytes)\n", input, out, buf.Len())
			return nil
		},
	}
}
