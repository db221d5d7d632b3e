package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/goopsie/crnbridge/pkg/archive"
	"github.com/goopsie/crnbridge/pkg/segment"
)

func packCmd() *cli.Command {
	var (
		output string
		level  int
	)

	return &cli.Command{
		Name:      "pack",
		Usage:     "Bundle level segment files into one compressed segment archive",
		ArgsUsage: "<segment>... (level order)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "archive path",
				Destination: &output,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "level",
				Usage:       "zstd compression level",
				Value:       archive.DefaultCompressionLevel,
				Destination: &level,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("pack: no segment files")
			}

			payloads := make([][]byte, 0, len(paths))
			for _, p := range paths {
				seg, err := segment.ReadFile(p)
				if err != nil {
					return err
				}
				if int(seg.Length) != len(seg.Payload) {
					log.Warn("segment length prefix disagrees with payload", "path", p, "prefix", seg.Length, "payload", len(seg.Payload))
				}
				payloads = append(payloads, seg.Payload)
			}

			if err := archive.WriteFile(output, payloads, archive.WithCompressionLevel(level)); err != nil {
				return err
			}
			fmt.Printf("packed %d segments into %s\n", len(payloads), output)
			return nil
		},
	}
}
