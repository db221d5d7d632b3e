// Command crnconv converts and inspects CRN textures from the command line.
//
//	crnconv convert -i a.crn -s a1.crn -s a2.crn -f png
//	crnconv reassemble -i a.crn --archive a.crns -o a_full.crn
//	crnconv info --json a.crn
//	crnconv pack -o a.crns a1.crn a2.crn a3.crn
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:   "crnconv",
		Usage:  "Convert and inspect CRN textures",
		Flags:  globalFlags(),
		Before: setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			convertCmd(),
			reassembleCmd(),
			infoCmd(),
			packCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
