package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/goopsie/crnbridge/pkg/crn"
)

type levelJSON struct {
	Index  int    `json:"index"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

type infoJSON struct {
	Path           string      `json:"path"`
	FileSize       int         `json:"file_size"`
	Width          uint16      `json:"width"`
	Height         uint16      `json:"height"`
	Faces          uint8       `json:"faces"`
	Format         string      `json:"format"`
	Segmented      bool        `json:"segmented"`
	HeaderByteSize uint32      `json:"header_byte_size"`
	DataSize       uint32      `json:"data_size"`
	Levels         []levelJSON `json:"levels"`
}

func newInfo(path string, size int, h *crn.Header) infoJSON {
	info := infoJSON{
		Path:           path,
		FileSize:       size,
		Width:          h.Width,
		Height:         h.Height,
		Faces:          h.Faces,
		Format:         crn.FormatName(h.Format),
		Segmented:      h.IsSegmented(),
		HeaderByteSize: h.HeaderByteSize,
		DataSize:       h.DataSize,
		Levels:         make([]levelJSON, h.LevelCount()),
	}
	for i := range info.Levels {
		info.Levels[i] = levelJSON{Index: i, Offset: h.LevelOffsets[i], Size: h.LevelSize(i)}
	}
	return info
}

func writeInfo(w io.Writer, info infoJSON) {
	fmt.Fprintf(w, "%s\n", info.Path)
	fmt.Fprintf(w, "  size:      %d bytes (declared %d)\n", info.FileSize, info.DataSize)
	fmt.Fprintf(w, "  texture:   %dx%d, %d face(s), %s\n", info.Width, info.Height, info.Faces, info.Format)
	fmt.Fprintf(w, "  header:    %d bytes\n", info.HeaderByteSize)
	fmt.Fprintf(w, "  segmented: %t\n", info.Segmented)
	for _, l := range info.Levels {
		fmt.Fprintf(w, "  level %2d:  offset %8d  size %8d\n", l.Index, l.Offset, l.Size)
	}
}

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "info",
		Usage:     "Show the header of one or more CRN containers",
		ArgsUsage: "<file.crn>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("info: no input files")
			}

			var infos []infoJSON
			for _, path := range cmd.Args().Slice() {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				h, err := crn.Parse(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				infos = append(infos, newInfo(path, len(data), h))
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			for _, info := range infos {
				writeInfo(os.Stdout, info)
			}
			return nil
		},
	}
}
