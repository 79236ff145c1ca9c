// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/formats"
)

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Print the format, length and size of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := formats.NewRegistry()
			for _, path := range args {
				if err := fileInfo(cmd.OutOrStdout(), path, reg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func fileInfo(w io.Writer, path string, reg *audio.Registry) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}

	in := endpoint.NewFileInput(path)
	src, err := endpoint.OpenFile(in, reg)
	if err != nil {
		return err
	}
	defer src.Close()

	kind := "unknown"
	if f, ok := in.Format(); ok {
		kind = fmt.Sprintf("%s (%s)", f, f.MIMEType())
	}

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  format:   %s\n", kind)
	fmt.Fprintf(w, "  rate:     %d Hz\n", src.SampleRate())
	fmt.Fprintf(w, "  channels: %d\n", src.Channels())
	if frames := formats.Length(src); frames > 0 {
		d := time.Duration(float64(frames) / float64(src.SampleRate()) * float64(time.Second))
		fmt.Fprintf(w, "  frames:   %s\n", humanize.Comma(frames))
		fmt.Fprintf(w, "  duration: %s\n", d.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "  duration: unknown\n")
	}
	fmt.Fprintf(w, "  size:     %s\n", humanize.Bytes(uint64(st.Size())))

	return nil
}
