// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/types"
)

func (c *cli) renderCmd() *cobra.Command {
	var (
		bits     int
		loop     bool
		start    float64
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:     "render <input> <output.wav>",
		Short:   "Run an input through the engine into a WAV file",
		Example: "audeng render take.mp3 take.wav --bits 24\naudeng render signal:sine:1000 tone.wav --duration 5s",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := c.settings()
			if err != nil {
				return err
			}
			depth, err := types.ParseBitDepth(bits, false)
			if err != nil {
				return err
			}

			in, err := parseInput(args[0])
			if err != nil {
				return err
			}
			switch v := in.(type) {
			case endpoint.FileInput:
				if loop {
					v = v.WithLoop()
				}
				in = v.WithStart(start)
				if loop && duration <= 0 {
					return fmt.Errorf("%w: --loop needs --duration", types.ErrConfiguration)
				}
			case endpoint.SignalInput:
				if duration <= 0 {
					return fmt.Errorf("%w: signal inputs need --duration", types.ErrConfiguration)
				}
			default:
				return fmt.Errorf("%w: render reads files and signals, not %s", types.ErrUnsupportedFormat, in)
			}

			m, err := c.manager()
			if err != nil {
				return err
			}
			actx := engine.NewAudioContextWithConfig(m, device.NewStreamConfig(s.SampleRate, s.Channels, s.BufferSize.Frames()))
			format := actx.Format()
			format.BitDepth = depth

			res, err := c.run(cmd.Context(), actx, session{
				input:    in,
				output:   endpoint.WAVFile(args[1]).WithAudioFormat(format),
				settings: s,
				length:   duration,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[1], res)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&bits, "bits", "b", 16, "bits per sample: 16, 24 or 32")
	f.BoolVar(&loop, "loop", false, "loop file inputs")
	f.Float64Var(&start, "start", 0, "start offset into file inputs, in seconds")
	f.DurationVarP(&duration, "duration", "d", 0, "length of input to render")

	return cmd
}
