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

func (c *cli) playCmd() *cobra.Command {
	var (
		null        bool
		outputID    string
		loop        bool
		start       float64
		duration    time.Duration
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "play <input>",
		Short: "Play an input through the engine to an output device",
		Long: `Play an input through the engine to an output device.

The input is a file path, a stream url, "device" or "device:<id>" for
capture, or a generated signal such as signal:sine:440, signal:square:1000,
signal:noise or signal:silence.`,
		Example: "audeng play song.mp3\naudeng play signal:sine:440 --duration 2s\naudeng play take.wav --null --metrics-addr :9100",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && c.configFile == "" {
				return fmt.Errorf("%w: --watch needs --config", types.ErrConfiguration)
			}

			_, s, err := c.settings()
			if err != nil {
				return err
			}
			in, err := parseInput(args[0])
			if err != nil {
				return err
			}
			if f, ok := in.(endpoint.FileInput); ok {
				if loop {
					f = f.WithLoop()
				}
				in = f.WithStart(start)
			}

			m, err := c.manager()
			if err != nil {
				return err
			}
			actx := engine.NewAudioContextWithConfig(m, device.NewStreamConfig(s.SampleRate, s.Channels, s.BufferSize.Frames()))

			if _, ok := in.(endpoint.DeviceInput); ok {
				dev, err := m.DefaultInput()
				if err != nil {
					return err
				}
				actx.SetInputDevice(dev)
			}

			var out endpoint.OutputTarget = endpoint.NullOutput{}
			if !null {
				dev, err := pickOutput(m, outputID)
				if err != nil {
					return err
				}
				actx.SetOutputDevice(dev)
				out = endpoint.NewDeviceOutput(dev.ID)
			}

			addr := metricsAddr
			if addr == "" {
				addr = s.MetricsAddr
			}

			res, err := c.run(cmd.Context(), actx, session{
				input:       in,
				output:      out,
				settings:    s,
				duration:    duration,
				realtime:    null,
				watch:       watch,
				metricsAddr: addr,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&null, "null", false, "discard the output in real time instead of playing it")
	f.StringVarP(&outputID, "output", "o", "", "output device id (default device when empty)")
	f.BoolVar(&loop, "loop", false, "loop file inputs")
	f.Float64Var(&start, "start", 0, "start offset into file inputs, in seconds")
	f.DurationVarP(&duration, "duration", "d", 0, "stop after this long")
	f.BoolVarP(&watch, "watch", "w", false, "reload gain, pan and effects when the config file changes")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func pickOutput(m *device.Manager, id string) (types.DeviceInfo, error) {
	if id == "" {
		return m.DefaultOutput()
	}
	dev, err := m.Find(types.NewDeviceID(id, types.DeviceOutput))
	if err != nil {
		return types.DeviceInfo{}, fmt.Errorf("output %q on host %s: %w", id, m.HostName(), err)
	}
	return dev, nil
}
