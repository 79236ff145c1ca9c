// SPDX-License-Identifier: EPL-2.0

// Package audeng is a real-time audio engine: sources are decoded or
// generated, converted to one processing format, run through an effect
// chain with master gain and pan, and written to a device, a file or
// nowhere.
//
// # Packages
//
//   - types: validated audio values (rates, gains, formats, devices)
//   - buffer: fixed capacity buffers and a lock-free ring
//   - channel: control and feedback messaging between threads
//   - dsp: effects, the effect chain and meters
//   - audio and formats: streaming sources and decoders
//   - endpoint: input and output descriptions
//   - device: hosts, devices and streams
//   - engine: the processing loop and its controller
//   - config: file and environment configuration, with live reload
//
// The audeng command in cmd/audeng wraps all of it for the shell.
//
// # Quick Start
//
// Convert any supported file to 48 kHz stereo 24-bit WAV:
//
//	frames, err := audeng.Convert(ctx, "in.mp3", "out.wav", types.Professional)
//
// Render a generated tone through an effect chain:
//
//	sig, _ := endpoint.OpenSignal(endpoint.Sine(440), types.Rate48000, types.Stereo)
//	chain := dsp.NewChain(dsp.NewLowPass(1, 2000, 0.707))
//	audeng.Render(ctx, sig.WithLength(48000), "tone.wav", types.Professional,
//	    engine.WithChain(chain),
//	    engine.WithGain(types.GainFromDB(-6)),
//	)
//
// Open decodes a file with the decoder registered for its extension,
// which is handy for inspecting the result:
//
//	src, err := audeng.Open("tone.wav")
//	fmt.Println(src.SampleRate(), src.Channels(), formats.Length(src))
//
// # Live Playback
//
// For playback and control, build an engine directly. engine.New returns
// the engine and the Controller that drives it; Run owns the processing
// loop until the source ends, the context is cancelled or a shutdown
// command arrives:
//
//	eng, ctl, err := engine.New(src, engine.NewDeviceSink(stream),
//	    engine.WithChain(chain),
//	    engine.WithRealtime(),
//	)
//	if err != nil {
//	    return err
//	}
//	go eng.Run(ctx)
//
//	_ = ctl.Start(ctx)
//	_ = ctl.SetGain(ctx, types.GainFromDB(-3))
//	_ = ctl.SetPan(ctx, types.NewPan(-0.5))
//
// Commands are queued and applied at the start of the next block, never
// in the middle of one. Values that are out of range or not finite are
// refused by the Controller and ignored by the engine.
//
// # Feedback
//
// The engine reports levels, position, state changes, underruns and
// errors on the feedback channel. Sends never block the processing loop;
// when the channel is full the message is dropped and counted:
//
//	fb, err := ctl.Await(ctx, engine.IsState(channel.StateRunning))
//
// # Devices
//
// device.NewSystemManager wraps the system output through oto. In builds
// tagged nocgo every device call fails with types.ErrDeviceAccess. For
// tests and headless runs, device.NewMockHost plays into memory:
//
//	m, err := device.NewManager(device.NewMockHost())
//	actx := engine.NewAudioContext(m)
//
// # Configuration
//
// config.Load reads a YAML file and AUDENG_ environment variables on top
// of the defaults. config.Watch reloads the file on change and forwards
// what changed to a running engine as commands.
package audeng
