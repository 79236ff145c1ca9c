// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming building blocks every input of the
// engine is made of.
//
// # Source Interface
//
// The central type is Source, a pull based stream of interleaved float32
// samples:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples follows the io.Reader conventions with two additions:
//   - n > 0 may come together with io.EOF on the last read
//   - (0, nil) means nothing is available yet; live inputs use it to tell
//     the caller to come back on the next cycle
//
// dst should hold whole frames. A source that cannot fit a single frame
// into dst may return ErrInvalidDstSize. BufSize is a hint for how many
// samples a caller should ask for at once.
//
// Close releases whatever the source holds. Wrappers in this package
// close the source they wrap.
//
// # Resampling
//
// Resampler changes the sample rate with cubic interpolation over a four
// frame window. When downsampling it runs a one-pole low pass first to
// keep aliasing down:
//
//	r := audio.NewResampler(src, 48000)
//	fmt.Println(r.Ratio()) // source frames per output frame
//
// It keeps its history across reads, so a source stalling with (0, nil)
// does not cause a click when it resumes.
//
// # Channel Mixing
//
// ChannelMixer converts between channel counts:
//   - mono to N copies the single channel everywhere
//   - N to mono averages all channels
//   - fewer outputs average the source channels that fold onto them
//   - more outputs repeat the source channels in order
//
// NewMonoMixer is a shortcut for the common case.
//
// # Conforming
//
// Conform chains a Resampler and a ChannelMixer, skipping whichever stage
// is not needed. The engine calls it on every input so the processing
// loop only ever sees its own format:
//
//	src = audio.Conform(src, 48000, 2)
//
// ReadFull fills a buffer completely, retrying on stalls, and
// ResampleToMono16 collects a whole source as 16-bit mono PCM for
// speech and telephony consumers.
//
// # Test Signals
//
// SignalGenerator produces Sine, Square, WhiteNoise or Silence, endlessly
// or for a fixed number of frames:
//
//	gen, err := audio.NewSignalGenerator(audio.Sine, 440, 48000, 2)
//	if err != nil {
//	    return err
//	}
//	gen.WithAmplitude(0.5).WithLength(48000)
//
// Noise is seeded, so two generators built with the same WithSeed value
// produce identical output. Limit cuts any source after a number of
// frames.
//
// # Format Registry
//
// Registry maps file extensions to Decoders. Keys are case insensitive and
// a leading dot is ignored, so ForPath("song.WAV") finds the "wav" decoder.
// The registry is safe for concurrent use. The formats package returns one
// with every built-in decoder registered.
//
// DecoderFunc adapts a plain function to the Decoder interface.
//
// # Performance Considerations
//
// All stages allocate their working buffers up front or on the first read
// and reuse them afterwards. A chain of generator, resampler and mixer
// does not allocate in steady state, which the engine relies on when it
// runs on the realtime path.
//
// # Error Handling
//
// Stages wrap the errors of their source with %w, so sentinels such as
// ErrInvalidRate and ErrInvalidDstSize, and the errors of the decoders
// underneath, can be checked with errors.Is.
package audio
