// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams into audio.Source values using
// github.com/hajimehoshi/go-mp3.
//
// # Supported Formats
//
// Anything go-mp3 accepts is supported:
//   - MPEG-1 and MPEG-2 Layer III
//   - Constant and variable bit rate
//   - Mono and stereo files at 32, 44.1 and 48 kHz, plus the half rates of
//     MPEG-2
//
// # Decoding MP3 Files
//
// Decoder has no state of its own, so the zero value is ready to use and
// may be shared between goroutines:
//
//	f, err := os.Open("song.mp3")
//	if err != nil {
//	    return err
//	}
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close() // closes f as well
//
// The registry in the formats package maps the "mp3" extension to this
// decoder, so most callers go through it instead:
//
//	dec, ok := formats.NewRegistry().ForPath("song.mp3")
//
// # Output Format
//
// go-mp3 always produces interleaved 16-bit stereo, and so does this
// package:
//   - Channels() is always 2; mono files come out with both channels equal
//   - samples are scaled to [-1, 1) as float32
//   - SampleRate() is the rate stored in the frame headers
//
// Use audio.NewMonoMixer or audio.Conform when a different layout is
// needed:
//
//	mono := audio.NewMonoMixer(src)
//	engineReady := audio.Conform(src, 48000, 2)
//
// # Length
//
// When the reader passed to Decode is an io.ReadSeeker, go-mp3 scans the
// stream once and the source reports its length in frames through a
// Length() int64 method. formats.Length reads it:
//
//	frames := formats.Length(src) // 0 when the length is unknown
//
// A plain io.Reader, such as an HTTP body, decodes fine but reports 0.
//
// # Performance
//
// The source reads 8 KiB of PCM bytes per call into a buffer it owns and
// converts them in place, so steady state reads do not allocate. Short
// reads from go-mp3 are joined until the caller's buffer holds whole
// frames or the stream ends.
//
// # Limitations
//
//   - Decoding only; there is no encoder
//   - ID3 tags are skipped, never parsed
//   - Gapless playback information (LAME/Xing headers) is ignored, so
//     encoder padding is audible as a short silence
//   - Layer I and Layer II files are rejected
//
// # Error Handling
//
// Errors from go-mp3 are wrapped and returned from Decode or ReadSamples.
// A truncated final frame ends the stream with io.EOF instead of an
// error, which matches how most players treat it.
package mp3
