// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams into audio.Source values
// using github.com/jfreymuth/oggvorbis.
//
// # Supported Formats
//
//   - Vorbis I audio in an Ogg container
//   - Any channel count the stream declares, in Vorbis channel order
//   - Any sample rate, passed through unchanged
//   - All quality levels, from -q -1 to -q 10
//
// Ogg streams carrying other codecs (Opus, FLAC, Speex) are rejected by
// Decode.
//
// # Decoding Ogg Vorbis Files
//
// The zero value Decoder is ready to use:
//
//	f, err := os.Open("ambience.ogg")
//	if err != nil {
//	    return err
//	}
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close() // closes f as well
//
// The formats registry maps both "ogg" and "oga" to this decoder.
//
// # Output Format
//
// Vorbis is decoded to float natively, so samples reach the caller without
// any integer conversion step:
//   - Channels() and SampleRate() come from the identification header
//   - samples are interleaved float32, nominally in [-1, 1]
//   - lossy decoding can overshoot slightly past full scale; the engine
//     clamps at its output, not here
//
// # Length
//
// The source implements Length() int64. oggvorbis finds the last granule
// position when the reader can seek, otherwise the length is 0:
//
//	frames := formats.Length(src)
//
// # Performance
//
// ReadSamples decodes straight into the caller's buffer and only ever
// asks for whole frames, so a read never allocates and never splits a
// frame across calls. BufSize reports 4096 samples, which is a good read
// size for the engine's prefetch.
//
// # Streaming
//
// Decode reads only the three Vorbis headers before returning. Audio
// packets are pulled on demand, so network streams start producing
// samples immediately:
//
//	out := audio.Conform(src, 16000, 1)
//	buf := make([]float32, out.BufSize())
//	for {
//	    n, err := out.ReadSamples(buf)
//	    process(buf[:n])
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	}
//
// # Limitations
//
//   - Decoding only
//   - Chained streams are read as one stream; a format change between
//     links is not supported
//   - Comment headers (artist, title) are not exposed
package vorbis
