// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Supported Formats
//
// Decoding:
//   - Integer PCM at 8 (unsigned), 16, 24 and 32 bits
//   - IEEE float at 32 and 64 bits
//   - WAVE_FORMAT_EXTENSIBLE headers whose sub format is one of the above
//   - Any channel count and sample rate
//
// Encoding:
//   - Integer PCM at 16, 24 and 32 bits, through github.com/go-audio/wav
//
// # Decoding WAV Files
//
// Decoder streams from any io.Reader. It walks the chunk list until it
// finds "fmt " and "data", skipping chunks it does not need (LIST, fact,
// bext and friends), and never seeks:
//
//	f, err := os.Open("take.wav")
//	if err != nil {
//	    return err
//	}
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close() // closes f as well
//
// The source implements Length() int64 from the data chunk size. A data
// chunk that is cut short ends the stream with io.EOF at the last whole
// frame instead of failing.
//
// # Writing WAV Files
//
// Writer takes interleaved float32 samples, clips them to [-1, 1] and
// encodes them at the chosen depth. Sizes in the header are patched on
// Close, so a Writer must always be closed:
//
//	w, err := wav.Create("out.wav", types.Rate48000, types.Stereo, types.I24)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(block); err != nil {
//	    return err
//	}
//
// NewWriter does the same for any io.WriteSeeker. Blocks passed to Write
// should hold whole frames. Float depths are rejected with
// types.ErrUnsupportedFormat since the encoder only writes integer PCM.
//
// # Output Format
//
// Decoded samples are float32, interleaved, scaled to [-1, 1):
//   - 8-bit data is unsigned and centred on 128
//   - 16, 24 and 32-bit data is signed little endian
//   - float data is passed through, narrowed to float32 for 64-bit files
//
// # Performance
//
// The decoder owns one byte buffer, grown to the largest request seen and
// reused, so steady state reads do not allocate. Reads always cover whole
// frames; a trailing partial frame in the data chunk is dropped.
//
// # Error Handling
//
// Decode returns the package sentinels, wrapped with detail where it
// helps:
//   - ErrNotWavFile: no RIFF/WAVE header
//   - ErrUnsupportedEncoding: compressed data such as ADPCM or mu-law
//   - ErrUnsupportedBitDepth: a depth outside the lists above
//   - ErrUnsupportedWavLayout: a short or inconsistent fmt chunk
//   - ErrUnsupportedWavChunks: no data chunk, or data before fmt
//
// Writing to a closed Writer returns ErrWriterClosed.
package wav
