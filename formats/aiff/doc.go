// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format files into
// audio.Source values using github.com/go-audio/aiff.
//
// # Supported Formats
//
//   - Uncompressed AIFF with signed big endian PCM
//   - 8, 16, 24 and 32 bit samples
//   - Any channel count and sample rate stored in the COMM chunk
//
// Compressed AIFF-C variants (ima4, ulaw, alaw and the like) are not
// supported.
//
// # Decoding AIFF Files
//
//	f, err := os.Open("loop.aiff")
//	if err != nil {
//	    return err
//	}
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close() // closes f as well
//
// The formats registry maps both "aif" and "aiff" to this decoder.
//
// # Random Access
//
// The AIFF layout keeps the COMM and SSND chunks in any order, so the
// decoder needs to seek. An *os.File or a bytes.Reader is used directly.
// Any other io.Reader is read into memory first, which is fine for sound
// effects and loops but costly for long recordings.
//
// # Output Format
//
// Samples are scaled by their bit depth to float32 in [-1, 1):
//
//	bits  full scale
//	 8    128
//	16    32768
//	24    8388608
//	32    2147483648
//
// Channels are interleaved in file order. The source implements
// Length() int64 with the frame count from the COMM chunk.
//
// # Performance
//
// The integer buffer handed to go-audio is reused between reads and only
// grows when the caller asks for more samples than before, so steady
// state reads do not allocate.
//
// # Error Handling
//
// Decode returns one of the package sentinels, possibly wrapped:
//   - ErrNotAiffFile: the FORM header is missing or not AIFF
//   - ErrUnsupportedBitDepth: the sample size is not 8, 16, 24 or 32
//   - ErrUnsupportedAiffLayout: no channels or no sample rate
//
// Use errors.Is to tell them apart:
//
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // ask for a conversion upstream
//	}
//
// Read errors from ReadSamples are wrapped and returned as is.
package aiff
