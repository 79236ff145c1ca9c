// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audeng/types"
	"github.com/ik5/audeng/utils"
)

// Writer encodes interleaved float samples as integer PCM. The header sizes
// are patched on Close, so the destination must be seekable.
type Writer struct {
	enc    *gowav.Encoder
	buf    *goaudio.IntBuffer
	bits   int
	frames int64
	owned  io.Closer
	closed bool
}

// NewWriter starts a WAV stream on w. depth must be I16, I24 or I32.
func NewWriter(w io.WriteSeeker, rate types.SampleRate, channels types.ChannelCount, depth types.BitDepth) (*Writer, error) {
	if depth.IsFloat() {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, depth)
	}

	bits := depth.Bits()
	format := &goaudio.Format{NumChannels: channels.Count(), SampleRate: int(rate)}

	return &Writer{
		enc:  gowav.NewEncoder(w, int(rate), bits, channels.Count(), formatPCM),
		buf:  &goaudio.IntBuffer{Format: format, SourceBitDepth: bits},
		bits: bits,
	}, nil
}

// Create opens path for writing and returns a Writer that closes the file
// when it is closed.
func Create(path string, rate types.SampleRate, channels types.ChannelCount, depth types.BitDepth) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
	}

	w, err := NewWriter(f, rate, channels, depth)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	w.owned = f

	return w, nil
}

// Write appends samples. len(samples) should be a whole number of frames.
func (w *Writer) Write(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = utils.FloatToPCM(s, w.bits)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	w.frames += int64(len(samples) / w.buf.Format.NumChannels)

	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// Close writes the final chunk sizes. Calling it more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	// the encoder only emits headers on the first Write
	if w.frames == 0 {
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("%w: %w", types.ErrIO, err)
		}
	}

	err := w.enc.Close()
	if w.owned != nil {
		if cerr := w.owned.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}

	return nil
}
