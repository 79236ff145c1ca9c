// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audeng/audio"
)

// intReader is the part of aiff.Decoder the source needs.
type intReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec    intReader
	closer io.Closer
	format goaudio.Format
	frames int64
	scale  float32
	buf    goaudio.IntBuffer
	done   bool
}

func newSource(dec intReader, format goaudio.Format, bits int, frames int64) *source {
	s := &source{
		dec:    dec,
		format: format,
		frames: frames,
		scale:  1 / float32(int64(1)<<(bits-1)),
	}
	s.buf = goaudio.IntBuffer{
		Format:         &s.format,
		Data:           make([]int, 4096-4096%format.NumChannels),
		SourceBitDepth: bits,
	}
	return s
}

func (s *source) SampleRate() int { return s.format.SampleRate }
func (s *source) Channels() int   { return s.format.NumChannels }
func (s *source) BufSize() int    { return cap(s.buf.Data) }

// Length is the stream length in frames from the COMM chunk.
func (s *source) Length() int64 { return s.frames }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.format.NumChannels
	if want == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(&s.buf)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	n -= n % s.format.NumChannels

	// AIFF samples are signed at every depth
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	if n < want {
		s.done = true
		return n, io.EOF
	}

	return n, nil
}

// Decoder decodes big endian integer PCM AIFF files of 8, 16, 24 or 32
// bits. The format needs random access; a reader that is not an
// io.ReadSeeker is buffered in memory first.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	bits := int(dec.BitDepth)
	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	s := newSource(dec, *format, bits, int64(dec.NumSampleFrames))
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	return s, nil
}
