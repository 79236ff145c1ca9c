// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/utils"
)

// go-mp3 always produces 16-bit little endian stereo.
const (
	channels   = 2
	frameBytes = 4
)

// pcmReader is the part of gomp3.Decoder the source needs.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec    pcmReader
	closer io.Closer
	buf    []byte
	done   bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return len(s.buf) / 2 }

// Length is the stream length in frames, or 0 when the input is not
// seekable and the length is unknown.
func (s *source) Length() int64 {
	if l := s.dec.Length(); l > 0 {
		return l / frameBytes
	}
	return 0
}

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

	want := len(dst) / channels * frameBytes
	if want == 0 {
		return 0, nil
	}
	if len(s.buf) < want {
		s.buf = make([]byte, want)
	}

	n, err := io.ReadFull(s.dec, s.buf[:want])
	n -= n % frameBytes

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.done = true
		err = io.EOF
	case err != nil:
		err = fmt.Errorf("%w", err)
	}

	samples := n / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = utils.PCMToFloat(int(v), 16)
	}

	return samples, err
}

// Decoder decodes MPEG-1/2 Layer III streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec, r), nil
}

func newSource(dec pcmReader, r io.Reader) *source {
	s := &source{dec: dec, buf: make([]byte, 8192)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}
