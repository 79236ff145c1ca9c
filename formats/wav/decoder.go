// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/utils"
)

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

// Info is the stream description read from the fmt chunk.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool
	DataBytes  int64
}

// Frames is the number of frames in the data chunk.
func (i Info) Frames() int64 {
	frameSize := int64(i.Channels * i.BitDepth / 8)
	if frameSize == 0 {
		return 0
	}
	return i.DataBytes / frameSize
}

type wavSource struct {
	r     io.Reader
	info  Info
	bytes int // bytes per sample
	left  int64
	buf   []byte
}

func (s *wavSource) SampleRate() int { return s.info.SampleRate }
func (s *wavSource) Channels() int   { return s.info.Channels }
func (s *wavSource) BufSize() int    { return len(s.buf) / s.bytes }
func (s *wavSource) Info() Info      { return s.info }

// Length is the stream length in frames.
func (s *wavSource) Length() int64 { return s.info.Frames() }

func (s *wavSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	frameBytes := s.bytes * s.info.Channels
	want := int64(len(dst) / s.info.Channels * frameBytes)
	want = min(want, s.left)
	if want == 0 {
		if s.left == 0 {
			return 0, io.EOF
		}
		return 0, audio.ErrInvalidDstSize
	}

	if int64(len(s.buf)) < want {
		s.buf = make([]byte, want)
	}

	n, err := io.ReadFull(s.r, s.buf[:want])
	n -= n % frameBytes
	s.left -= int64(n)

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		// truncated data chunk
		s.left = 0
		err = nil
	} else if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / s.bytes
	s.decode(dst[:samples], s.buf[:n])

	if s.left == 0 {
		return samples, io.EOF
	}
	return samples, nil
}

func (s *wavSource) decode(dst []float32, b []byte) {
	bits := s.info.BitDepth

	switch {
	case s.info.Float && bits == 32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		}
	case s.info.Float:
		for i := range dst {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:])))
		}
	case bits == 8:
		for i := range dst {
			dst[i] = utils.PCMToFloat(int(b[i]), 8)
		}
	case bits == 16:
		for i := range dst {
			dst[i] = utils.PCMToFloat(int(int16(binary.LittleEndian.Uint16(b[2*i:]))), 16)
		}
	case bits == 24:
		for i := range dst {
			p := b[3*i:]
			v := int32(uint32(p[0])<<8|uint32(p[1])<<16|uint32(p[2])<<24) >> 8
			dst[i] = utils.PCMToFloat(int(v), 24)
		}
	default:
		for i := range dst {
			dst[i] = utils.PCMToFloat(int(int32(binary.LittleEndian.Uint32(b[4*i:]))), 32)
		}
	}
}

// Decoder reads RIFF/WAVE streams holding integer PCM (8, 16, 24 or 32
// bit) or IEEE float (32 or 64 bit). Chunks other than fmt and data are
// skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWavFile
	}

	var (
		info   Info
		hasFmt bool
		chunk  [8]byte
	)

	for {
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return nil, fmt.Errorf("%w: no data chunk", ErrUnsupportedWavChunks)
		}
		id := string(chunk[:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:]))

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrUnsupportedWavLayout
			}
			body := make([]byte, size+size%2)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
			}
			var err error
			if info, err = parseFmt(body[:size]); err != nil {
				return nil, err
			}
			hasFmt = true

		case "data":
			if !hasFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrUnsupportedWavChunks)
			}
			info.DataBytes = size
			bytes := info.BitDepth / 8

			return &wavSource{
				r:     r,
				info:  info,
				bytes: bytes,
				left:  size - size%int64(bytes*info.Channels),
				buf:   make([]byte, 4096*bytes),
			}, nil

		default:
			// chunks are word aligned
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
			}
		}
	}
}

func parseFmt(b []byte) (Info, error) {
	format := binary.LittleEndian.Uint16(b[0:2])
	info := Info{
		Channels:   int(binary.LittleEndian.Uint16(b[2:4])),
		SampleRate: int(binary.LittleEndian.Uint32(b[4:8])),
		BitDepth:   int(binary.LittleEndian.Uint16(b[14:16])),
	}

	if format == formatExtensible {
		if len(b) < 26 {
			return Info{}, ErrUnsupportedWavLayout
		}
		format = binary.LittleEndian.Uint16(b[24:26])
	}

	if info.Channels < 1 || info.SampleRate < 1 {
		return Info{}, ErrUnsupportedWavLayout
	}

	switch format {
	case formatPCM:
		switch info.BitDepth {
		case 8, 16, 24, 32:
		default:
			return Info{}, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedBitDepth, info.BitDepth)
		}
	case formatFloat:
		if info.BitDepth != 32 && info.BitDepth != 64 {
			return Info{}, fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, info.BitDepth)
		}
		info.Float = true
	default:
		return Info{}, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, format)
	}

	return info, nil
}
