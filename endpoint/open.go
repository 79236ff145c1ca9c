// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/types"
)

// OpenFile opens and decodes in.Path with the decoder reg has for its
// extension. Start skips into the file; Loop restarts it from the top at
// the end of the stream.
func OpenFile(in FileInput, reg *audio.Registry) (audio.Source, error) {
	dec, ok := reg.ForPath(in.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, in.Extension())
	}

	src, err := openDecoded(in.Path, dec)
	if err != nil {
		return nil, err
	}

	if in.Start > 0 {
		if err := skip(src, in.Start); err != nil {
			_ = src.Close()
			return nil, err
		}
	}

	if in.Loop {
		return &loopSource{Source: src, path: in.Path, dec: dec}, nil
	}

	return src, nil
}

func openDecoded(path string, dec audio.Decoder) (audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", types.ErrUnsupportedFormat, path, err)
	}

	return src, nil
}

// skip discards seconds of audio from the head of src.
func skip(src audio.Source, seconds float64) error {
	ch := max(src.Channels(), 1)
	left := int64(seconds*float64(src.SampleRate())) * int64(ch)
	buf := make([]float32, 4096-4096%ch)

	for left > 0 {
		n, err := src.ReadSamples(buf[:min(int64(len(buf)), left)])
		left -= int64(n)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrIO, err)
		}
		if n == 0 {
			return nil
		}
	}

	return nil
}

// loopSource reopens its file each time the stream ends.
type loopSource struct {
	audio.Source
	path string
	dec  audio.Decoder
	read bool // anything read since the last rewind
}

func (l *loopSource) ReadSamples(dst []float32) (int, error) {
	n, err := l.Source.ReadSamples(dst)
	if n > 0 {
		l.read = true
	}
	if !errors.Is(err, io.EOF) {
		return n, err
	}

	// an empty file would spin forever
	if !l.read {
		return n, io.EOF
	}

	next, oerr := openDecoded(l.path, l.dec)
	if oerr != nil {
		return n, oerr
	}
	_ = l.Source.Close()
	l.Source, l.read = next, false

	return n, nil
}

// OpenSignal builds the generator for sig.
func OpenSignal(sig SignalInput, rate types.SampleRate, channels types.ChannelCount) (*audio.SignalGenerator, error) {
	gen, err := audio.NewSignalGenerator(sig.Waveform, sig.Frequency, int(rate), channels.Count())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	return gen, nil
}
