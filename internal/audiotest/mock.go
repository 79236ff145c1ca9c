// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds deterministic sources for tests. It mirrors the
// audio.Source method set without importing the audio package, so any
// package can use it without an import cycle.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrInjected is returned by sources built with WithError.
var ErrInjected = errors.New("audiotest: injected failure")

// MockSource generates totalFrames frames from a waveform function.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32

	failAfter int
	failErr   error

	Reads  int
	Closed bool
}

// NewMockSource creates a source of totalFrames frames. waveform returns the
// value of a sample given its frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		failAfter:   -1,
	}
}

func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// NewChannelIndexSource writes the channel index into every sample, which
// makes channel routing easy to check.
func NewChannelIndexSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(_, ch int) float32 {
		return float32(ch)
	})
}

// WithError makes the source fail with err once frames frames have been
// produced.
func (m *MockSource) WithError(frames int, err error) *MockSource {
	m.failAfter, m.failErr = frames, err
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() { m.generated = 0 }

// Generated is the number of frames produced so far.
func (m *MockSource) Generated() int { return m.generated }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	m.Reads++

	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, m.failErr
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.failAfter >= 0 {
		frames = min(frames, m.failAfter-m.generated)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// Reader is the read half of audio.Source.
type Reader interface {
	ReadSamples(dst []float32) (int, error)
}

// Collect reads src to the end in blocks of block samples.
func Collect(src Reader, block int) ([]float32, error) {
	var out []float32
	buf := make([]float32, block)

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, io.ErrNoProgress
		}
	}
}
