// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"
)

// Waveform is the shape produced by a SignalGenerator.
type Waveform uint8

const (
	Silence Waveform = iota
	Sine
	Square
	WhiteNoise
)

func (w Waveform) String() string {
	switch w {
	case Silence:
		return "Silence"
	case Sine:
		return "Sine"
	case Square:
		return "Square"
	case WhiteNoise:
		return "White Noise"
	}
	return fmt.Sprintf("Waveform(%d)", uint8(w))
}

// HasFrequency reports whether the waveform is periodic.
func (w Waveform) HasFrequency() bool { return w == Sine || w == Square }

func ParseWaveform(s string) (Waveform, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ") {
	case "silence":
		return Silence, nil
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "noise", "white noise", "whitenoise":
		return WhiteNoise, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, s)
}

// SignalGenerator is a Source that synthesizes a test signal. It runs
// forever unless a length is set.
type SignalGenerator struct {
	wave      Waveform
	frequency float64
	amplitude float32
	rate      int
	channels  int

	phase     float64
	remaining int64 // frames left; negative means endless
	rng       *rand.Rand
}

func NewSignalGenerator(wave Waveform, frequency float64, rate, channels int) (*SignalGenerator, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	return &SignalGenerator{
		wave:      wave,
		frequency: frequency,
		amplitude: 1,
		rate:      rate,
		channels:  channels,
		remaining: -1,
		rng:       rand.New(rand.NewPCG(0x5eed, 0xa0d10)),
	}, nil
}

// WithAmplitude scales the output; the value is clamped to [0, 1].
func (g *SignalGenerator) WithAmplitude(a float32) *SignalGenerator {
	g.amplitude = min(max(a, 0), 1)
	return g
}

// WithLength limits the generator to frames frames.
func (g *SignalGenerator) WithLength(frames int64) *SignalGenerator {
	g.remaining = max(frames, 0)
	return g
}

// WithSeed makes white noise reproducible for a given seed.
func (g *SignalGenerator) WithSeed(seed uint64) *SignalGenerator {
	g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return g
}

func (g *SignalGenerator) Waveform() Waveform { return g.wave }
func (g *SignalGenerator) Frequency() float64 { return g.frequency }
func (g *SignalGenerator) SampleRate() int    { return g.rate }
func (g *SignalGenerator) Channels() int      { return g.channels }
func (g *SignalGenerator) BufSize() int       { return 4096 }
func (g *SignalGenerator) Close() error       { return nil }

func (g *SignalGenerator) next() float32 {
	switch g.wave {
	case Sine:
		v := float32(math.Sin(2 * math.Pi * g.phase))
		g.step()
		return v
	case Square:
		v := float32(1)
		if g.phase >= 0.5 {
			v = -1
		}
		g.step()
		return v
	case WhiteNoise:
		return g.rng.Float32()*2 - 1
	}
	return 0
}

func (g *SignalGenerator) step() {
	g.phase += g.frequency / float64(g.rate)
	g.phase -= math.Floor(g.phase)
}

func (g *SignalGenerator) ReadSamples(dst []float32) (int, error) {
	if len(dst)%g.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if g.remaining == 0 {
		return 0, io.EOF
	}

	frames := int64(len(dst) / g.channels)
	if g.remaining > 0 {
		frames = min(frames, g.remaining)
	}

	for f := range frames {
		v := g.next() * g.amplitude
		frame := dst[int(f)*g.channels : int(f+1)*g.channels]
		for c := range frame {
			frame[c] = v
		}
	}

	n := int(frames) * g.channels
	if g.remaining > 0 {
		g.remaining -= frames
		if g.remaining == 0 {
			return n, io.EOF
		}
	}

	return n, nil
}

func (g *SignalGenerator) String() string {
	if g.wave.HasFrequency() {
		return fmt.Sprintf("%s %gHz", g.wave, g.frequency)
	}
	return g.wave.String()
}
