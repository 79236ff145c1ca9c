// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"slices"
	"testing"
)

func TestParseWaveform(t *testing.T) {
	t.Parallel()

	tests := map[string]Waveform{
		"sine":        Sine,
		" Square ":    Square,
		"silence":     Silence,
		"noise":       WhiteNoise,
		"white_noise": WhiteNoise,
		"White Noise": WhiteNoise,
	}
	for in, want := range tests {
		if got, err := ParseWaveform(in); err != nil || got != want {
			t.Errorf("ParseWaveform(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWaveform("triangle"); !errors.Is(err, ErrUnknownWaveform) {
		t.Errorf("ParseWaveform(triangle) error = %v", err)
	}
}

func TestNewSignalGenerator_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := NewSignalGenerator(Sine, 440, 0, 2); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("rate 0 error = %v", err)
	}
	if _, err := NewSignalGenerator(Sine, 440, 48000, 0); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("channels 0 error = %v", err)
	}
}

func TestSignalGenerator_Sine(t *testing.T) {
	t.Parallel()

	gen, err := NewSignalGenerator(Sine, 1000, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	gen.WithAmplitude(0.5)

	buf := make([]float32, 96)
	if n, err := gen.ReadSamples(buf); n != 96 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}

	for f := range 48 {
		want := 0.5 * math.Sin(2*math.Pi*float64(f)/48)
		if math.Abs(float64(buf[2*f])-want) > 1e-4 || buf[2*f] != buf[2*f+1] {
			t.Fatalf("frame %d = [%v %v], want %v", f, buf[2*f], buf[2*f+1], want)
		}
	}
}

func TestSignalGenerator_LengthAndEOF(t *testing.T) {
	t.Parallel()

	gen, _ := NewSignalGenerator(Silence, 0, 48000, 1)
	gen.WithLength(10)

	n, err := gen.ReadSamples(make([]float32, 6))
	if n != 6 || err != nil {
		t.Fatalf("first read = %d, %v", n, err)
	}
	n, err = gen.ReadSamples(make([]float32, 6))
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Fatalf("second read = %d, %v", n, err)
	}
	if n, err = gen.ReadSamples(make([]float32, 6)); n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("after EOF = %d, %v", n, err)
	}
}

func TestSignalGenerator_NoiseIsSeeded(t *testing.T) {
	t.Parallel()

	read := func(seed uint64) []float32 {
		gen, _ := NewSignalGenerator(WhiteNoise, 0, 48000, 1)
		gen.WithSeed(seed)
		buf := make([]float32, 64)
		_, _ = gen.ReadSamples(buf)
		return buf
	}

	a, b, c := read(1), read(1), read(2)
	if !slices.Equal(a, b) {
		t.Error("same seed produced different noise")
	}
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical noise")
	}
	for _, s := range a {
		if s < -1 || s > 1 {
			t.Fatalf("noise sample %v out of range", s)
		}
	}
}

func TestSignalGenerator_Metadata(t *testing.T) {
	t.Parallel()

	gen, _ := NewSignalGenerator(Sine, 440, 44100, 2)
	if gen.SampleRate() != 44100 || gen.Channels() != 2 || gen.Waveform() != Sine || gen.Frequency() != 440 {
		t.Errorf("metadata = %v", gen)
	}
	if got := gen.String(); got != "Sine 440Hz" {
		t.Errorf("String() = %q", got)
	}
	noise, _ := NewSignalGenerator(WhiteNoise, 0, 44100, 2)
	if got := noise.String(); got != "White Noise" {
		t.Errorf("String() = %q", got)
	}
	if _, err := gen.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v", err)
	}
}

func TestSignalGenerator_NoAllocs(t *testing.T) {
	gen, _ := NewSignalGenerator(Sine, 440, 48000, 2)
	buf := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = gen.ReadSamples(buf)
	})
	if allocs != 0 {
		t.Errorf("ReadSamples() allocated %v times per call", allocs)
	}
}
