// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audeng/internal/audiotest"
	"github.com/ik5/audeng/types"
)

func constantBlock(n int, v float32) []float32 {
	b := make([]float32, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestGainEffect(t *testing.T) {
	t.Parallel()

	g := NewGainEffect(1)
	g.Initialize(types.Rate48000, types.Stereo)

	block := constantBlock(8, 0.5)
	g.Process(block, types.Stereo)
	if block[0] != 0.5 {
		t.Errorf("unity gain changed the signal: %v", block[0])
	}

	if !g.SetParameter(GainParamDB, FloatValue(-6)) {
		t.Fatal("SetParameter(gain) rejected")
	}
	if g.SetParameter(9, FloatValue(1)) {
		t.Error("unknown parameter accepted")
	}

	// 10 ms at 48 kHz is 480 samples.
	ramp := constantBlock(480, 1)
	g.Process(ramp, types.Stereo)
	want := types.GainFromDB(-6).Linear()
	if math.Abs(float64(ramp[479]-want)) > 1e-5 {
		t.Errorf("end of ramp = %v, want %v", ramp[479], want)
	}
	if ramp[0] <= want || ramp[0] >= 1 {
		t.Errorf("ramp did not start near unity: %v", ramp[0])
	}

	v, ok := g.Parameter(GainParamDB)
	if !ok || math.Abs(float64(v.Float()+6)) > 1e-3 {
		t.Errorf("Parameter() = %v, %v", v, ok)
	}

	g.SetEnabled(false)
	block = constantBlock(4, 1)
	g.Process(block, types.Stereo)
	if block[0] != 1 {
		t.Error("disabled effect processed audio")
	}
}

func TestGainEffect_ResetSnaps(t *testing.T) {
	t.Parallel()

	g := NewGainEffectWith(1, types.SilenceGain)
	g.SetGainDB(0)
	g.Reset()
	if got := g.GainDB(); math.Abs(float64(got)) > 1e-4 {
		t.Errorf("GainDB after Reset = %v", got)
	}
}

func TestPanEffect(t *testing.T) {
	t.Parallel()

	p := NewPanEffectWith(2, types.Left)
	p.Initialize(types.Rate48000, types.Stereo)

	block := constantBlock(4, 1)
	p.Process(block, types.Stereo)
	if math.Abs(float64(block[0]-1)) > 1e-6 || math.Abs(float64(block[1])) > 1e-6 {
		t.Errorf("hard left = %v", block[:2])
	}

	p.SetParameter(PanParam, FloatValue(0))
	p.Reset()
	block = constantBlock(2, 1)
	p.Process(block, types.Stereo)
	if math.Abs(float64(block[0]-block[1])) > 1e-6 {
		t.Errorf("center not balanced: %v", block)
	}
	if p.Pan() != types.Center {
		t.Errorf("Pan() = %v", p.Pan())
	}

	mono := constantBlock(4, 1)
	NewPanEffectWith(3, types.Right).Process(mono, types.Mono)
	if mono[0] != 1 {
		t.Error("pan modified a mono block")
	}
}

func TestBiquadFilter_LowPass(t *testing.T) {
	t.Parallel()

	const rate = 48000
	lp := NewLowPass(1, 500, 0.707)
	lp.Initialize(types.Rate48000, types.Mono)

	// DC passes a low pass filter at unity.
	dc := constantBlock(4800, 1)
	lp.Process(dc, types.Mono)
	if math.Abs(float64(dc[len(dc)-1]-1)) > 1e-3 {
		t.Errorf("DC gain = %v", dc[len(dc)-1])
	}

	// 10 kHz is strongly attenuated.
	lp.Reset()
	src := audiotest.NewSineSource(rate, 1, 4800, 10000)
	buf := make([]float32, 4800)
	n, _ := src.ReadSamples(buf)
	lp.Process(buf[:n], types.Mono)
	if peak := PeakLevel(buf[2400:n]); peak > 0.05 {
		t.Errorf("10 kHz peak after 500 Hz low pass = %v", peak)
	}
}

func TestBiquadFilter_HighPassBlocksDC(t *testing.T) {
	t.Parallel()

	hp := NewHighPass(1, 200, 0.707)
	hp.Initialize(types.Rate48000, types.Stereo)

	dc := constantBlock(9600, 0.8)
	hp.Process(dc, types.Stereo)
	if got := PeakLevel(dc[9000:]); got > 1e-3 {
		t.Errorf("DC after high pass = %v", got)
	}
}

func TestBiquadFilter_Parameters(t *testing.T) {
	t.Parallel()

	f := NewPeak(4, 1000, 1, 6)
	f.Initialize(types.Rate48000, types.Stereo)

	if f.Name() != "Peak" || f.Kind() != Peak || len(f.Parameters()) != 3 {
		t.Errorf("filter metadata: %s %v %d", f.Name(), f.Kind(), len(f.Parameters()))
	}

	f.SetParameter(FilterParamFrequency, FloatValue(50000))
	f.SetParameter(FilterParamQ, FloatValue(0))
	f.SetParameter(FilterParamGainDB, FloatValue(-100))
	f.Reset()

	for id, want := range map[ParamID]float32{FilterParamFrequency: 20000, FilterParamQ: 0.1, FilterParamGainDB: -24} {
		v, ok := f.Parameter(id)
		if !ok || v.Float() != want {
			t.Errorf("Parameter(%v) = %v, want %v", id, v, want)
		}
	}
	if _, ok := f.Parameter(7); ok {
		t.Error("unknown parameter reported")
	}

	// Frequency above Nyquist is clamped internally; output stays finite.
	block := constantBlock(1024, 0.5)
	f.Process(block, types.Stereo)
	for _, s := range block {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			t.Fatal("filter produced a non-finite sample")
		}
	}
}

func TestBiquadFilter_SmoothingRecomputes(t *testing.T) {
	t.Parallel()

	f := NewLowPass(1, 1000, 0.707)
	f.Initialize(types.Rate48000, types.Mono)
	f.SetFrequency(2000)

	f.Process(make([]float32, 240), types.Mono)
	v, _ := f.Parameter(FilterParamFrequency)
	if v.Float() <= 1000 || v.Float() >= 2000 {
		t.Errorf("frequency half way through ramp = %v", v.Float())
	}

	f.Process(make([]float32, 240), types.Mono)
	v, _ = f.Parameter(FilterParamFrequency)
	if v.Float() != 2000 {
		t.Errorf("frequency after ramp = %v", v.Float())
	}
}

func TestEffects_RejectNonFinite(t *testing.T) {
	t.Parallel()

	nan := FloatValue(float32(math.NaN()))
	inf := FloatValue(float32(math.Inf(1)))

	effects := []struct {
		effect Effect
		param  ParamID
	}{
		{NewGainEffect(1), GainParamDB},
		{NewPanEffect(2), PanParam},
		{NewLowPass(3, 1000, 0.707), FilterParamFrequency},
		{NewLowPass(4, 1000, 0.707), FilterParamQ},
		{NewPeak(5, 1000, 1, 6), FilterParamGainDB},
	}

	for _, tt := range effects {
		tt.effect.Initialize(types.Rate48000, types.Stereo)
		if tt.effect.SetParameter(tt.param, nan) || tt.effect.SetParameter(tt.param, inf) {
			t.Errorf("%s accepted a non-finite %v", tt.effect.Name(), tt.param)
		}

		block := constantBlock(512, 0.5)
		tt.effect.Process(block, types.Stereo)
		for i, v := range block {
			if !types.IsFinite(v) {
				t.Fatalf("%s produced %v at %d", tt.effect.Name(), v, i)
			}
		}
	}
}

func TestParseFilterType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]FilterType{
		"lowpass": LowPass, "High_Pass": HighPass, "band-pass": BandPass,
		"notch": Notch, "bell": Peak, "low shelf": LowShelf, "highshelf": HighShelf,
	} {
		got, err := ParseFilterType(in)
		if err != nil || got != want {
			t.Errorf("ParseFilterType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFilterType("comb"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("ParseFilterType(comb) error = %v", err)
	}
}

func TestEffects_NoAllocs(t *testing.T) {
	chain := NewChain(
		NewGainEffect(1),
		NewPanEffect(2),
		NewLowPass(3, 1200, 0.707),
		NewHighShelf(4, 6000, 3),
	)
	chain.Initialize(types.Rate48000, types.Stereo)
	block := make([]float32, 1024)
	meter := NewPeakMeter(3)

	allocs := testing.AllocsPerRun(50, func() {
		chain.SetParameter(1, GainParamDB, FloatValue(-3))
		chain.SetParameter(3, FilterParamFrequency, FloatValue(800))
		chain.Process(block, types.Stereo)
		meter.Process(block)
		chain.Reset()
	})
	if allocs != 0 {
		t.Errorf("effect processing allocated %v times", allocs)
	}
}

func BenchmarkBiquadFilter_Stereo(b *testing.B) {
	f := NewPeak(1, 1000, 1, 6)
	f.Initialize(types.Rate48000, types.Stereo)
	block := make([]float32, 1024)

	b.ReportAllocs()
	for b.Loop() {
		f.Process(block, types.Stereo)
	}
}
