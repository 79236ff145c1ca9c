// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audeng/internal/audiotest"
	"github.com/ik5/audeng/types"
)

// latencyEffect reports fixed latency and counts calls.
type latencyEffect struct {
	*GainEffect
	latency   uint32
	processed int
	rate      types.SampleRate
}

func (e *latencyEffect) LatencySamples() uint32 { return e.latency }

func (e *latencyEffect) Initialize(rate types.SampleRate, ch types.ChannelCount) {
	e.rate = rate
	e.GainEffect.Initialize(rate, ch)
}

func (e *latencyEffect) Process(s []float32, ch types.ChannelCount) {
	e.processed++
	e.GainEffect.Process(s, ch)
}

func TestChain_Structure(t *testing.T) {
	t.Parallel()

	a := &latencyEffect{GainEffect: NewGainEffect(1), latency: 32}
	b := &latencyEffect{GainEffect: NewGainEffect(2), latency: 64}
	c := NewChain(a)

	if err := c.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(NewPanEffect(1)); !errors.Is(err, ErrDuplicateEffect) {
		t.Errorf("duplicate Add error = %v", err)
	}
	if c.Len() != 2 || c.LatencySamples() != 96 {
		t.Errorf("Len() = %d, LatencySamples() = %d", c.Len(), c.LatencySamples())
	}

	c.Initialize(types.Rate96000, types.Stereo)
	if a.rate != types.Rate96000 {
		t.Error("Initialize did not reach effects")
	}

	late := &latencyEffect{GainEffect: NewGainEffect(3)}
	_ = c.Add(late)
	if late.rate != types.Rate96000 {
		t.Error("effect added after Initialize was not initialized")
	}

	if !c.SetEnabled(2, false) || c.SetEnabled(99, true) {
		t.Error("SetEnabled results are wrong")
	}
	if c.LatencySamples() != 32 {
		t.Errorf("disabled effect counted in latency: %d", c.LatencySamples())
	}

	c.Process(make([]float32, 8), types.Stereo)
	if a.processed != 1 || b.processed != 0 {
		t.Errorf("processed a=%d b=%d", a.processed, b.processed)
	}

	if e, ok := c.Remove(1); !ok || e.ID() != 1 {
		t.Error("Remove(1) failed")
	}
	if _, ok := c.Get(1); ok {
		t.Error("removed effect still present")
	}
	if _, ok := c.Remove(1); ok {
		t.Error("second Remove succeeded")
	}
}

func TestChain_SetParameter(t *testing.T) {
	t.Parallel()

	c := NewChain(NewGainEffect(1), NewLowPass(2, 1000, 0.707))
	c.Initialize(types.Rate48000, types.Mono)

	if !c.SetParameter(2, FilterParamQ, FloatValue(2)) {
		t.Error("valid parameter rejected")
	}
	if c.SetParameter(2, 42, FloatValue(2)) {
		t.Error("unknown parameter accepted")
	}
	if c.SetParameter(3, 0, FloatValue(2)) {
		t.Error("unknown effect accepted")
	}

	if c.TailSamples() == 0 {
		t.Error("filter tail not reported")
	}
}

func TestChainSource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(48000, 2, 1000, 0.5)
	c := NewChain(NewGainEffectWith(1, 2))

	cs, err := NewChainSource(src, c)
	if err != nil {
		t.Fatal(err)
	}
	if cs.SampleRate() != 48000 || cs.Channels() != 2 || cs.Chain() != c {
		t.Error("ChainSource does not mirror its source")
	}

	out, err := audiotest.Collect(cs, 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2000 {
		t.Fatalf("collected %d samples", len(out))
	}
	for _, s := range out {
		if s != 1 {
			t.Fatalf("sample = %v, want 1", s)
		}
	}

	if err := cs.Close(); err != nil || !src.Closed {
		t.Errorf("Close() = %v, closed = %v", err, src.Closed)
	}
}

func TestChainSource_RejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := NewChainSource(audiotest.NewSilentSource(22050, 2, 10), NewChain())
	if !errors.Is(err, types.ErrInvalidSampleRate) {
		t.Errorf("error = %v", err)
	}
	_, err = NewChainSource(audiotest.NewSilentSource(48000, 3, 10), NewChain())
	if !errors.Is(err, types.ErrInvalidChannelCount) {
		t.Errorf("error = %v", err)
	}
}

func TestPeakMeter(t *testing.T) {
	t.Parallel()

	if got := PeakLevel([]float32{0.1, -0.7, 0.3}); got != 0.7 {
		t.Errorf("PeakLevel() = %v", got)
	}

	m := NewPeakMeter(6)
	if got := m.Process([]float32{0.5, -1}); got != types.ZeroDB {
		t.Errorf("full scale level = %v", got)
	}

	got := m.Process(make([]float32, 4))
	if math.Abs(float64(got.Value()+6)) > 0.01 {
		t.Errorf("level after one silent block = %v, want -6 dB", got)
	}

	m.Reset()
	if !m.Level().IsSilent() {
		t.Errorf("level after Reset = %v", m.Level())
	}
}
