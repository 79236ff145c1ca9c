// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"
	"strings"

	"github.com/ik5/audeng/types"
)

// FilterType selects the response of a BiquadFilter.
type FilterType uint8

const (
	LowPass FilterType = iota
	HighPass
	BandPass
	Notch
	Peak
	LowShelf
	HighShelf
)

var filterNames = [...]string{
	LowPass:   "Low Pass",
	HighPass:  "High Pass",
	BandPass:  "Band Pass",
	Notch:     "Notch",
	Peak:      "Peak",
	LowShelf:  "Low Shelf",
	HighShelf: "High Shelf",
}

func (f FilterType) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("FilterType(%d)", uint8(f))
}

// ParseFilterType accepts the names used in configuration files, such as
// "lowpass", "low_pass" or "high-shelf".
func ParseFilterType(s string) (FilterType, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	switch key {
	case "lowpass", "lpf":
		return LowPass, nil
	case "highpass", "hpf":
		return HighPass, nil
	case "bandpass", "bpf":
		return BandPass, nil
	case "notch":
		return Notch, nil
	case "peak", "bell":
		return Peak, nil
	case "lowshelf":
		return LowShelf, nil
	case "highshelf":
		return HighShelf, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Biquad filter parameters.
const (
	FilterParamFrequency ParamID = 0
	FilterParamQ         ParamID = 1
	FilterParamGainDB    ParamID = 2
)

// MaxFilterChannels is the number of channels a BiquadFilter keeps state
// for. Further channels pass through.
const MaxFilterChannels = 8

type biquadCoeffs struct {
	b0, b1, b2, a1, a2 float32
}

// biquadState is direct form I.
type biquadState struct {
	x1, x2, y1, y2 float32
}

func (s *biquadState) process(in float32, c *biquadCoeffs) float32 {
	out := c.b0*in + c.b1*s.x1 + c.b2*s.x2 - c.a1*s.y1 - c.a2*s.y2

	s.x2, s.x1 = s.x1, in
	s.y2, s.y1 = s.y1, out

	return out
}

// BiquadFilter is a second order IIR filter using the RBJ audio EQ cookbook
// formulas.
type BiquadFilter struct {
	base
	kind FilterType

	frequency SmoothParam
	q         SmoothParam
	gainDB    SmoothParam

	coeffs biquadCoeffs
	states [MaxFilterChannels]biquadState
	dirty  bool
}

// NewBiquadFilter returns a 1 kHz filter with a Butterworth Q.
func NewBiquadFilter(id EffectID, kind FilterType) *BiquadFilter {
	return NewBiquadFilterWith(id, kind, 1000, 0.707, 0)
}

func NewBiquadFilterWith(id EffectID, kind FilterType, frequency, q, gainDB float32) *BiquadFilter {
	f := &BiquadFilter{
		base: newBase(id,
			NewParameterInfo(FilterParamFrequency, "Frequency").
				WithShortName("Freq").
				WithRange(20, 20000).
				WithDefault(1000).
				WithUnit("Hz").
				WithPrecision(0),
			NewParameterInfo(FilterParamQ, "Q").
				WithRange(0.1, 20).
				WithDefault(0.707),
			NewParameterInfo(FilterParamGainDB, "Gain").
				WithRange(-24, 24).
				WithDefault(0).
				WithUnit("dB").
				WithPrecision(1),
		),
		kind:      kind,
		frequency: NewSmoothParam(min(max(frequency, 20), 20000)),
		q:         NewSmoothParam(min(max(q, 0.1), 20)),
		gainDB:    NewSmoothParam(min(max(gainDB, -24), 24)),
	}
	f.updateCoefficients()

	return f
}

func NewLowPass(id EffectID, frequency, q float32) *BiquadFilter {
	return NewBiquadFilterWith(id, LowPass, frequency, q, 0)
}

func NewHighPass(id EffectID, frequency, q float32) *BiquadFilter {
	return NewBiquadFilterWith(id, HighPass, frequency, q, 0)
}

func NewBandPass(id EffectID, frequency, q float32) *BiquadFilter {
	return NewBiquadFilterWith(id, BandPass, frequency, q, 0)
}

func NewNotch(id EffectID, frequency, q float32) *BiquadFilter {
	return NewBiquadFilterWith(id, Notch, frequency, q, 0)
}

func NewPeak(id EffectID, frequency, q, gainDB float32) *BiquadFilter {
	return NewBiquadFilterWith(id, Peak, frequency, q, gainDB)
}

func NewLowShelf(id EffectID, frequency, gainDB float32) *BiquadFilter {
	return NewBiquadFilterWith(id, LowShelf, frequency, 0.707, gainDB)
}

func NewHighShelf(id EffectID, frequency, gainDB float32) *BiquadFilter {
	return NewBiquadFilterWith(id, HighShelf, frequency, 0.707, gainDB)
}

func (f *BiquadFilter) Name() string     { return f.kind.String() }
func (f *BiquadFilter) Kind() FilterType { return f.kind }

func (f *BiquadFilter) SetFrequency(hz float32) {
	f.frequency.SetTarget(min(max(hz, 20), 20000), smoothingSamples(f.rate))
	f.dirty = true
}

func (f *BiquadFilter) SetQ(q float32) {
	f.q.SetTarget(min(max(q, 0.1), 20), smoothingSamples(f.rate))
	f.dirty = true
}

func (f *BiquadFilter) SetGainDB(db float32) {
	f.gainDB.SetTarget(min(max(db, -24), 24), smoothingSamples(f.rate))
	f.dirty = true
}

func (f *BiquadFilter) updateCoefficients() {
	fs := float64(f.rate)
	freq := min(max(float64(f.frequency.Current()), 20), fs*0.49)
	q := float64(f.q.Current())
	gain := float64(f.gainDB.Current())

	omega := 2 * math.Pi * freq / fs
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch f.kind {
	case LowPass:
		b1 = 1 - cosW
		b0, b2 = b1/2, b1/2
		a0, a1, a2 = 1+alpha, -2*cosW, 1-alpha
	case HighPass:
		b1 = -(1 + cosW)
		b0, b2 = (1+cosW)/2, (1+cosW)/2
		a0, a1, a2 = 1+alpha, -2*cosW, 1-alpha
	case BandPass:
		b0, b1, b2 = alpha, 0, -alpha
		a0, a1, a2 = 1+alpha, -2*cosW, 1-alpha
	case Notch:
		b0, b1, b2 = 1, -2*cosW, 1
		a0, a1, a2 = 1+alpha, -2*cosW, 1-alpha
	case Peak:
		a := math.Pow(10, gain/40)
		b0, b1, b2 = 1+alpha*a, -2*cosW, 1-alpha*a
		a0, a1, a2 = 1+alpha/a, -2*cosW, 1-alpha/a
	case LowShelf:
		a := math.Pow(10, gain/40)
		s := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cosW + s)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW)
		b2 = a * ((a + 1) - (a-1)*cosW - s)
		a0 = (a + 1) + (a-1)*cosW + s
		a1 = -2 * ((a - 1) + (a+1)*cosW)
		a2 = (a + 1) + (a-1)*cosW - s
	case HighShelf:
		a := math.Pow(10, gain/40)
		s := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosW + s)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW)
		b2 = a * ((a + 1) + (a-1)*cosW - s)
		a0 = (a + 1) - (a-1)*cosW + s
		a1 = 2 * ((a - 1) - (a+1)*cosW)
		a2 = (a + 1) - (a-1)*cosW - s
	}

	inv := 1 / a0
	f.coeffs = biquadCoeffs{
		b0: float32(b0 * inv),
		b1: float32(b1 * inv),
		b2: float32(b2 * inv),
		a1: float32(a1 * inv),
		a2: float32(a2 * inv),
	}
	f.dirty = false
}

func (f *BiquadFilter) smoothing() bool {
	return f.frequency.IsSmoothing() || f.q.IsSmoothing() || f.gainDB.IsSmoothing()
}

// Reset clears the filter history and snaps parameters to their targets.
func (f *BiquadFilter) Reset() {
	f.states = [MaxFilterChannels]biquadState{}
	f.frequency.SetImmediate(f.frequency.Target())
	f.q.SetImmediate(f.q.Target())
	f.gainDB.SetImmediate(f.gainDB.Target())
	f.updateCoefficients()
}

func (f *BiquadFilter) Initialize(rate types.SampleRate, _ types.ChannelCount) {
	f.rate = rate
	f.updateCoefficients()
}

// Process advances parameter smoothing by the block length and recomputes
// coefficients once per block while a ramp is running.
func (f *BiquadFilter) Process(samples []float32, channels types.ChannelCount) {
	ch := channels.Count()
	if !f.enabled || ch == 0 {
		return
	}

	if f.dirty || f.smoothing() {
		frames := uint32(len(samples) / ch)
		f.frequency.Advance(frames)
		f.q.Advance(frames)
		f.gainDB.Advance(frames)
		f.updateCoefficients()
	}

	active := min(ch, MaxFilterChannels)
	for i := 0; i+ch <= len(samples); i += ch {
		for c := range active {
			samples[i+c] = f.states[c].process(samples[i+c], &f.coeffs)
		}
	}
}

func (f *BiquadFilter) Parameter(id ParamID) (ParamValue, bool) {
	switch id {
	case FilterParamFrequency:
		return FloatValue(f.frequency.Current()), true
	case FilterParamQ:
		return FloatValue(f.q.Current()), true
	case FilterParamGainDB:
		return FloatValue(f.gainDB.Current()), true
	}
	return ParamValue{}, false
}

func (f *BiquadFilter) SetParameter(id ParamID, v ParamValue) bool {
	if !types.IsFinite(v.Float()) {
		return false
	}

	switch id {
	case FilterParamFrequency:
		f.SetFrequency(v.Float())
	case FilterParamQ:
		f.SetQ(v.Float())
	case FilterParamGainDB:
		f.SetGainDB(v.Float())
	default:
		return false
	}
	return true
}

// TailSamples is a rough decay estimate: the filter rings for about
// Q cycles of its centre frequency.
func (f *BiquadFilter) TailSamples() uint32 {
	return uint32(float32(f.rate) * f.q.Target() / f.frequency.Target())
}
