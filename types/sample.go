// SPDX-License-Identifier: EPL-2.0

package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SampleRate is one of the sample rates the engine runs at, in Hz.
type SampleRate uint32

const (
	Rate44100  SampleRate = 44100  // CD quality
	Rate48000  SampleRate = 48000  // professional audio/video
	Rate96000  SampleRate = 96000  // high resolution
	Rate192000 SampleRate = 192000 // ultra high resolution

	DefaultSampleRate = Rate48000
)

// AllSampleRates lists the supported rates in ascending order.
var AllSampleRates = [...]SampleRate{Rate44100, Rate48000, Rate96000, Rate192000}

// ParseSampleRate validates hz against the supported rates.
func ParseSampleRate(hz uint32) (SampleRate, error) {
	switch SampleRate(hz) {
	case Rate44100, Rate48000, Rate96000, Rate192000:
		return SampleRate(hz), nil
	}

	return 0, &ValueError{
		Kind:  ErrInvalidSampleRate,
		Value: int64(hz),
		Hint:  "expected one of 44100, 48000, 96000, 192000",
	}
}

// SampleRateFromString parses a decimal rate such as " 48000 ".
func SampleRateFromString(s string) (SampleRate, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, &ValueError{Kind: ErrInvalidSampleRate, Value: 0}
	}

	return ParseSampleRate(uint32(v))
}

func (r SampleRate) Hz() uint32 { return uint32(r) }

// PeriodSeconds is the duration of one sample.
func (r SampleRate) PeriodSeconds() float64 { return 1.0 / float64(r) }

// PeriodNanos is the duration of one sample, truncated to whole nanoseconds.
func (r SampleRate) PeriodNanos() uint64 { return 1_000_000_000 / uint64(r) }

// SamplesForMilliseconds returns rate*ms/1000, saturating at MaxUint32.
func (r SampleRate) SamplesForMilliseconds(ms uint32) uint32 {
	n := uint64(r) * uint64(ms) / 1000
	if n > math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(n)
}

func (r SampleRate) String() string { return fmt.Sprintf("%d Hz", uint32(r)) }

// Sample is a single audio sample. The nominal range is [-1, 1]; values
// outside it are kept as headroom and clipped on output.
type Sample float32

const (
	Silence   Sample = 0
	MaxSample Sample = 1
	MinSample Sample = -1
)

// Clamped returns v clamped to [-1, 1].
func Clamped(v float32) Sample { return Sample(clamp32(v, -1, 1)) }

// SampleFromInt24 converts a 24-bit integer sample stored in an int32.
func SampleFromInt24(v int32) Sample { return Sample(float32(v) / 8_388_608.0) }

func (s Sample) Float() float32 { return float32(s) }

// IsValid reports whether s is finite and inside [-1, 1].
func (s Sample) IsValid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && s >= -1 && s <= 1
}

func (s Sample) IsSilent() bool { return math.Abs(float64(s)) < 1e-10 }

func (s Sample) Clip() Sample { return Sample(clamp32(float32(s), -1, 1)) }

func (s Sample) ApplyGain(g Gain) Sample { return Sample(float32(s) * g.Linear()) }

// ToInt16 clips, scales by 32767 and rounds half to even.
func (s Sample) ToInt16() int16 {
	return int16(math.RoundToEven(float64(s.Clip()) * 32767.0))
}

func (s Sample) String() string { return strconv.FormatFloat(float64(s), 'f', 6, 32) }

// Gain is a linear amplitude multiplier. 1 is unity.
type Gain float32

const (
	Unity       Gain = 1
	SilenceGain Gain = 0

	MinGainDB float32 = -80
	MaxGainDB float32 = 24

	// maxLinearGain is +24 dB.
	maxLinearGain float32 = 15.85
)

// NewGain rejects negative and non-finite values.
func NewGain(linear float32) (Gain, error) {
	if linear < 0 || !IsFinite(linear) {
		return 0, fmt.Errorf("%w: %v (must be finite and non-negative)", ErrInvalidGain, linear)
	}

	return Gain(linear), nil
}

// GainFromLinearClamped maps invalid values to silence and caps at +24 dB.
func GainFromLinearClamped(linear float32) Gain {
	if !IsFinite(linear) || linear < 0 {
		return SilenceGain
	}

	return Gain(min(linear, maxLinearGain))
}

// GainFromDB converts decibels to a linear gain. Anything at or below
// MinGainDB is silence; values above MaxGainDB, and NaN, are capped.
func GainFromDB(db float32) Gain {
	if math.IsNaN(float64(db)) {
		db = MaxGainDB
	}
	if db <= MinGainDB {
		return SilenceGain
	}

	db = min(db, MaxGainDB)
	return Gain(math.Pow(10, float64(db)/20))
}

func (g Gain) Linear() float32 { return float32(g) }

// DB returns the gain in decibels; silence reports MinGainDB.
func (g Gain) DB() float32 {
	if g <= 0 {
		return MinGainDB
	}

	return float32(20 * math.Log10(float64(g)))
}

func (g Gain) Decibels() Decibels { return NewDecibels(g.DB()) }

// Lerp interpolates linearly towards other; t is clamped to [0, 1].
func (g Gain) Lerp(other Gain, t float32) Gain {
	t = clamp32(t, 0, 1)
	return g + (other-g)*Gain(t)
}

// LerpDB interpolates in the decibel domain.
func (g Gain) LerpDB(other Gain, t float32) Gain {
	t = clamp32(t, 0, 1)
	a, b := g.DB(), other.DB()
	return GainFromDB(a + (b-a)*t)
}

func (g Gain) String() string { return fmt.Sprintf("%.1f dB", g.DB()) }

// Decibels is a level in dB, clamped to [-120, 24].
type Decibels float32

const (
	SilenceDB Decibels = -80
	ZeroDB    Decibels = 0
)

func NewDecibels(db float32) Decibels {
	if !IsFinite(db) {
		return SilenceDB
	}

	return Decibels(clamp32(db, -120, 24))
}

func DecibelsFromLinear(linear float32) Decibels {
	if linear <= 0 || !IsFinite(linear) {
		return SilenceDB
	}

	return NewDecibels(float32(20 * math.Log10(float64(linear))))
}

func (d Decibels) Value() float32 { return float32(d) }

func (d Decibels) Linear() float32 { return float32(math.Pow(10, float64(d)/20)) }

func (d Decibels) Gain() Gain { return GainFromDB(float32(d)) }

func (d Decibels) IsSilent() bool { return d <= SilenceDB }

func (d Decibels) IsClipping() bool { return d > 0 }

func (d Decibels) String() string {
	if d.IsSilent() {
		return "-inf dB"
	}

	return fmt.Sprintf("%+.1f dB", float32(d))
}

// Pan is a stereo position: -1 full left, 0 center, 1 full right.
type Pan float32

const (
	Center Pan = 0
	Left   Pan = -1
	Right  Pan = 1
)

// NewPan clamps v to [-1, 1]. NaN is centred.
func NewPan(v float32) Pan {
	if math.IsNaN(float64(v)) {
		return Center
	}
	return Pan(clamp32(v, -1, 1))
}

func (p Pan) Value() float32 { return float32(p) }

func (p Pan) angle() float64 { return (float64(p) + 1) * math.Pi / 4 }

// LeftGain is the constant-power left gain, cos((p+1)·π/4).
func (p Pan) LeftGain() Gain { return Gain(max(0, math.Cos(p.angle()))) }

// RightGain is the constant-power right gain, sin((p+1)·π/4).
func (p Pan) RightGain() Gain { return Gain(max(0, math.Sin(p.angle()))) }

// Gains returns the (left, right) pair.
func (p Pan) Gains() (Gain, Gain) { return p.LeftGain(), p.RightGain() }

func (p Pan) Lerp(other Pan, t float32) Pan {
	t = clamp32(t, 0, 1)
	return NewPan(float32(p) + (float32(other)-float32(p))*t)
}

func (p Pan) String() string {
	switch {
	case math.Abs(float64(p)) < 0.01:
		return "C"
	case p < 0:
		return fmt.Sprintf("L%.0f", -float32(p)*100)
	default:
		return fmt.Sprintf("R%.0f", float32(p)*100)
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
