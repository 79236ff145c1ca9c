// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ik5/audeng/types"
)

// ParamID identifies a parameter within one effect.
type ParamID uint32

func (id ParamID) String() string { return fmt.Sprintf("Param#%d", uint32(id)) }

// ParamKind records which constructor built a ParamValue.
type ParamKind uint8

const (
	KindFloat ParamKind = iota
	KindInt
	KindBool
	KindDecibels
	KindGain
)

// ParamValue is a tagged parameter value. Conversions between kinds follow
// fixed rules so any effect can accept any kind.
type ParamValue struct {
	kind ParamKind
	f    float32
	i    int32
	b    bool
}

func FloatValue(v float32) ParamValue { return ParamValue{kind: KindFloat, f: v} }
func IntValue(v int32) ParamValue     { return ParamValue{kind: KindInt, i: v} }
func BoolValue(v bool) ParamValue     { return ParamValue{kind: KindBool, b: v} }

func DecibelsValue(v types.Decibels) ParamValue {
	return ParamValue{kind: KindDecibels, f: v.Value()}
}

func GainValue(v types.Gain) ParamValue { return ParamValue{kind: KindGain, f: v.Linear()} }

func (v ParamValue) Kind() ParamKind { return v.kind }

func (v ParamValue) Float() float32 {
	switch v.kind {
	case KindInt:
		return float32(v.i)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	}
	return v.f
}

// Int truncates toward zero.
func (v ParamValue) Int() int32 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	}
	return int32(v.f)
}

// Bool is true for floats above 0.5, non-zero ints, non-silent decibels and
// positive gains.
func (v ParamValue) Bool() bool {
	switch v.kind {
	case KindFloat:
		return v.f > 0.5
	case KindInt:
		return v.i != 0
	case KindBool:
		return v.b
	case KindDecibels:
		return !types.Decibels(v.f).IsSilent()
	case KindGain:
		return v.f > 0
	}
	return false
}

func (v ParamValue) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.i))
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDecibels:
		return types.Decibels(v.f).String()
	case KindGain:
		return types.Gain(v.f).String()
	}
	return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
}

// ParameterInfo describes one automatable parameter.
type ParameterInfo struct {
	ID        ParamID
	Name      string
	ShortName string
	Min       float32
	Max       float32
	Default   float32
	Unit      string
	Precision int
}

// NewParameterInfo returns a [0, 1] parameter defaulting to 0.5.
func NewParameterInfo(id ParamID, name string) ParameterInfo {
	return ParameterInfo{
		ID:        id,
		Name:      name,
		ShortName: name,
		Max:       1,
		Default:   0.5,
		Precision: 2,
	}
}

func (p ParameterInfo) WithShortName(s string) ParameterInfo { p.ShortName = s; return p }
func (p ParameterInfo) WithRange(lo, hi float32) ParameterInfo {
	p.Min, p.Max = lo, hi
	return p
}
func (p ParameterInfo) WithDefault(v float32) ParameterInfo { p.Default = v; return p }
func (p ParameterInfo) WithUnit(u string) ParameterInfo     { p.Unit = u; return p }
func (p ParameterInfo) WithPrecision(n int) ParameterInfo   { p.Precision = n; return p }

// Normalize maps v into [0, 1]. A degenerate range maps everything to 0.
func (p ParameterInfo) Normalize(v float32) float32 {
	span := p.Max - p.Min
	if math.Abs(float64(span)) < 1.1920929e-07 {
		return 0
	}
	return min(max((v-p.Min)/span, 0), 1)
}

func (p ParameterInfo) Denormalize(n float32) float32 {
	return p.Min + min(max(n, 0), 1)*(p.Max-p.Min)
}

// Clamp limits v to the parameter range.
func (p ParameterInfo) Clamp(v float32) float32 { return min(max(v, p.Min), p.Max) }

// Format renders v with the parameter precision and unit.
func (p ParameterInfo) Format(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', p.Precision, 32) + p.Unit
}

// SmoothParam ramps linearly from its current value to a target over a
// fixed number of samples, landing exactly on the target.
type SmoothParam struct {
	current   float32
	target    float32
	increment float32
	remaining uint32
}

func NewSmoothParam(initial float32) SmoothParam {
	return SmoothParam{current: initial, target: initial}
}

// SetTarget starts a ramp of n samples. n == 0 jumps immediately.
func (s *SmoothParam) SetTarget(target float32, n uint32) {
	s.target = target
	if n == 0 {
		s.SetImmediate(target)
		return
	}

	s.increment = (target - s.current) / float32(n)
	s.remaining = n
}

func (s *SmoothParam) SetImmediate(v float32) {
	s.current, s.target = v, v
	s.increment, s.remaining = 0, 0
}

func (s *SmoothParam) Current() float32  { return s.current }
func (s *SmoothParam) Target() float32   { return s.target }
func (s *SmoothParam) IsSmoothing() bool { return s.remaining > 0 }

// Next advances one sample and returns the new value.
func (s *SmoothParam) Next() float32 {
	if s.remaining > 0 {
		s.current += s.increment
		s.remaining--
		if s.remaining == 0 {
			s.current = s.target
		}
	}
	return s.current
}

// Advance moves n samples along the ramp at once.
func (s *SmoothParam) Advance(n uint32) {
	if s.remaining == 0 {
		return
	}

	step := min(n, s.remaining)
	s.current += s.increment * float32(step)
	s.remaining -= step
	if s.remaining == 0 {
		s.current = s.target
	}
}

// smoothingSamples is the ramp length used by every built-in effect.
func smoothingSamples(rate types.SampleRate) uint32 { return rate.SamplesForMilliseconds(10) }
