// SPDX-License-Identifier: EPL-2.0

package dsp

import "github.com/ik5/audeng/types"

// GainParamDB is the gain in decibels, -80 to +24.
const GainParamDB ParamID = 0

// GainEffect scales every sample by a smoothed linear gain.
type GainEffect struct {
	base
	gain SmoothParam
}

func NewGainEffect(id EffectID) *GainEffect { return NewGainEffectWith(id, types.Unity) }

func NewGainEffectWith(id EffectID, g types.Gain) *GainEffect {
	return &GainEffect{
		base: newBase(id, NewParameterInfo(GainParamDB, "Gain").
			WithRange(types.MinGainDB, types.MaxGainDB).
			WithDefault(0).
			WithUnit("dB").
			WithPrecision(1)),
		gain: NewSmoothParam(g.Linear()),
	}
}

func (e *GainEffect) Name() string { return "Gain" }

// SetGainDB ramps to db over 10 ms.
func (e *GainEffect) SetGainDB(db float32) {
	e.gain.SetTarget(types.GainFromDB(db).Linear(), smoothingSamples(e.rate))
}

func (e *GainEffect) GainDB() float32 { return types.Gain(e.gain.Current()).DB() }

func (e *GainEffect) Reset() { e.gain.SetImmediate(e.gain.Target()) }

func (e *GainEffect) Initialize(rate types.SampleRate, _ types.ChannelCount) { e.rate = rate }

func (e *GainEffect) Process(samples []float32, _ types.ChannelCount) {
	if !e.enabled {
		return
	}

	if !e.gain.IsSmoothing() {
		g := e.gain.Current()
		for i := range samples {
			samples[i] *= g
		}
		return
	}

	for i := range samples {
		samples[i] *= e.gain.Next()
	}
}

func (e *GainEffect) Parameter(id ParamID) (ParamValue, bool) {
	if id != GainParamDB {
		return ParamValue{}, false
	}
	return FloatValue(e.GainDB()), true
}

func (e *GainEffect) SetParameter(id ParamID, v ParamValue) bool {
	if id != GainParamDB || !types.IsFinite(v.Float()) {
		return false
	}
	e.SetGainDB(v.Float())
	return true
}
