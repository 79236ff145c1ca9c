// SPDX-License-Identifier: EPL-2.0

package dsp

import "github.com/ik5/audeng/types"

// PanParam is the pan position, -1 (left) to +1 (right).
const PanParam ParamID = 0

// PanEffect applies a constant-power pan to stereo frames. Other channel
// layouts pass through untouched.
type PanEffect struct {
	base
	pan SmoothParam
}

func NewPanEffect(id EffectID) *PanEffect { return NewPanEffectWith(id, types.Center) }

func NewPanEffectWith(id EffectID, p types.Pan) *PanEffect {
	return &PanEffect{
		base: newBase(id, NewParameterInfo(PanParam, "Pan").
			WithRange(-1, 1).
			WithDefault(0)),
		pan: NewSmoothParam(p.Value()),
	}
}

func (e *PanEffect) Name() string { return "Pan" }

func (e *PanEffect) SetPan(p types.Pan) { e.pan.SetTarget(p.Value(), smoothingSamples(e.rate)) }

func (e *PanEffect) Pan() types.Pan { return types.NewPan(e.pan.Current()) }

func (e *PanEffect) Reset() { e.pan.SetImmediate(e.pan.Target()) }

func (e *PanEffect) Initialize(rate types.SampleRate, _ types.ChannelCount) { e.rate = rate }

func (e *PanEffect) Process(samples []float32, channels types.ChannelCount) {
	if !e.enabled || channels != types.Stereo {
		return
	}

	for i := 0; i+1 < len(samples); i += 2 {
		l, r := types.NewPan(e.pan.Next()).Gains()
		samples[i] *= l.Linear()
		samples[i+1] *= r.Linear()
	}
}

func (e *PanEffect) Parameter(id ParamID) (ParamValue, bool) {
	if id != PanParam {
		return ParamValue{}, false
	}
	return FloatValue(e.pan.Current()), true
}

func (e *PanEffect) SetParameter(id ParamID, v ParamValue) bool {
	if id != PanParam || !types.IsFinite(v.Float()) {
		return false
	}
	e.SetPan(types.NewPan(v.Float()))
	return true
}
