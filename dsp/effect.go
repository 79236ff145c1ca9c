// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// EffectID identifies an effect inside a chain.
type EffectID uint32

func (id EffectID) String() string { return fmt.Sprintf("Effect#%d", uint32(id)) }

// Effect processes interleaved samples in place.
//
// Initialize is called from the control side before processing starts and
// may allocate. Process, SetParameter and Reset run on the real-time path
// and must not.
type Effect interface {
	ID() EffectID
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Reset()
	Initialize(rate types.SampleRate, channels types.ChannelCount)
	Process(samples []float32, channels types.ChannelCount)
	Parameters() []ParameterInfo
	Parameter(id ParamID) (ParamValue, bool)
	SetParameter(id ParamID, v ParamValue) bool
	LatencySamples() uint32
	TailSamples() uint32
}

// ProcessContext describes the block being processed.
type ProcessContext struct {
	SampleRate types.SampleRate
	Channels   types.ChannelCount
	Frames     int
	Position   types.Timestamp
	// TempoBPM is zero when no tempo is known.
	TempoBPM float32
}

func NewProcessContext(rate types.SampleRate, channels types.ChannelCount, frames int) ProcessContext {
	return ProcessContext{SampleRate: rate, Channels: channels, Frames: frames}
}

// Samples is the number of interleaved samples in the block.
func (c ProcessContext) Samples() int { return c.Frames * c.Channels.Count() }

// base holds the bookkeeping shared by the built-in effects.
type base struct {
	id      EffectID
	enabled bool
	rate    types.SampleRate
	params  []ParameterInfo
}

func newBase(id EffectID, params ...ParameterInfo) base {
	return base{id: id, enabled: true, rate: types.DefaultSampleRate, params: params}
}

func (b *base) ID() EffectID                { return b.id }
func (b *base) Enabled() bool               { return b.enabled }
func (b *base) SetEnabled(enabled bool)     { b.enabled = enabled }
func (b *base) Parameters() []ParameterInfo { return b.params }
func (b *base) LatencySamples() uint32      { return 0 }
func (b *base) TailSamples() uint32         { return 0 }
