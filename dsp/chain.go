// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// Chain runs a list of effects in order. Structural changes (Add, Remove)
// belong on the control side; everything else is real-time safe.
type Chain struct {
	effects  []Effect
	rate     types.SampleRate
	channels types.ChannelCount
	ready    bool
}

func NewChain(effects ...Effect) *Chain {
	c := &Chain{rate: types.DefaultSampleRate, channels: types.DefaultChannelCount}
	for _, e := range effects {
		_ = c.Add(e)
	}
	return c
}

// Add appends e. An effect added after Initialize is initialized with the
// chain's format.
func (c *Chain) Add(e Effect) error {
	if _, ok := c.Get(e.ID()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEffect, e.ID())
	}

	if c.ready {
		e.Initialize(c.rate, c.channels)
	}
	c.effects = append(c.effects, e)

	return nil
}

func (c *Chain) Remove(id EffectID) (Effect, bool) {
	for i, e := range c.effects {
		if e.ID() == id {
			c.effects = append(c.effects[:i], c.effects[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

func (c *Chain) Get(id EffectID) (Effect, bool) {
	for _, e := range c.effects {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

func (c *Chain) Len() int          { return len(c.effects) }
func (c *Chain) Effects() []Effect { return c.effects }

func (c *Chain) Initialize(rate types.SampleRate, channels types.ChannelCount) {
	c.rate, c.channels, c.ready = rate, channels, true
	for _, e := range c.effects {
		e.Initialize(rate, channels)
	}
}

func (c *Chain) Process(samples []float32, channels types.ChannelCount) {
	for _, e := range c.effects {
		if e.Enabled() {
			e.Process(samples, channels)
		}
	}
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

// SetParameter reports false when either the effect or the parameter is
// unknown.
func (c *Chain) SetParameter(effect EffectID, param ParamID, v ParamValue) bool {
	e, ok := c.Get(effect)
	if !ok {
		return false
	}
	return e.SetParameter(param, v)
}

func (c *Chain) SetEnabled(effect EffectID, enabled bool) bool {
	e, ok := c.Get(effect)
	if !ok {
		return false
	}
	e.SetEnabled(enabled)
	return true
}

// LatencySamples is the sum over enabled effects.
func (c *Chain) LatencySamples() uint32 {
	var total uint32
	for _, e := range c.effects {
		if e.Enabled() {
			total += e.LatencySamples()
		}
	}
	return total
}

// TailSamples is the longest tail among enabled effects.
func (c *Chain) TailSamples() uint32 {
	var tail uint32
	for _, e := range c.effects {
		if e.Enabled() {
			tail = max(tail, e.TailSamples())
		}
	}
	return tail
}
