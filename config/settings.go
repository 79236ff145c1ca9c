// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/dsp"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/types"
)

// EffectKind is the family of a configured effect.
type EffectKind uint8

const (
	EffectGain EffectKind = iota
	EffectPan
	EffectFilter
)

func (k EffectKind) String() string {
	switch k {
	case EffectGain:
		return "gain"
	case EffectPan:
		return "pan"
	case EffectFilter:
		return "filter"
	}
	return fmt.Sprintf("EffectKind(%d)", uint8(k))
}

// EffectSpec is a validated EffectConfig.
type EffectSpec struct {
	ID        dsp.EffectID
	Kind      EffectKind
	Filter    dsp.FilterType
	Enabled   bool
	GainDB    float32
	Pan       types.Pan
	Frequency float32
	Q         float32
}

// Settings is a validated Config.
type Settings struct {
	SampleRate types.SampleRate
	Channels   types.ChannelCount
	BufferSize types.BufferSize
	Gain       types.Gain
	Pan        types.Pan

	Realtime         bool
	IdleInterval     time.Duration
	CommandCapacity  int
	FeedbackCapacity int

	Effects     []EffectSpec
	MetricsAddr string
}

// Validate checks every field and returns all problems at once. Each
// problem wraps types.ErrConfiguration.
func (c Config) Validate() (Settings, error) {
	var (
		s    Settings
		errs []error
		err  error
	)
	fail := func(field string, e error) {
		errs = append(errs, fmt.Errorf("%w: %s: %w", types.ErrConfiguration, field, e))
	}

	if s.SampleRate, err = types.ParseSampleRate(c.Engine.SampleRate); err != nil {
		fail("engine.sample_rate", err)
	}
	if s.Channels, err = types.ParseChannelCount(c.Engine.Channels); err != nil {
		fail("engine.channels", err)
	}
	if s.BufferSize, err = types.NewBufferSize(c.Engine.BufferSize); err != nil {
		fail("engine.buffer_size", err)
	}
	if !types.IsFinite(c.Engine.GainDB) {
		fail("engine.gain_db", types.ErrInvalidGain)
	}
	s.Gain = types.GainFromDB(c.Engine.GainDB)
	if !types.IsFinite(c.Engine.Pan) || c.Engine.Pan < -1 || c.Engine.Pan > 1 {
		fail("engine.pan", fmt.Errorf("%g is outside [-1, 1]", c.Engine.Pan))
	}
	s.Pan = types.NewPan(c.Engine.Pan)

	s.Realtime = c.Engine.Realtime
	s.IdleInterval = c.Engine.IdleInterval
	if s.IdleInterval < 0 {
		fail("engine.idle_interval", fmt.Errorf("negative duration %s", s.IdleInterval))
	}
	s.CommandCapacity, s.FeedbackCapacity = c.Engine.CommandCapacity, c.Engine.FeedbackCapacity
	if s.CommandCapacity < 1 {
		fail("engine.command_capacity", fmt.Errorf("must be at least 1, got %d", s.CommandCapacity))
	}
	if s.FeedbackCapacity < 1 {
		fail("engine.feedback_capacity", fmt.Errorf("must be at least 1, got %d", s.FeedbackCapacity))
	}

	seen := make(map[dsp.EffectID]bool, len(c.Effects))
	for i, ec := range c.Effects {
		field := fmt.Sprintf("effects[%d]", i)
		spec, err := ec.validate(i)
		if err != nil {
			fail(field, err)
			continue
		}
		if seen[spec.ID] {
			fail(field, fmt.Errorf("%w: %s", dsp.ErrDuplicateEffect, spec.ID))
			continue
		}
		seen[spec.ID] = true
		s.Effects = append(s.Effects, spec)
	}

	s.MetricsAddr = strings.TrimSpace(c.Metrics.Addr)

	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}
	return s, nil
}

func (ec EffectConfig) validate(index int) (EffectSpec, error) {
	id := ec.ID
	if id == 0 {
		id = uint32(index + 1)
	}
	if id == math.MaxUint32 {
		return EffectSpec{}, fmt.Errorf("id %d is reserved", id)
	}

	spec := EffectSpec{
		ID:        dsp.EffectID(id),
		Enabled:   !ec.Bypass,
		GainDB:    ec.GainDB,
		Pan:       types.NewPan(ec.Pan),
		Frequency: ec.Frequency,
		Q:         ec.Q,
	}
	if !types.IsFinite(ec.GainDB) || !types.IsFinite(ec.Pan) || !types.IsFinite(ec.Frequency) || !types.IsFinite(ec.Q) {
		return EffectSpec{}, errors.New("parameters must be finite")
	}

	switch strings.ToLower(strings.TrimSpace(ec.Type)) {
	case "gain":
		spec.Kind = EffectGain
	case "pan":
		spec.Kind = EffectPan
	default:
		ft, err := dsp.ParseFilterType(ec.Type)
		if err != nil {
			return EffectSpec{}, err
		}
		spec.Kind, spec.Filter = EffectFilter, ft
		if spec.Frequency == 0 {
			spec.Frequency = 1000
		}
		if spec.Q == 0 {
			spec.Q = 0.707
		}
		if spec.Frequency < 0 || spec.Q < 0 {
			return EffectSpec{}, errors.New("frequency and q must be positive")
		}
	}

	return spec, nil
}

// Build returns a new effect for s.
func (s EffectSpec) Build() dsp.Effect {
	var e dsp.Effect
	switch s.Kind {
	case EffectGain:
		e = dsp.NewGainEffectWith(s.ID, types.GainFromDB(s.GainDB))
	case EffectPan:
		e = dsp.NewPanEffectWith(s.ID, s.Pan)
	default:
		e = dsp.NewBiquadFilterWith(s.ID, s.Filter, s.Frequency, s.Q, s.GainDB)
	}
	e.SetEnabled(s.Enabled)

	return e
}

type paramValue struct {
	id    dsp.ParamID
	value float32
}

func (s EffectSpec) params() []paramValue {
	switch s.Kind {
	case EffectGain:
		return []paramValue{{dsp.GainParamDB, s.GainDB}}
	case EffectPan:
		return []paramValue{{dsp.PanParam, s.Pan.Value()}}
	}
	return []paramValue{
		{dsp.FilterParamFrequency, s.Frequency},
		{dsp.FilterParamQ, s.Q},
		{dsp.FilterParamGainDB, s.GainDB},
	}
}

// Chain builds the configured effects in order.
func (s Settings) Chain() (*dsp.Chain, error) {
	c := dsp.NewChain()
	for _, spec := range s.Effects {
		if err := c.Add(spec.Build()); err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
		}
	}
	return c, nil
}

// Format is the engine processing format at 32-bit float.
func (s Settings) Format() types.AudioFormat {
	return types.AudioFormat{SampleRate: s.SampleRate, Channels: s.Channels, BitDepth: types.F32}
}

// EngineOptions returns the options that apply s to a new engine, including
// a freshly built effect chain.
func (s Settings) EngineOptions() ([]engine.Option, error) {
	chain, err := s.Chain()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithFormat(s.SampleRate, s.Channels),
		engine.WithBufferSize(s.BufferSize),
		engine.WithGain(s.Gain),
		engine.WithPan(s.Pan),
		engine.WithChain(chain),
		engine.WithIdleInterval(s.IdleInterval),
		engine.WithChannelCapacity(s.CommandCapacity, s.FeedbackCapacity),
	}
	if s.Realtime {
		opts = append(opts, engine.WithRealtime())
	}

	return opts, nil
}

// Changes lists the commands that move a running engine from old to next.
// It reports restart when next differs in something commands cannot carry,
// such as the format or the set of effects.
func Changes(old, next Settings) (cmds []channel.EngineCommand, restart bool) {
	if old.SampleRate != next.SampleRate || old.Channels != next.Channels ||
		old.BufferSize != next.BufferSize || old.Realtime != next.Realtime ||
		old.CommandCapacity != next.CommandCapacity || old.FeedbackCapacity != next.FeedbackCapacity ||
		old.IdleInterval != next.IdleInterval || old.MetricsAddr != next.MetricsAddr {
		restart = true
	}

	if old.Gain != next.Gain {
		cmds = append(cmds, channel.SetGainCommand(next.Gain))
	}
	if old.Pan != next.Pan {
		cmds = append(cmds, channel.SetPanCommand(next.Pan))
	}

	if len(old.Effects) != len(next.Effects) {
		return cmds, true
	}
	for i, n := range next.Effects {
		o := old.Effects[i]
		if o.ID != n.ID || o.Kind != n.Kind || o.Filter != n.Filter {
			restart = true
			continue
		}
		op, np := o.params(), n.params()
		for j := range np {
			if op[j].value != np[j].value {
				cmds = append(cmds, channel.SetEffectParamCommand(uint32(n.ID), uint32(np[j].id), np[j].value))
			}
		}
		if o.Enabled != n.Enabled {
			cmds = append(cmds, channel.SetEffectEnabledCommand(uint32(n.ID), n.Enabled))
		}
	}

	return cmds, restart
}
