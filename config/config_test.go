// SPDX-License-Identifier: EPL-2.0

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audeng/dsp"
	"github.com/ik5/audeng/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sample = `
engine:
  sample_rate: 44100
  channels: 1
  buffer_size: 256
  gain_db: -6
  pan: 0.25
  realtime: true
  idle_interval: 10ms
effects:
  - type: lowpass
    frequency: 2000
  - id: 7
    type: gain
    gain_db: -3
    bypass: true
metrics:
  addr: ":9100"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "audeng.yaml", sample)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Config{
		Engine: EngineConfig{
			SampleRate:       44100,
			Channels:         1,
			BufferSize:       256,
			GainDB:           -6,
			Pan:              0.25,
			Realtime:         true,
			IdleInterval:     10 * time.Millisecond,
			CommandCapacity:  64,
			FeedbackCapacity: 256,
		},
		Effects: []EffectConfig{
			{Type: "lowpass", Frequency: 2000},
			{ID: 7, Type: "gain", GainDB: -3, Bypass: true},
		},
		Metrics: MetricsConfig{Addr: ":9100"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AUDENG_ENGINE_SAMPLE_RATE", "96000")
	t.Setenv("AUDENG_METRICS_ADDR", "127.0.0.1:9200")

	path := writeFile(t, "audeng.yaml", sample)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 96000, cfg.Engine.SampleRate)
	assert.EqualValues(t, 1, cfg.Engine.Channels)
	assert.Equal(t, "127.0.0.1:9200", cfg.Metrics.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, types.ErrFileNotFound)

	path := writeFile(t, "bad.yaml", "engine: [1, 2\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	path = writeFile(t, "typed.yaml", "engine:\n  sample_rate: fast\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeFile(t, "audeng.yaml", sample))
	require.NoError(t, err)

	s, err := cfg.Validate()
	require.NoError(t, err)

	assert.Equal(t, types.Rate44100, s.SampleRate)
	assert.Equal(t, types.Mono, s.Channels)
	assert.Equal(t, types.BufferSize(256), s.BufferSize)
	assert.InDelta(t, -6, s.Gain.DB(), 1e-4)
	assert.Equal(t, types.Pan(0.25), s.Pan)
	assert.Equal(t, ":9100", s.MetricsAddr)

	want := []EffectSpec{
		{ID: 1, Kind: EffectFilter, Filter: dsp.LowPass, Enabled: true, Frequency: 2000, Q: 0.707},
		{ID: 7, Kind: EffectGain, GainDB: -3},
	}
	if diff := cmp.Diff(want, s.Effects); diff != "" {
		t.Errorf("effects mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"rate", func(c *Config) { c.Engine.SampleRate = 22050 }, "engine.sample_rate"},
		{"channels", func(c *Config) { c.Engine.Channels = 3 }, "engine.channels"},
		{"buffer", func(c *Config) { c.Engine.BufferSize = 100 }, "engine.buffer_size"},
		{"pan", func(c *Config) { c.Engine.Pan = 2 }, "engine.pan"},
		{"gain nan", func(c *Config) { c.Engine.GainDB = float32(math.NaN()) }, "engine.gain_db"},
		{"pan inf", func(c *Config) { c.Engine.Pan = float32(math.Inf(1)) }, "engine.pan"},
		{"effect nan", func(c *Config) {
			c.Effects = []EffectConfig{{ID: 1, Type: "lowpass", Frequency: float32(math.NaN())}}
		}, "effects[0]"},
		{"capacity", func(c *Config) { c.Engine.CommandCapacity = 0 }, "engine.command_capacity"},
		{"effect type", func(c *Config) { c.Effects = []EffectConfig{{Type: "reverb"}} }, "effects[0]"},
		{"duplicate", func(c *Config) {
			c.Effects = []EffectConfig{{ID: 2, Type: "gain"}, {ID: 2, Type: "pan"}}
		}, "effects[1]"},
		{"reserved", func(c *Config) { c.Effects = []EffectConfig{{ID: 1<<32 - 1, Type: "gain"}} }, "effects[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tc.mutate(&cfg)
			_, err := cfg.Validate()
			require.ErrorIs(t, err, types.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Engine.SampleRate = 1
	cfg.Engine.Channels = 0

	_, err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidSampleRate)
	assert.ErrorIs(t, err, types.ErrInvalidChannelCount)
}

func TestSettings_Chain(t *testing.T) {
	cfg := Default()
	cfg.Effects = []EffectConfig{
		{Type: "highpass", Frequency: 80},
		{Type: "pan", Pan: -1},
		{Type: "gain", GainDB: -12, Bypass: true},
	}
	s, err := cfg.Validate()
	require.NoError(t, err)

	chain, err := s.Chain()
	require.NoError(t, err)
	require.Equal(t, 3, chain.Len())

	g, ok := chain.Get(3)
	require.True(t, ok)
	assert.False(t, g.Enabled())
	v, ok := g.Parameter(dsp.GainParamDB)
	require.True(t, ok)
	assert.InDelta(t, -12, v.Float(), 1e-3)

	f, ok := chain.Get(1)
	require.True(t, ok)
	assert.Equal(t, "High Pass", f.Name())

	opts, err := s.EngineOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 7)
}
