// SPDX-License-Identifier: EPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/types"
)

func mustSettings(t *testing.T, mutate func(*Config)) Settings {
	t.Helper()
	cfg := Default()
	cfg.Effects = []EffectConfig{{ID: 1, Type: "lowpass", Frequency: 1000}, {ID: 2, Type: "gain"}}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := cfg.Validate()
	require.NoError(t, err)
	return s
}

func TestChanges(t *testing.T) {
	t.Parallel()

	old := mustSettings(t, nil)

	cmds, restart := Changes(old, old)
	assert.Empty(t, cmds)
	assert.False(t, restart)

	next := mustSettings(t, func(c *Config) {
		c.Engine.GainDB = -6
		c.Engine.Pan = -0.5
		c.Effects[0].Frequency = 500
		c.Effects[1].Bypass = true
	})
	cmds, restart = Changes(old, next)
	assert.False(t, restart)
	assert.Equal(t, []channel.EngineCommand{
		channel.SetGainCommand(next.Gain),
		channel.SetPanCommand(types.NewPan(-0.5)),
		channel.SetEffectParamCommand(1, 0, 500),
		channel.SetEffectEnabledCommand(2, false),
	}, cmds)
}

func TestChanges_Restart(t *testing.T) {
	t.Parallel()

	old := mustSettings(t, nil)
	testCases := map[string]func(*Config){
		"rate":    func(c *Config) { c.Engine.SampleRate = 96000 },
		"buffer":  func(c *Config) { c.Engine.BufferSize = 1024 },
		"added":   func(c *Config) { c.Effects = append(c.Effects, EffectConfig{ID: 3, Type: "pan"}) },
		"kind":    func(c *Config) { c.Effects[0].Type = "highpass" },
		"metrics": func(c *Config) { c.Metrics.Addr = ":9100" },
	}
	for name, mutate := range testCases {
		_, restart := Changes(old, mustSettings(t, mutate))
		assert.True(t, restart, name)
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audeng.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  gain_db: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	current, err := cfg.Validate()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reloads := make(chan Reload, 4)
	done := make(chan error, 1)
	w := NewWatcher(path, current, WithDebounce(20*time.Millisecond))
	go func() {
		done <- w.Run(ctx, func(_ context.Context, r Reload) error {
			reloads <- r
			return nil
		})
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// an invalid file is skipped
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  sample_rate: 1\n"), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  gain_db: -6\n"), 0o644))

	select {
	case r := <-reloads:
		require.Len(t, r.Commands, 1)
		assert.Equal(t, channel.CmdSetGain, r.Commands[0].Kind)
		assert.InDelta(t, -6, r.Commands[0].Gain.DB(), 1e-3)
		assert.False(t, r.Restart)
	case <-ctx.Done():
		t.Fatal("no reload")
	}

	cancel()
	require.NoError(t, <-done)
	assert.InDelta(t, -6, w.Current().Gain.DB(), 1e-3)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "audeng.yaml"), Settings{})
	err := w.Run(context.Background(), func(context.Context, Reload) error { return nil })
	assert.ErrorIs(t, err, types.ErrIO)
}
