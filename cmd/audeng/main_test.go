// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	c := newCLI(&out, &errOut)
	c.newManager = func(l *log.Logger) (*device.Manager, error) {
		return device.NewManager(device.NewMockHost(device.WithLogger(l)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	root := c.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestParseInput(t *testing.T) {
	t.Parallel()

	url, err := types.ParseStreamURL("rtmp://live.example.com/app/key")
	require.NoError(t, err)

	testCases := []struct {
		arg  string
		want endpoint.InputSource
	}{
		{"song.mp3", endpoint.NewFileInput("song.mp3")},
		{"signal:sine", endpoint.Sine(440)},
		{"signal:square:1000", endpoint.Square(1000)},
		{"signal:noise", endpoint.WhiteNoise()},
		{"signal:silence:12", endpoint.Silence()},
		{"device", endpoint.DefaultDeviceInput()},
		{"device:hw0", endpoint.NewDeviceInput(types.NewDeviceID("hw0", types.DeviceInput))},
		{"rtmp://live.example.com/app/key", endpoint.NewNetworkInput(url)},
	}
	for _, tc := range testCases {
		got, err := parseInput(tc.arg)
		require.NoError(t, err, tc.arg)
		assert.Equal(t, tc.want, got, tc.arg)
	}

	for _, bad := range []string{"signal:triangle", "signal:sine:-3", "signal:sine:fast", "ftp://x"} {
		_, err := parseInput(bad)
		assert.Error(t, err, bad)
	}
	_, err = parseInput("signal:saw")
	assert.ErrorIs(t, err, types.ErrConfiguration)
	assert.ErrorIs(t, err, audio.ErrUnknownWaveform)
}

func TestRenderAndInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	out, err := execute(t, "render", "signal:sine:1000", path, "--duration", "250ms", "--bits", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "tone.wav: 00:00:00.")
	assert.Contains(t, out, "0 feedback dropped")

	out, err = execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "format:   WAV (audio/wav)")
	assert.Contains(t, out, "rate:     48000 Hz")
	assert.Contains(t, out, "channels: 2")
	assert.Contains(t, out, "frames:   12,")
	assert.NotContains(t, out, "duration: unknown")
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "render", "signal:sine", filepath.Join(dir, "a.wav"))
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = execute(t, "render", "signal:sine", filepath.Join(dir, "a.wav"), "-d", "1s", "--bits", "12")
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)

	_, err = execute(t, "render", "device", filepath.Join(dir, "a.wav"))
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)

	_, err = execute(t, "render", filepath.Join(dir, "missing.wav"), filepath.Join(dir, "a.wav"))
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}

func TestPlay_Null(t *testing.T) {
	out, err := execute(t, "play", "signal:noise", "--null", "--duration", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "processed")
}

func TestPlay_Errors(t *testing.T) {
	_, err := execute(t, "play", "signal:sine", "--watch")
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = execute(t, "play", "signal:sine", "--output", "nope")
	assert.ErrorIs(t, err, types.ErrDeviceNotFound)

	_, err = execute(t, "play", "signal:sine", "--host", "alsa")
	assert.ErrorIs(t, err, types.ErrDeviceNotFound)

	_, err = execute(t, "play", "rtmp://live.example.com/app/key", "--null")
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestDevices(t *testing.T) {
	out, err := execute(t, "devices")
	require.NoError(t, err)
	assert.Contains(t, out, "host: mock (available: mock)")
	assert.Contains(t, out, device.MockInputID.ID())
	assert.Contains(t, out, device.MockOutputID.ID())
	assert.Contains(t, out, "44.1k,48k,96k,192k")
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audeng.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config file to: "+path)

	_, err = execute(t, "config", "init", path)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	t.Setenv("AUDENG_ENGINE_GAIN_DB", "-3")
	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "gain_db: -3")
	assert.Contains(t, out, "type: highpass")

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  sample_rate: 1\n"), 0o644))
	_, err = execute(t, "--config", path, "config", "show")
	assert.ErrorIs(t, err, types.ErrInvalidSampleRate)
}

func TestLogLevelFlag(t *testing.T) {
	_, err := execute(t, "--log-level", "shout", "devices")
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
