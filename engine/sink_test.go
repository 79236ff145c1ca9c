// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/internal/audiotest"
	"github.com/ik5/audeng/types"
)

func TestNullSink(t *testing.T) {
	t.Parallel()

	s := NewNullSink()
	require.NoError(t, s.Write(context.Background(), make([]float32, 10)))
	require.NoError(t, s.Write(context.Background(), make([]float32, 6)))
	assert.Equal(t, int64(16), s.Samples())
	assert.NoError(t, s.Close())
}

func TestFileSink_FloatFallsBackTo16Bit(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/f.wav"
	s, err := NewFileSink(path, types.DefaultFormat())
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), []float32{0.5, -0.5, 0.25, -0.25}))
	assert.Equal(t, int64(2), s.Frames())
	require.NoError(t, s.Close())

	_, err = NewFileSink(t.TempDir()+"/missing/dir/f.wav", types.CDQuality)
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestEngine_DeviceSink(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	h := device.NewMockHost()
	stream, err := h.OpenOutput(device.MockOutputID, device.DefaultStreamConfig())
	require.NoError(t, err)

	src := audiotest.NewConstantSource(48000, 2, 3*512, 0.5)
	eng, ctl, err := New(src, NewDeviceSink(stream), WithAutoStart())
	require.NoError(t, err)
	defer ctl.Close()

	pumpCtx, stopPump := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for pumpCtx.Err() == nil {
			h.Pump(256)
			time.Sleep(time.Millisecond)
		}
	}()

	require.NoError(t, eng.Run(ctx))
	stopPump()
	wg.Wait()

	played := h.Played(stream)
	nonZero := 0
	for _, v := range played {
		if v != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 3*512*2, nonZero)
	assert.False(t, stream.IsRunning(), "stream paused when the engine stopped")

	assert.ErrorIs(t, stream.Start(), device.ErrStreamClosed)
}
