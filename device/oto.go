// SPDX-License-Identifier: EPL-2.0

//go:build !nocgo

package device

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audeng/types"
)

// OtoHost plays through the system default output. The audio system allows
// a single context per process, so every stream opened on the host shares
// the rate and channel count of the first one.
type OtoHost struct {
	logger       *log.Logger
	readyTimeout time.Duration

	mu     sync.Mutex
	ctx    *oto.Context
	format types.AudioFormat
}

func NewOtoHost(opts ...Option) *OtoHost {
	o := buildOptions(opts)
	return &OtoHost{logger: o.logger, readyTimeout: o.readyTimeout}
}

func (h *OtoHost) Name() string { return "oto" }

func otoOutput() types.DeviceInfo {
	return types.NewDeviceInfo(types.DefaultOutputID(), "System default output").
		WithSampleRates(types.AllSampleRates[:]...).
		AsDefault()
}

// InputDevices is always empty: oto has no capture support.
func (h *OtoHost) InputDevices() ([]types.DeviceInfo, error) { return nil, nil }

func (h *OtoHost) OutputDevices() ([]types.DeviceInfo, error) {
	return []types.DeviceInfo{otoOutput()}, nil
}

func (h *OtoHost) OpenInput(id types.DeviceID, _ StreamConfig) (*InputStream, error) {
	return nil, fmt.Errorf("%w: %s: capture is not supported by the oto host", types.ErrDeviceAccess, id)
}

func (h *OtoHost) OpenOutput(id types.DeviceID, cfg StreamConfig) (*OutputStream, error) {
	info := otoOutput()
	if id != info.ID {
		return nil, fmt.Errorf("%w: %s", types.ErrDeviceNotFound, id)
	}
	if err := checkFormat(info, cfg); err != nil {
		return nil, err
	}

	ctx, err := h.context(cfg)
	if err != nil {
		return nil, err
	}

	s := newOutputStream(id, cfg)
	p := ctx.NewPlayer(&otoReader{s: s})
	p.SetBufferSize(cfg.BufferSamples() * 4)
	s.backend = otoPlayer{p}

	h.logger.Debug("output stream opened", "device", id, "config", cfg)

	return s, nil
}

func (h *OtoHost) context(cfg StreamConfig) (*oto.Context, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx != nil {
		if !h.format.IsCompatibleWith(cfg.Format()) {
			return nil, &types.MismatchError{
				Kind:     types.ErrFormatMismatch,
				Expected: h.format.String(),
				Actual:   cfg.Format().String(),
			}
		}
		return h.ctx, nil
	}

	h.logger.Debug("initializing audio context",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"buffer", cfg.Latency())

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels.Count(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Latency(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create audio context: %w", types.ErrDeviceAccess, err)
	}

	t := time.NewTimer(h.readyTimeout)
	defer t.Stop()
	select {
	case <-ready:
	case <-t.C:
		return nil, fmt.Errorf("%w: audio context not ready after %v", types.ErrDeviceAccess, h.readyTimeout)
	}

	h.ctx, h.format = ctx, cfg.Format()

	return ctx, nil
}

// otoReader serves the player with little endian float32 frames.
type otoReader struct {
	s       *OutputStream
	scratch []float32
}

func (r *otoReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}
	buf := r.scratch[:n]

	r.s.render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}

	return n * 4, nil
}

type otoPlayer struct {
	p *oto.Player
}

func (o otoPlayer) start() error {
	o.p.Play()
	return o.p.Err()
}

func (o otoPlayer) pause() error {
	o.p.Pause()
	return o.p.Err()
}

func (o otoPlayer) close() error { return o.p.Close() }
