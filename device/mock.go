// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/types"
)

// MockHost is an in-memory host. Nothing moves until Pump is called:
// output streams are drained into a per-stream log and input streams are fed
// from the capture source.
type MockHost struct {
	logger *log.Logger

	mu      sync.Mutex
	inputs  []types.DeviceInfo
	outputs []types.DeviceInfo
	capture audio.Source
	outs    []*mockOutput
	ins     []*InputStream
	scratch []float32
}

type mockOutput struct {
	s      *OutputStream
	played []float32
}

var (
	MockInputID  = types.NewDeviceID("mock-in", types.DeviceInput)
	MockOutputID = types.NewDeviceID("mock-out", types.DeviceOutput)
)

// NewMockHost starts with one default stereo input and output that accept
// every standard rate.
func NewMockHost(opts ...Option) *MockHost {
	o := buildOptions(opts)
	rates := types.AllSampleRates[:]

	return &MockHost{
		logger:  o.logger,
		inputs:  []types.DeviceInfo{types.NewDeviceInfo(MockInputID, "Mock Input").WithSampleRates(rates...).AsDefault()},
		outputs: []types.DeviceInfo{types.NewDeviceInfo(MockOutputID, "Mock Output").WithSampleRates(rates...).AsDefault()},
	}
}

// NewEmptyMockHost has no devices at all.
func NewEmptyMockHost(opts ...Option) *MockHost {
	h := NewMockHost(opts...)
	h.inputs, h.outputs = nil, nil
	return h
}

func (h *MockHost) Name() string { return "mock" }

func (h *MockHost) AddDevice(info types.DeviceInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if info.ID.IsInput() {
		h.inputs = append(h.inputs, info)
	} else {
		h.outputs = append(h.outputs, info)
	}
}

// SetCapture sets what input streams record. A nil source records silence.
func (h *MockHost) SetCapture(src audio.Source) {
	h.mu.Lock()
	h.capture = src
	h.mu.Unlock()
}

func (h *MockHost) InputDevices() ([]types.DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.inputs), nil
}

func (h *MockHost) OutputDevices() ([]types.DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.outputs), nil
}

func (h *MockHost) OpenInput(id types.DeviceID, cfg StreamConfig) (*InputStream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := find(h.inputs, id)
	if err != nil {
		return nil, err
	}
	if err := checkFormat(info, cfg); err != nil {
		return nil, err
	}

	s := newInputStream(id, cfg)
	h.ins = append(h.ins, s)
	h.logger.Debug("mock input opened", "device", id, "config", cfg)

	return s, nil
}

func (h *MockHost) OpenOutput(id types.DeviceID, cfg StreamConfig) (*OutputStream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := find(h.outputs, id)
	if err != nil {
		return nil, err
	}
	if err := checkFormat(info, cfg); err != nil {
		return nil, err
	}

	s := newOutputStream(id, cfg)
	h.outs = append(h.outs, &mockOutput{s: s})
	h.logger.Debug("mock output opened", "device", id, "config", cfg)

	return s, nil
}

// Pump runs one device period of frames on every running stream.
func (h *MockHost) Pump(frames int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, o := range h.outs {
		if !o.s.IsRunning() {
			continue
		}
		buf := h.buffer(frames * o.s.Channels())
		o.s.render(buf)
		o.played = append(o.played, buf...)
	}

	for _, s := range h.ins {
		if !s.IsRunning() {
			continue
		}
		buf := h.buffer(frames * s.Channels())
		h.record(buf)
		s.capture(buf)
	}
}

// Played returns a copy of everything s has played so far.
func (h *MockHost) Played(s *OutputStream) []float32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, o := range h.outs {
		if o.s == s {
			return slices.Clone(o.played)
		}
	}
	return nil
}

func (h *MockHost) buffer(n int) []float32 {
	if cap(h.scratch) < n {
		h.scratch = make([]float32, n)
	}
	return h.scratch[:n]
}

// record fills buf from the capture source. Gaps and the end of the source
// are silence.
func (h *MockHost) record(buf []float32) {
	clear(buf)
	if h.capture == nil {
		return
	}
	for filled := 0; filled < len(buf); {
		n, err := h.capture.ReadSamples(buf[filled:])
		filled += n
		if err != nil || n == 0 {
			return
		}
	}
}

func find(devs []types.DeviceInfo, id types.DeviceID) (types.DeviceInfo, error) {
	for _, d := range devs {
		if d.ID == id {
			return d, nil
		}
	}
	return types.DeviceInfo{}, fmt.Errorf("%w: %s", types.ErrDeviceNotFound, id)
}
