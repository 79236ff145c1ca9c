// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/types"
)

// AudioContext ties a device manager to the stream configuration and the
// devices streams are opened on. It is not safe for concurrent use.
type AudioContext struct {
	manager *device.Manager
	config  device.StreamConfig
	input   *types.DeviceInfo
	output  *types.DeviceInfo
}

// NewAudioContext uses the default stream configuration and the manager's
// default devices, when it has them.
func NewAudioContext(m *device.Manager) *AudioContext {
	return NewAudioContextWithConfig(m, device.DefaultStreamConfig())
}

func NewAudioContextWithConfig(m *device.Manager, cfg device.StreamConfig) *AudioContext {
	c := &AudioContext{manager: m, config: cfg}
	if in, err := m.DefaultInput(); err == nil {
		c.input = &in
	}
	if out, err := m.DefaultOutput(); err == nil {
		c.output = &out
	}
	return c
}

func (c *AudioContext) Manager() *device.Manager          { return c.manager }
func (c *AudioContext) Config() device.StreamConfig       { return c.config }
func (c *AudioContext) SetConfig(cfg device.StreamConfig) { c.config = cfg }
func (c *AudioContext) Format() types.AudioFormat         { return c.config.Format() }

func (c *AudioContext) SetInputDevice(d types.DeviceInfo)  { c.input = &d }
func (c *AudioContext) SetOutputDevice(d types.DeviceInfo) { c.output = &d }

func (c *AudioContext) InputDevice() (types.DeviceInfo, bool) {
	if c.input == nil {
		return types.DeviceInfo{}, false
	}
	return *c.input, true
}

func (c *AudioContext) OutputDevice() (types.DeviceInfo, bool) {
	if c.output == nil {
		return types.DeviceInfo{}, false
	}
	return *c.output, true
}

// CreateInputStream opens the selected input device with the context
// configuration.
func (c *AudioContext) CreateInputStream() (*device.InputStream, error) {
	if c.input == nil {
		return nil, fmt.Errorf("%w: input device not set", types.ErrDeviceNotFound)
	}
	return c.manager.OpenInput(c.input.ID, c.config)
}

func (c *AudioContext) CreateOutputStream() (*device.OutputStream, error) {
	if c.output == nil {
		return nil, fmt.Errorf("%w: output device not set", types.ErrDeviceNotFound)
	}
	return c.manager.OpenOutput(c.output.ID, c.config)
}

func (c *AudioContext) ListInputDevices() ([]types.DeviceInfo, error)  { return c.manager.InputDevices() }
func (c *AudioContext) ListOutputDevices() ([]types.DeviceInfo, error) { return c.manager.OutputDevices() }

func (c *AudioContext) String() string {
	name := func(d *types.DeviceInfo) string {
		if d == nil {
			return "none"
		}
		return d.Name
	}
	return fmt.Sprintf("AudioContext{config: %s, input: %s, output: %s}", c.config, name(c.input), name(c.output))
}
