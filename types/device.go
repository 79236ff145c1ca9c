// SPDX-License-Identifier: EPL-2.0

package types

import (
	"fmt"
	"slices"
)

// DeviceType tells capture devices from playback devices.
type DeviceType uint8

const (
	DeviceInput DeviceType = iota
	DeviceOutput
)

func (t DeviceType) String() string {
	if t == DeviceInput {
		return "input"
	}
	return "output"
}

// DeviceID is an opaque, host specific device identifier.
type DeviceID struct {
	id   string
	kind DeviceType
}

func NewDeviceID(id string, kind DeviceType) DeviceID {
	return DeviceID{id: id, kind: kind}
}

func DefaultInputID() DeviceID  { return NewDeviceID("default", DeviceInput) }
func DefaultOutputID() DeviceID { return NewDeviceID("default", DeviceOutput) }

func (d DeviceID) ID() string       { return d.id }
func (d DeviceID) Type() DeviceType { return d.kind }
func (d DeviceID) IsInput() bool    { return d.kind == DeviceInput }
func (d DeviceID) IsOutput() bool   { return d.kind == DeviceOutput }
func (d DeviceID) String() string   { return fmt.Sprintf("%s:%s", d.kind, d.id) }

// DeviceInfo describes a device as reported by its host.
type DeviceInfo struct {
	ID             DeviceID
	Name           string
	MaxChannels    int
	SupportedRates []SampleRate
	IsDefault      bool
}

// NewDeviceInfo returns info for a stereo device at the default rate.
func NewDeviceInfo(id DeviceID, name string) DeviceInfo {
	return DeviceInfo{
		ID:             id,
		Name:           name,
		MaxChannels:    2,
		SupportedRates: []SampleRate{DefaultSampleRate},
	}
}

func (d DeviceInfo) WithMaxChannels(n int) DeviceInfo {
	d.MaxChannels = n
	return d
}

func (d DeviceInfo) WithSampleRates(rates ...SampleRate) DeviceInfo {
	d.SupportedRates = slices.Clone(rates)
	return d
}

func (d DeviceInfo) AsDefault() DeviceInfo {
	d.IsDefault = true
	return d
}

// Supports reports whether the device can run format without conversion.
func (d DeviceInfo) Supports(f AudioFormat) bool {
	return f.Channels.Count() <= d.MaxChannels && slices.Contains(d.SupportedRates, f.SampleRate)
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s (%s, %d ch)", d.Name, d.ID.Type(), d.MaxChannels)
}
