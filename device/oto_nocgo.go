// SPDX-License-Identifier: EPL-2.0

//go:build nocgo

package device

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// OtoHost is unavailable in nocgo builds. Every call fails with
// types.ErrDeviceAccess.
type OtoHost struct{}

func NewOtoHost(...Option) *OtoHost { return &OtoHost{} }

func (h *OtoHost) Name() string { return "oto" }

func (h *OtoHost) InputDevices() ([]types.DeviceInfo, error) { return nil, errNoCgo }

func (h *OtoHost) OutputDevices() ([]types.DeviceInfo, error) { return nil, errNoCgo }

func (h *OtoHost) OpenInput(types.DeviceID, StreamConfig) (*InputStream, error) {
	return nil, errNoCgo
}

func (h *OtoHost) OpenOutput(types.DeviceID, StreamConfig) (*OutputStream, error) {
	return nil, errNoCgo
}

var errNoCgo = fmt.Errorf("%w: audio not available in nocgo build", types.ErrDeviceAccess)
