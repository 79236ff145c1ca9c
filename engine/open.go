// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/types"
)

// OpenInput opens in as a source. Files are decoded with reg, signals and
// devices use the context configuration. Device streams are started before
// they are returned.
func OpenInput(in endpoint.InputSource, actx *AudioContext, reg *audio.Registry) (audio.Source, error) {
	switch v := in.(type) {
	case endpoint.FileInput:
		return endpoint.OpenFile(v, reg)

	case endpoint.SignalInput:
		cfg := actx.Config()
		return endpoint.OpenSignal(v, cfg.SampleRate, cfg.Channels)

	case endpoint.DeviceInput:
		id := v.DeviceID
		if id == types.DefaultInputID() {
			d, ok := actx.InputDevice()
			if !ok {
				return nil, fmt.Errorf("%w: no default input device", types.ErrDeviceNotFound)
			}
			id = d.ID
		}

		s, err := actx.Manager().OpenInput(id, withFormat(actx.Config(), v.Format))
		if err != nil {
			return nil, err
		}
		if err := s.Start(); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	case endpoint.NetworkInput:
		return nil, fmt.Errorf("%w: network input %s", types.ErrUnsupportedFormat, v.URL)
	}

	return nil, fmt.Errorf("%w: unknown input %v", types.ErrConfiguration, in)
}

// OpenOutput opens out as a sink for audio in the context format. A format
// requested by the target may only change the bit depth.
func OpenOutput(out endpoint.OutputTarget, actx *AudioContext) (Sink, error) {
	switch v := out.(type) {
	case endpoint.NullOutput:
		return NewNullSink(), nil

	case endpoint.FileOutput:
		if v.Format.IsMP3() {
			return nil, fmt.Errorf("%w: no mp3 encoder for %s", types.ErrUnsupportedFormat, v.Path)
		}

		format := actx.Format()
		if v.AudioFormat != nil {
			if !format.IsCompatibleWith(*v.AudioFormat) {
				return nil, &types.MismatchError{
					Kind:     types.ErrFormatMismatch,
					Expected: format.String(),
					Actual:   v.AudioFormat.String(),
				}
			}
			format.BitDepth = v.AudioFormat.BitDepth
		}
		return NewFileSink(v.Path, format)

	case endpoint.DeviceOutput:
		id := v.DeviceID
		if id == types.DefaultOutputID() {
			d, ok := actx.OutputDevice()
			if !ok {
				return nil, fmt.Errorf("%w: no default output device", types.ErrDeviceNotFound)
			}
			id = d.ID
		}

		if v.Format != nil && !actx.Format().IsCompatibleWith(*v.Format) {
			return nil, &types.MismatchError{
				Kind:     types.ErrFormatMismatch,
				Expected: actx.Format().String(),
				Actual:   v.Format.String(),
			}
		}

		s, err := actx.Manager().OpenOutput(id, actx.Config())
		if err != nil {
			return nil, err
		}
		return NewDeviceSink(s), nil

	case endpoint.NetworkOutput:
		return nil, fmt.Errorf("%w: network output %s", types.ErrUnsupportedFormat, v.URL)
	}

	return nil, fmt.Errorf("%w: unknown output %v", types.ErrConfiguration, out)
}

func withFormat(cfg device.StreamConfig, f *types.AudioFormat) device.StreamConfig {
	if f != nil {
		cfg.SampleRate, cfg.Channels = f.SampleRate, f.Channels
	}
	return cfg
}
