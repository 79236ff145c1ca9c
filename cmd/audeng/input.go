// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/types"
)

const defaultFrequency = 440

// parseInput maps a command line argument to an input:
//
//	signal:sine:440, signal:square:1000, signal:noise, signal:silence
//	device, device:<id>
//	rtmp://host/app/key and other stream urls
//	anything else is a file path
func parseInput(arg string) (endpoint.InputSource, error) {
	switch {
	case strings.HasPrefix(arg, "signal:"):
		return parseSignal(strings.TrimPrefix(arg, "signal:"))

	case arg == "device":
		return endpoint.DefaultDeviceInput(), nil

	case strings.HasPrefix(arg, "device:"):
		return endpoint.NewDeviceInput(types.NewDeviceID(strings.TrimPrefix(arg, "device:"), types.DeviceInput)), nil

	case strings.Contains(arg, "://"):
		u, err := types.ParseStreamURL(arg)
		if err != nil {
			return nil, err
		}
		return endpoint.NewNetworkInput(u), nil
	}

	return endpoint.NewFileInput(arg), nil
}

func parseSignal(spec string) (endpoint.SignalInput, error) {
	name, freqStr, hasFreq := strings.Cut(spec, ":")

	wave, err := audio.ParseWaveform(name)
	if err != nil {
		return endpoint.SignalInput{}, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}

	sig := endpoint.SignalInput{Waveform: wave}
	if !wave.HasFrequency() {
		return sig, nil
	}

	sig.Frequency = defaultFrequency
	if hasFreq {
		f, err := strconv.ParseFloat(freqStr, 64)
		if err != nil || f <= 0 {
			return endpoint.SignalInput{}, fmt.Errorf("%w: bad frequency %q", types.ErrConfiguration, freqStr)
		}
		sig.Frequency = f
	}
	return sig, nil
}
