// SPDX-License-Identifier: EPL-2.0

// Package types holds the validated value types shared by every part of the
// engine: sample rates, samples, gain, decibels, pan, channel layouts,
// buffer sizes, formats, timeline positions, device ids and stream urls.
//
// Constructors that take raw numbers validate them and return errors that
// wrap one of the sentinels in errors.go, so callers can test with
// errors.Is:
//
//	rate, err := types.ParseSampleRate(44100)
//	if errors.Is(err, types.ErrInvalidSampleRate) {
//	    ...
//	}
package types
