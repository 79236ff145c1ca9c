// SPDX-License-Identifier: EPL-2.0

package types

import (
	"fmt"
	"time"
)

// Timestamp is a position on the audio timeline, in samples.
type Timestamp uint64

// TimestampFromDuration converts d at rate, truncating partial samples.
func TimestampFromDuration(d time.Duration, rate SampleRate) Timestamp {
	return Timestamp(d.Seconds() * float64(rate))
}

func (t Timestamp) Samples() uint64 { return uint64(t) }

func (t Timestamp) Duration(rate SampleRate) time.Duration {
	return time.Duration(float64(t) / float64(rate) * float64(time.Second))
}

// SubSamples moves back by n samples, stopping at zero.
func (t Timestamp) SubSamples(n uint64) Timestamp {
	if n > uint64(t) {
		return 0
	}
	return t - Timestamp(n)
}

// Diff is the absolute distance between two timestamps.
func (t Timestamp) Diff(o Timestamp) uint64 {
	if t >= o {
		return uint64(t - o)
	}
	return uint64(o - t)
}

func (t Timestamp) String() string { return fmt.Sprintf("@%d", uint64(t)) }

// TransportPosition is a wall-clock style position, HH:MM:SS.mmm.
type TransportPosition struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
	Millis  uint16
}

// TransportFromMillis splits ms into fields. Hours saturate at 255.
func TransportFromMillis(ms uint64) TransportPosition {
	totalSeconds := ms / 1000
	totalMinutes := totalSeconds / 60

	return TransportPosition{
		Hours:   uint8(min(totalMinutes/60, 255)),
		Minutes: uint8(totalMinutes % 60),
		Seconds: uint8(totalSeconds % 60),
		Millis:  uint16(ms % 1000),
	}
}

func TransportFromSeconds(seconds float64) TransportPosition {
	if seconds <= 0 {
		return TransportPosition{}
	}
	return TransportFromMillis(uint64(seconds * 1000))
}

func TransportFromTimestamp(t Timestamp, rate SampleRate) TransportPosition {
	return TransportFromSeconds(float64(t) / float64(rate))
}

func (p TransportPosition) TotalMillis() uint64 {
	return uint64(p.Hours)*3_600_000 +
		uint64(p.Minutes)*60_000 +
		uint64(p.Seconds)*1000 +
		uint64(p.Millis)
}

func (p TransportPosition) TotalSeconds() float64 { return float64(p.TotalMillis()) / 1000 }

func (p TransportPosition) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", p.Hours, p.Minutes, p.Seconds, p.Millis)
}
