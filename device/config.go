// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"time"

	"github.com/ik5/audeng/types"
)

// StreamConfig is the format a stream is opened with. Samples are always
// 32-bit float.
type StreamConfig struct {
	SampleRate   types.SampleRate
	Channels     types.ChannelCount
	BufferFrames int
}

const DefaultBufferFrames = 512

// DefaultStreamConfig is 48 kHz stereo with 512 frame buffers.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		SampleRate:   types.DefaultSampleRate,
		Channels:     types.Stereo,
		BufferFrames: DefaultBufferFrames,
	}
}

func NewStreamConfig(rate types.SampleRate, channels types.ChannelCount, bufferFrames int) StreamConfig {
	return StreamConfig{SampleRate: rate, Channels: channels, BufferFrames: bufferFrames}
}

func (c StreamConfig) Format() types.AudioFormat {
	return types.AudioFormat{SampleRate: c.SampleRate, Channels: c.Channels, BitDepth: types.F32}
}

// BufferSamples is the number of interleaved samples in one buffer.
func (c StreamConfig) BufferSamples() int { return c.BufferFrames * c.Channels.Count() }

// Latency is the duration of one buffer.
func (c StreamConfig) Latency() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.BufferFrames) * time.Second / time.Duration(c.SampleRate)
}

func (c StreamConfig) Validate() error {
	if _, err := types.ParseSampleRate(uint32(c.SampleRate)); err != nil {
		return fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	if _, err := types.ParseChannelCount(uint32(c.Channels.Count())); err != nil {
		return fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	if c.BufferFrames <= 0 {
		return fmt.Errorf("%w: buffer frames must be positive, got %d", types.ErrConfiguration, c.BufferFrames)
	}
	return nil
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%s, %s, %d frames", c.SampleRate, c.Channels, c.BufferFrames)
}
