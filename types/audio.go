// SPDX-License-Identifier: EPL-2.0

package types

import (
	"fmt"
	"math"
	"math/bits"
)

// ChannelCount is one of the supported channel configurations.
type ChannelCount uint8

const (
	Mono       ChannelCount = 1
	Stereo     ChannelCount = 2
	Quad       ChannelCount = 4
	Surround51 ChannelCount = 6
	Surround71 ChannelCount = 8

	DefaultChannelCount = Stereo
)

// ParseChannelCount accepts 1, 2, 4, 6 and 8.
func ParseChannelCount(n uint32) (ChannelCount, error) {
	switch ChannelCount(n) {
	case Mono, Stereo, Quad, Surround51, Surround71:
		if n <= math.MaxUint8 {
			return ChannelCount(n), nil
		}
	}

	return 0, &ValueError{Kind: ErrInvalidChannelCount, Value: int64(n), Hint: "expected 1, 2, 4, 6 or 8"}
}

func (c ChannelCount) Count() int { return int(c) }

// IsStereoCompatible reports whether the layout carries at least a left and
// a right channel.
func (c ChannelCount) IsStereoCompatible() bool { return c >= Stereo }

func (c ChannelCount) Layout() ChannelLayout { return ChannelLayout(c) }

func (c ChannelCount) String() string {
	switch c {
	case Mono:
		return "Mono"
	case Stereo:
		return "Stereo"
	case Quad:
		return "Quad"
	case Surround51:
		return "5.1"
	case Surround71:
		return "7.1"
	}
	return fmt.Sprintf("%d channels", uint8(c))
}

// ChannelLayout describes the spatial position of each channel. Layouts and
// channel counts map one to one.
type ChannelLayout uint8

const (
	LayoutMono       = ChannelLayout(Mono)
	LayoutStereo     = ChannelLayout(Stereo)
	LayoutQuad       = ChannelLayout(Quad)
	LayoutSurround51 = ChannelLayout(Surround51)
	LayoutSurround71 = ChannelLayout(Surround71)
)

var channelLabels = map[ChannelLayout][]string{
	LayoutMono:       {"M"},
	LayoutStereo:     {"L", "R"},
	LayoutQuad:       {"FL", "FR", "RL", "RR"},
	LayoutSurround51: {"FL", "FR", "C", "LFE", "RL", "RR"},
	LayoutSurround71: {"FL", "FR", "C", "LFE", "RL", "RR", "SL", "SR"},
}

func (l ChannelLayout) ChannelCount() ChannelCount { return ChannelCount(l) }

// Labels returns the channel labels in interleaving order.
func (l ChannelLayout) Labels() []string { return channelLabels[l] }

func (l ChannelLayout) String() string { return ChannelCount(l).String() }

// BufferSize is a block length in frames: a power of two in [64, 8192].
type BufferSize uint32

const (
	MinBufferSize BufferSize = 64
	MaxBufferSize BufferSize = 8192

	DefaultBufferSize BufferSize = 512
)

// AllBufferSizes lists every valid size in ascending order.
var AllBufferSizes = [...]BufferSize{64, 128, 256, 512, 1024, 2048, 4096, 8192}

func NewBufferSize(n uint32) (BufferSize, error) {
	if bits.OnesCount32(n) != 1 || BufferSize(n) < MinBufferSize || BufferSize(n) > MaxBufferSize {
		return 0, &ValueError{Kind: ErrInvalidBufferSize, Value: int64(n), Hint: "must be power of 2, range 64-8192"}
	}

	return BufferSize(n), nil
}

func (b BufferSize) Frames() int { return int(b) }

// LatencyMS is the duration of one block at rate, in milliseconds.
func (b BufferSize) LatencyMS(rate SampleRate) float32 {
	return float32(b) / float32(rate) * 1000
}

func (b BufferSize) NextLarger() (BufferSize, bool) {
	if b >= MaxBufferSize {
		return 0, false
	}
	return b * 2, true
}

func (b BufferSize) NextSmaller() (BufferSize, bool) {
	if b <= MinBufferSize {
		return 0, false
	}
	return b / 2, true
}

func (b BufferSize) String() string { return fmt.Sprintf("%d samples", uint32(b)) }

// FrameCount counts frames; one frame holds one sample per channel.
type FrameCount uint64

func (f FrameCount) TotalSamples(ch ChannelCount) uint64 {
	hi, lo := bits.Mul64(uint64(f), uint64(ch))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func (f FrameCount) SaturatingAdd(o FrameCount) FrameCount {
	sum, carry := bits.Add64(uint64(f), uint64(o), 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return FrameCount(sum)
}

func (f FrameCount) SaturatingSub(o FrameCount) FrameCount {
	if o > f {
		return 0
	}
	return f - o
}

func (f FrameCount) DurationSeconds(rate SampleRate) float64 {
	return float64(f) / float64(rate)
}

func (f FrameCount) String() string { return fmt.Sprintf("%d frames", uint64(f)) }

// BitDepth is the storage format of a sample.
type BitDepth uint8

const (
	F32 BitDepth = iota // default
	I16
	I24
	I32
	F64
)

func (b BitDepth) Bits() int {
	switch b {
	case I16:
		return 16
	case I24:
		return 24
	case F64:
		return 64
	}
	return 32
}

func (b BitDepth) BytesPerSample() int {
	switch b {
	case I16:
		return 2
	case I24:
		return 3
	case F64:
		return 8
	}
	return 4
}

func (b BitDepth) IsFloat() bool { return b == F32 || b == F64 }

func (b BitDepth) IsInteger() bool { return !b.IsFloat() }

func (b BitDepth) String() string {
	switch b {
	case I16:
		return "16-bit int"
	case I24:
		return "24-bit int"
	case I32:
		return "32-bit int"
	case F64:
		return "64-bit float"
	}
	return "32-bit float"
}

// ParseBitDepth maps a bit count (and whether it is float) to a BitDepth.
func ParseBitDepth(bitCount int, float bool) (BitDepth, error) {
	switch {
	case float && bitCount == 32:
		return F32, nil
	case float && bitCount == 64:
		return F64, nil
	case !float && bitCount == 16:
		return I16, nil
	case !float && bitCount == 24:
		return I24, nil
	case !float && bitCount == 32:
		return I32, nil
	}

	return 0, fmt.Errorf("%w: %d-bit (float=%t)", ErrUnsupportedFormat, bitCount, float)
}

// AudioFormat fully describes a PCM stream.
type AudioFormat struct {
	SampleRate SampleRate
	Channels   ChannelCount
	BitDepth   BitDepth
}

var (
	CDQuality    = AudioFormat{SampleRate: Rate44100, Channels: Stereo, BitDepth: I16}
	Professional = AudioFormat{SampleRate: Rate48000, Channels: Stereo, BitDepth: I24}
	HighRes      = AudioFormat{SampleRate: Rate96000, Channels: Stereo, BitDepth: F32}
)

// DefaultFormat is 48 kHz stereo 32-bit float.
func DefaultFormat() AudioFormat {
	return AudioFormat{SampleRate: DefaultSampleRate, Channels: DefaultChannelCount, BitDepth: F32}
}

// ByteRate is the number of bytes per second.
func (f AudioFormat) ByteRate() int {
	return int(f.SampleRate) * f.Channels.Count() * f.BitDepth.BytesPerSample()
}

// FrameSize is the number of bytes per frame.
func (f AudioFormat) FrameSize() int { return f.Channels.Count() * f.BitDepth.BytesPerSample() }

// IsCompatibleWith reports whether two streams can be mixed without
// conversion. Bit depth is ignored.
func (f AudioFormat) IsCompatibleWith(o AudioFormat) bool {
	return f.SampleRate == o.SampleRate && f.Channels == o.Channels
}

func (f AudioFormat) String() string {
	return fmt.Sprintf("%s,%s,%s", f.SampleRate, f.Channels, f.BitDepth)
}
