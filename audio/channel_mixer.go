// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts a source to a different channel count.
//
// Mixing rules, for a source of n channels and a target of m:
//   - m == n: pass-through
//   - m == 1: every source channel is averaged
//   - n == 1: the mono channel is copied to every output channel
//   - m < n:  output channel c averages the source channels i where i%m == c
//   - m > n:  output channel c repeats source channel c%n
type ChannelMixer struct {
	src Source
	in  int
	out int
	tmp []float32
}

func NewChannelMixer(src Source, channels int) *ChannelMixer {
	return &ChannelMixer{
		src: src,
		in:  max(src.Channels(), 1),
		out: max(channels, 1),
		tmp: make([]float32, 4096),
	}
}

// NewMonoMixer averages all channels of src into one.
func NewMonoMixer(src Source) *ChannelMixer { return NewChannelMixer(src, 1) }

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if m.in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	needed := frames * m.in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:cap(m.tmp)]

	n, err := m.src.ReadSamples(m.tmp[:needed])
	frames = n / m.in
	if frames == 0 {
		return 0, err
	}

	m.mix(dst, m.tmp[:frames*m.in], frames)

	return frames * m.out, err
}

func (m *ChannelMixer) mix(dst, src []float32, frames int) {
	in, out := m.in, m.out

	switch {
	case out == 1 && in == 2:
		for f := range frames {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}

	case out == 1:
		inv := 1 / float32(in)
		for f := range frames {
			var sum float32
			for _, s := range src[f*in : (f+1)*in] {
				sum += s
			}
			dst[f] = sum * inv
		}

	case in == 1:
		for f := range frames {
			v := src[f]
			for c := range out {
				dst[f*out+c] = v
			}
		}

	case out < in:
		for f := range frames {
			frame := src[f*in : (f+1)*in]
			for c := range out {
				var sum float32
				var count int
				for i := c; i < in; i += out {
					sum += frame[i]
					count++
				}
				dst[f*out+c] = sum / float32(count)
			}
		}

	default:
		for f := range frames {
			frame := src[f*in : (f+1)*in]
			for c := range out {
				dst[f*out+c] = frame[c%in]
			}
		}
	}
}
