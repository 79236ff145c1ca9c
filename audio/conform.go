// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audeng/types"
)

// Conform returns src converted to rate and channels. Stages that are not
// needed are skipped, so a source already in the target format is returned
// unchanged.
func Conform(src Source, rate, channels int) Source {
	out := src
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	if out.Channels() != channels {
		out = NewChannelMixer(out, channels)
	}
	return out
}

// ReadFull reads from src until dst is full or the stream ends. It returns
// the number of samples read; io.EOF is only returned when nothing was read.
func ReadFull(src Source, dst []float32) (int, error) {
	total := 0
	stalls := 0

	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n

		if errors.Is(err, io.EOF) {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("%w", err)
		}

		if n == 0 {
			stalls++
			if stalls > 8 {
				return total, nil
			}
		}
	}

	return total, nil
}

// ResampleToMono16 is a convenience function that resamples audio to a target
// sample rate, converts it to mono, and collects all samples as 16-bit PCM
// data.
//
// Example:
//
//	src, _ := decoder.Decode(file)
//	pcm16, rate, err := audio.ResampleToMono16(src, 8000, 4096)
//	if err != nil {
//	    panic(err)
//	}
//	// pcm16 now contains mono 16-bit PCM at 8kHz
func ResampleToMono16(src Source, targetRate int, bufferSize int) ([]int16, int, error) {
	if targetRate <= 0 {
		return nil, 0, ErrInvalidRate
	}

	mono := Conform(src, targetRate, 1)

	var pcm16 []int16
	buf := make([]float32, max(bufferSize, 1))

	for {
		n, err := mono.ReadSamples(buf)
		for _, s := range buf[:n] {
			pcm16 = append(pcm16, types.Sample(s).ToInt16())
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
