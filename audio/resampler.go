// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audeng/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
//
// A source that returns (0, nil) has no data for now; the resampler then
// returns what it produced so far and resumes on the next call.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// Interpolation window: t-1, t0, t+1, t+2. Slots past the end of the
	// source hold copies of the last frame and are marked invalid.
	hist   [4][]float32
	valid  [4]bool
	loaded int
	primed bool

	// Output position between hist[1] and hist[2], in source frames.
	pos float64

	in      []float32
	inPos   int
	inLen   int
	srcEOF  bool
	srcDone bool
	done    bool

	// One-pole low pass, only when downsampling.
	filter  bool
	lp      []float32
	lpReady bool
	lpAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		in:       make([]float32, 4096-4096%channels),
		filter:   ratio > 1.0,
		lp:       make([]float32, channels),
		lpAlpha:  0.5,
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Ratio is the number of source frames consumed per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull copies the next source frame into frame. It returns (false, nil)
// when the source has nothing available right now and (false, io.EOF) at
// the end of the stream.
func (r *Resampler) pull(frame []float32) (bool, error) {
	if r.inPos >= r.inLen {
		if r.srcEOF {
			return false, io.EOF
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}

		if r.inLen == 0 {
			if r.srcEOF {
				return false, io.EOF
			}
			return false, nil
		}
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.filter {
		if !r.lpReady {
			// start from the first frame to avoid a warm-up transient
			copy(r.lp, frame)
			r.lpReady = true
		}
		for c := range frame {
			r.lp[c] += r.lpAlpha * (frame[c] - r.lp[c])
			frame[c] = r.lp[c]
		}
	}

	return true, nil
}

// prime loads the first three frames of the window.
func (r *Resampler) prime() (bool, error) {
	for r.loaded < 3 {
		got, err := r.pull(r.hist[r.loaded+1])
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		if !got {
			if err == nil {
				return false, nil
			}
			if r.loaded == 0 {
				return false, io.EOF
			}

			r.srcDone = true
			for i := r.loaded + 1; i < 4; i++ {
				copy(r.hist[i], r.hist[r.loaded])
			}
			break
		}

		r.valid[r.loaded+1] = true
		r.loaded++
	}

	copy(r.hist[0], r.hist[1])
	r.primed = true

	return true, nil
}

// advance slides the window by one source frame.
func (r *Resampler) advance() (bool, error) {
	next := r.hist[0]
	got := false

	if !r.srcDone {
		var err error
		got, err = r.pull(next)
		switch {
		case errors.Is(err, io.EOF):
			r.srcDone = true
		case err != nil:
			return false, err
		case !got:
			return false, nil
		}
	}
	if !got {
		copy(next, r.hist[3])
	}

	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], next
	r.valid[0], r.valid[1], r.valid[2], r.valid[3] = r.valid[1], r.valid[2], r.valid[3], got

	return true, nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.done = true
			}
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			ok, err := r.advance()
			if err != nil {
				return written * r.channels, err
			}
			if !ok {
				return written * r.channels, nil
			}
			r.pos -= 1.0
		}

		if !r.valid[1] {
			r.done = true
			return written * r.channels, io.EOF
		}

		t := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], t)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
