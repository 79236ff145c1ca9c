// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// LimitedSource reads at most a fixed number of frames from a source and
// then reports io.EOF.
type LimitedSource struct {
	Source
	remaining int64
}

// Limit returns a source that ends after frames frames of src.
func Limit(src Source, frames int64) *LimitedSource {
	return &LimitedSource{Source: src, remaining: max(frames, 0)}
}

// Remaining is the number of frames left before the limit.
func (l *LimitedSource) Remaining() int64 { return l.remaining }

func (l *LimitedSource) ReadSamples(dst []float32) (int, error) {
	if l.remaining == 0 {
		return 0, io.EOF
	}

	ch := max(l.Channels(), 1)
	frames := min(int64(len(dst)/ch), l.remaining)
	n, err := l.Source.ReadSamples(dst[:frames*int64(ch)])
	l.remaining -= int64(n / ch)

	if err == nil && l.remaining == 0 {
		err = io.EOF
	}
	return n, err
}
