// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audeng/types"
)

// PeakLevel returns the largest absolute sample value in samples.
func PeakLevel(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	return peak
}

// PeakMeter follows the peak level of a signal with an instant attack and
// an exponential release.
type PeakMeter struct {
	level   float32
	release float32
}

// NewPeakMeter returns a meter whose level falls by releaseDB per block
// without input.
func NewPeakMeter(releaseDB float32) *PeakMeter {
	return &PeakMeter{release: types.GainFromDB(-max(releaseDB, 0)).Linear()}
}

// Process measures one block and returns the current level.
func (m *PeakMeter) Process(samples []float32) types.Decibels {
	p := PeakLevel(samples)
	if p >= m.level {
		m.level = p
	} else {
		m.level = max(p, m.level*m.release)
	}
	return m.Level()
}

func (m *PeakMeter) Level() types.Decibels { return types.DecibelsFromLinear(m.level) }

func (m *PeakMeter) Reset() { m.level = 0 }
