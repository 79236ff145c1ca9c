// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FloatToPCM converts a float sample in [-1, 1] to a signed integer of the
// given bit depth. Values outside the range are clipped, and the result is
// symmetric: -1 maps to -(2^(bits-1) - 1).
func FloatToPCM(x float32, bits int) int {
	if math.IsNaN(float64(x)) {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := float64(int64(1)<<(bits-1) - 1)

	return int(math.RoundToEven(float64(x) * scale))
}

// PCMToFloat converts a signed integer sample of the given bit depth to a
// float in [-1, 1). 8-bit input is treated as unsigned, the way WAV stores it.
func PCMToFloat(v int, bits int) float32 {
	if bits == 8 {
		return float32(v-128) / 128
	}

	return float32(float64(v) / float64(int64(1)<<(bits-1)))
}
