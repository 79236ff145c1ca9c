// SPDX-License-Identifier: EPL-2.0

// Package dsp implements the effects that run inside the real-time loop.
//
// Effects work in place on interleaved float32 blocks, the same layout
// audio.Source produces. Parameter changes are smoothed over a few
// milliseconds so that automation does not click. Once Initialize has been
// called, Process does not allocate.
package dsp
