// SPDX-License-Identifier: EPL-2.0

// Package buffer provides the two storage primitives used on the real-time
// path: a fixed capacity buffer that never reallocates, and a lock-free
// single producer, single consumer ring for handing samples between a
// real-time goroutine and the rest of the program.
package buffer
