// SPDX-License-Identifier: EPL-2.0

// Package device opens audio hardware through a Host and exposes it as
// ring-buffered streams.
//
// The program writes into an OutputStream and the host's playback callback
// drains it, playing silence whenever the ring runs dry. Captured audio flows
// the other way through an InputStream. Either side of a stream may run on
// its own goroutine, but each side must be used from a single goroutine.
//
// OtoHost drives the system output through ebitengine/oto and is excluded
// from builds tagged nocgo. MockHost keeps everything in memory and advances
// only when Pump is called, which makes it suitable for tests and for
// headless runs.
package device
