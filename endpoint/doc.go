// SPDX-License-Identifier: EPL-2.0

// Package endpoint describes where audio comes from and where it goes.
//
// An InputSource is one of DeviceInput, FileInput, NetworkInput or
// SignalInput; an OutputTarget is one of DeviceOutput, FileOutput,
// NetworkOutput or NullOutput. The descriptions are plain values that can
// be built from configuration and logged. OpenFile and OpenSignal turn the
// file and signal inputs into audio.Source streams; device endpoints are
// opened through the engine's AudioContext.
package endpoint
