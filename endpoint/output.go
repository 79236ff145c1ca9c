// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// OutputTarget is implemented by DeviceOutput, FileOutput, NetworkOutput
// and NullOutput.
type OutputTarget interface {
	Description() string
	String() string
	output()
}

type DeviceOutput struct {
	DeviceID  types.DeviceID
	Format    *types.AudioFormat
	Exclusive bool
}

func NewDeviceOutput(id types.DeviceID) DeviceOutput { return DeviceOutput{DeviceID: id} }
func DefaultDeviceOutput() DeviceOutput              { return NewDeviceOutput(types.DefaultOutputID()) }

func (d DeviceOutput) WithFormat(f types.AudioFormat) DeviceOutput {
	d.Format = &f
	return d
}

func (d DeviceOutput) WithExclusive() DeviceOutput {
	d.Exclusive = true
	return d
}

func (d DeviceOutput) Description() string { return "Device: " + d.DeviceID.String() }
func (d DeviceOutput) String() string      { return d.Description() }
func (DeviceOutput) output()               {}

// MP3Settings configures the MP3 encoder.
type MP3Settings struct {
	Bitrate types.StreamBitrate
	Quality uint8
}

func DefaultMP3Settings() MP3Settings {
	return MP3Settings{Bitrate: types.DefaultBitrate, Quality: 2}
}

// OutputFileFormat is WAV, or MP3 with its encoder settings.
type OutputFileFormat struct {
	mp3      bool
	settings MP3Settings
}

func WAV() OutputFileFormat                 { return OutputFileFormat{} }
func MP3(s MP3Settings) OutputFileFormat    { return OutputFileFormat{mp3: true, settings: s} }
func (f OutputFileFormat) IsMP3() bool      { return f.mp3 }
func (f OutputFileFormat) MP3() MP3Settings { return f.settings }

func (f OutputFileFormat) Extension() string {
	if f.mp3 {
		return "mp3"
	}
	return "wav"
}

func (f OutputFileFormat) String() string {
	if f.mp3 {
		return fmt.Sprintf("MP3 (%s)", f.settings.Bitrate)
	}
	return "WAV"
}

// FileOutput records to a file. A nil AudioFormat keeps the engine format.
type FileOutput struct {
	Path        string
	Format      OutputFileFormat
	AudioFormat *types.AudioFormat
}

func NewFileOutput(path string, format OutputFileFormat) FileOutput {
	return FileOutput{Path: path, Format: format}
}

func WAVFile(path string) FileOutput { return NewFileOutput(path, WAV()) }
func MP3File(path string) FileOutput { return NewFileOutput(path, MP3(DefaultMP3Settings())) }

func (f FileOutput) WithAudioFormat(af types.AudioFormat) FileOutput {
	f.AudioFormat = &af
	return f
}

func (f FileOutput) Description() string { return "File: " + f.Path }
func (f FileOutput) String() string      { return f.Description() }
func (FileOutput) output()               {}

type NetworkOutput struct {
	URL      types.StreamURL
	Bitrate  types.StreamBitrate
	BufferMS uint32
}

func NewNetworkOutput(url types.StreamURL) NetworkOutput {
	return NetworkOutput{URL: url, Bitrate: types.DefaultBitrate, BufferMS: 1000}
}

func (n NetworkOutput) WithBitrate(b types.StreamBitrate) NetworkOutput {
	n.Bitrate = b
	return n
}

func (n NetworkOutput) WithBufferMS(ms uint32) NetworkOutput {
	n.BufferMS = ms
	return n
}

func (n NetworkOutput) Description() string { return "Network: " + n.URL.String() }
func (n NetworkOutput) String() string      { return n.Description() }
func (NetworkOutput) output()               {}

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Description() string { return "Null" }
func (NullOutput) String() string      { return "Null" }
func (NullOutput) output()             {}
