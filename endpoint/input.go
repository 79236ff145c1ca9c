// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/types"
)

// InputSource is implemented by DeviceInput, FileInput, NetworkInput and
// SignalInput.
type InputSource interface {
	Description() string
	String() string
	input()
}

// DeviceInput captures from an audio device. A nil Format lets the device
// choose.
type DeviceInput struct {
	DeviceID types.DeviceID
	Format   *types.AudioFormat
}

func NewDeviceInput(id types.DeviceID) DeviceInput { return DeviceInput{DeviceID: id} }
func DefaultDeviceInput() DeviceInput              { return NewDeviceInput(types.DefaultInputID()) }

func (d DeviceInput) WithFormat(f types.AudioFormat) DeviceInput {
	d.Format = &f
	return d
}

func (d DeviceInput) Description() string { return "Device: " + d.DeviceID.String() }
func (d DeviceInput) String() string      { return d.Description() }
func (DeviceInput) input()                {}

// FileInput plays an audio file, optionally looping and starting at an
// offset in seconds.
type FileInput struct {
	Path  string
	Loop  bool
	Start float64
}

func NewFileInput(path string) FileInput { return FileInput{Path: path} }

func (f FileInput) WithLoop() FileInput {
	f.Loop = true
	return f
}

func (f FileInput) WithStart(seconds float64) FileInput {
	f.Start = seconds
	return f
}

// Extension is the file extension without the dot.
func (f FileInput) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.Path), ".")
}

// Format guesses the container from the extension.
func (f FileInput) Format() (AudioFileFormat, bool) {
	return AudioFileFormatFromExtension(f.Extension())
}

func (f FileInput) Description() string { return "File: " + f.Path }
func (f FileInput) String() string      { return f.Description() }
func (FileInput) input()                {}

// NetworkInput pulls a remote stream.
type NetworkInput struct {
	URL           types.StreamURL
	BufferMS      uint32
	AutoReconnect bool
}

func NewNetworkInput(url types.StreamURL) NetworkInput {
	return NetworkInput{URL: url, BufferMS: 1000, AutoReconnect: true}
}

func (n NetworkInput) WithBufferMS(ms uint32) NetworkInput {
	n.BufferMS = ms
	return n
}

func (n NetworkInput) WithoutReconnect() NetworkInput {
	n.AutoReconnect = false
	return n
}

func (n NetworkInput) Protocol() types.NetworkProtocol { return n.URL.Protocol() }
func (n NetworkInput) Description() string             { return "Network: " + n.URL.String() }
func (n NetworkInput) String() string                  { return n.Description() }
func (NetworkInput) input()                            {}

// SignalInput is a generated test signal.
type SignalInput struct {
	Waveform  audio.Waveform
	Frequency float64
}

func Silence() SignalInput                { return SignalInput{Waveform: audio.Silence} }
func Sine(freq float64) SignalInput       { return SignalInput{Waveform: audio.Sine, Frequency: freq} }
func Square(freq float64) SignalInput     { return SignalInput{Waveform: audio.Square, Frequency: freq} }
func WhiteNoise() SignalInput             { return SignalInput{Waveform: audio.WhiteNoise} }
func (s SignalInput) Description() string { return "Signal: " + s.String() }
func (SignalInput) input()                {}

func (s SignalInput) String() string {
	if s.Waveform.HasFrequency() {
		return fmt.Sprintf("%s %gHz", s.Waveform, s.Frequency)
	}
	return s.Waveform.String()
}

// AudioFileFormat is a container format known by extension.
type AudioFileFormat uint8

const (
	FileWAV AudioFileFormat = iota
	FileMP3
	FileFLAC
	FileOGG
	FileAIFF
)

// AudioFileFormatFromExtension matches ext case-insensitively, with or
// without a leading dot.
func AudioFileFormatFromExtension(ext string) (AudioFileFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		return FileWAV, true
	case "mp3":
		return FileMP3, true
	case "flac":
		return FileFLAC, true
	case "ogg", "oga":
		return FileOGG, true
	case "aif", "aiff":
		return FileAIFF, true
	}
	return 0, false
}

func (f AudioFileFormat) MIMEType() string {
	switch f {
	case FileMP3:
		return "audio/mpeg"
	case FileFLAC:
		return "audio/flac"
	case FileOGG:
		return "audio/ogg"
	case FileAIFF:
		return "audio/aiff"
	}
	return "audio/wav"
}

func (f AudioFileFormat) Extension() string {
	switch f {
	case FileMP3:
		return "mp3"
	case FileFLAC:
		return "flac"
	case FileOGG:
		return "ogg"
	case FileAIFF:
		return "aiff"
	}
	return "wav"
}

func (f AudioFileFormat) String() string { return strings.ToUpper(f.Extension()) }
