// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"testing"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/types"
)

func TestInputDescriptions(t *testing.T) {
	t.Parallel()

	url, err := types.ParseStreamURL("rtmp://live.example.com/app/key")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   InputSource
		want string
	}{
		{DefaultDeviceInput(), "Device: input:default"},
		{NewFileInput("/tmp/a.wav"), "File: /tmp/a.wav"},
		{NewNetworkInput(url), "Network: rtmp://live.example.com/app/key"},
		{Sine(440), "Signal: Sine 440Hz"},
		{Square(1000.5), "Signal: Square 1000.5Hz"},
		{WhiteNoise(), "Signal: White Noise"},
		{Silence(), "Signal: Silence"},
	}

	for _, tt := range tests {
		if got := tt.in.Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
		if tt.in.String() != tt.in.Description() {
			t.Errorf("String() and Description() differ for %q", tt.want)
		}
	}
}

func TestInputBuilders(t *testing.T) {
	t.Parallel()

	f := NewFileInput("song.MP3").WithLoop().WithStart(1.5)
	if !f.Loop || f.Start != 1.5 || f.Extension() != "MP3" {
		t.Errorf("file input = %+v", f)
	}
	if format, ok := f.Format(); !ok || format != FileMP3 {
		t.Errorf("Format() = %v, %v", format, ok)
	}

	url, _ := types.ParseStreamURL("https://cdn.example.com/live.m3u8")
	n := NewNetworkInput(url)
	if n.BufferMS != 1000 || !n.AutoReconnect || n.Protocol() != types.HLS {
		t.Errorf("network defaults = %+v", n)
	}
	n = n.WithBufferMS(250).WithoutReconnect()
	if n.BufferMS != 250 || n.AutoReconnect {
		t.Errorf("network builders = %+v", n)
	}

	d := DefaultDeviceInput().WithFormat(types.CDQuality)
	if d.Format == nil || *d.Format != types.CDQuality || !d.DeviceID.IsInput() {
		t.Errorf("device input = %+v", d)
	}
	if s := Sine(220); s.Waveform != audio.Sine || s.Frequency != 220 {
		t.Errorf("Sine() = %+v", s)
	}
}

func TestAudioFileFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want AudioFileFormat
		mime string
		str  string
	}{
		{"wav", FileWAV, "audio/wav", "WAV"},
		{"WAVE", FileWAV, "audio/wav", "WAV"},
		{".mp3", FileMP3, "audio/mpeg", "MP3"},
		{"flac", FileFLAC, "audio/flac", "FLAC"},
		{"oga", FileOGG, "audio/ogg", "OGG"},
		{"Aif", FileAIFF, "audio/aiff", "AIFF"},
	}

	for _, tt := range tests {
		got, ok := AudioFileFormatFromExtension(tt.ext)
		if !ok || got != tt.want {
			t.Errorf("AudioFileFormatFromExtension(%q) = %v, %v", tt.ext, got, ok)
			continue
		}
		if got.MIMEType() != tt.mime || got.String() != tt.str {
			t.Errorf("%q: mime %q, string %q", tt.ext, got.MIMEType(), got.String())
		}
	}

	if _, ok := AudioFileFormatFromExtension("txt"); ok {
		t.Error("txt recognised as audio")
	}
	if got := FileOGG.Extension(); got != "ogg" {
		t.Errorf("Extension() = %q", got)
	}
}

func TestOutputTargets(t *testing.T) {
	t.Parallel()

	url, _ := types.ParseStreamURL("rtp://10.0.0.1:6000")

	tests := []struct {
		out  OutputTarget
		want string
	}{
		{DefaultDeviceOutput(), "Device: output:default"},
		{WAVFile("out.wav"), "File: out.wav"},
		{NewNetworkOutput(url), "Network: rtp://10.0.0.1:6000"},
		{NullOutput{}, "Null"},
	}
	for _, tt := range tests {
		if got := tt.out.Description(); got != tt.want || tt.out.String() != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}

	mp3 := MP3File("out.mp3")
	if !mp3.Format.IsMP3() || mp3.Format.Extension() != "mp3" || mp3.Format.String() != "MP3 (192 kbps)" {
		t.Errorf("mp3 output = %+v", mp3)
	}
	if s := mp3.Format.MP3(); s.Quality != 2 || s.Bitrate != types.Kbps192 {
		t.Errorf("mp3 settings = %+v", s)
	}
	if w := WAV(); w.IsMP3() || w.String() != "WAV" || w.Extension() != "wav" {
		t.Errorf("wav format = %v", w)
	}

	f := WAVFile("x.wav").WithAudioFormat(types.Professional)
	if f.AudioFormat == nil || f.AudioFormat.BitDepth != types.I24 {
		t.Errorf("WithAudioFormat() = %+v", f)
	}

	d := DefaultDeviceOutput().WithExclusive().WithFormat(types.HighRes)
	if !d.Exclusive || d.Format.SampleRate != types.Rate96000 {
		t.Errorf("device output = %+v", d)
	}

	n := NewNetworkOutput(url).WithBitrate(types.Kbps320).WithBufferMS(500)
	if n.Bitrate != types.Kbps320 || n.BufferMS != 500 {
		t.Errorf("network output = %+v", n)
	}
}
