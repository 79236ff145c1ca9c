// SPDX-License-Identifier: EPL-2.0

package audeng_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audeng"
	"github.com/ik5/audeng/dsp"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/formats"
	"github.com/ik5/audeng/types"
)

// Example_render generates half a second of a 440 Hz tone, filters it and
// stores it as 24-bit WAV.
func Example_render() {
	dir, err := os.MkdirTemp("", "audeng")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	sig, err := endpoint.OpenSignal(endpoint.Sine(440), types.Rate48000, types.Stereo)
	if err != nil {
		fmt.Println(err)
		return
	}

	chain := dsp.NewChain(dsp.NewLowPass(1, 2000, 0.707))
	path := filepath.Join(dir, "tone.wav")

	frames, err := audeng.Render(context.Background(), sig.WithLength(24000), path, types.Professional,
		engine.WithChain(chain),
		engine.WithGain(types.GainFromDB(-6)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	src, err := audeng.Open(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Printf("wrote %d frames\n", frames)
	fmt.Printf("%d Hz, %d channels, %d frames\n", src.SampleRate(), src.Channels(), formats.Length(src))
	// Output:
	// wrote 24064 frames
	// 48000 Hz, 2 channels, 24064 frames
}

// Example_convert resamples a mono 44.1 kHz file to the engine format.
func Example_convert() {
	dir, err := os.MkdirTemp("", "audeng")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.wav")
	sig, _ := endpoint.OpenSignal(endpoint.Silence(), types.Rate44100, types.Mono)
	if _, err := audeng.Render(context.Background(), sig.WithLength(4410), in, types.AudioFormat{SampleRate: types.Rate44100, Channels: types.Mono, BitDepth: types.I16}); err != nil {
		fmt.Println(err)
		return
	}

	out := filepath.Join(dir, "out.wav")
	if _, err := audeng.Convert(context.Background(), in, out, types.DefaultFormat()); err != nil {
		fmt.Println(err)
		return
	}

	src, err := audeng.Open(out)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Println(src.SampleRate(), src.Channels())
	// Output: 48000 2
}
