// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type fakeDecoder struct {
	data []int
	off  int
	err  error
}

func (f *fakeDecoder) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data[f.off:])
	f.off += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("FORM....AIFFnot really")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotAiffFile) {
			t.Errorf("Decode(%q) error = %v", data, err)
		}
	}
}

func TestSource_BitDepthScaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits int
		in   []int
		want []float32
	}{
		{8, []int{64, -128}, []float32{0.5, -1}},
		{16, []int{16384, -32768}, []float32{0.5, -1}},
		{24, []int{1 << 22, -(1 << 23)}, []float32{0.5, -1}},
		{32, []int{1 << 30, -(1 << 31)}, []float32{0.5, -1}},
	}

	for _, tt := range tests {
		format := goaudio.Format{NumChannels: 1, SampleRate: 44100}
		src := newSource(&fakeDecoder{data: tt.in}, format, tt.bits, int64(len(tt.in)))

		buf := make([]float32, 4)
		n, err := src.ReadSamples(buf)
		if n != 2 || !errors.Is(err, io.EOF) {
			t.Fatalf("%d-bit: ReadSamples() = %d, %v", tt.bits, n, err)
		}
		for i, w := range tt.want {
			if buf[i] != w {
				t.Errorf("%d-bit: buf[%d] = %v, want %v", tt.bits, i, buf[i], w)
			}
		}
	}
}

func TestSource_StreamsInBlocks(t *testing.T) {
	t.Parallel()

	data := make([]int, 20)
	for i := range data {
		data[i] = i * 1000
	}
	format := goaudio.Format{NumChannels: 2, SampleRate: 48000}
	src := newSource(&fakeDecoder{data: data}, format, 16, 10)

	if src.SampleRate() != 48000 || src.Channels() != 2 || src.Length() != 10 {
		t.Errorf("metadata = %d Hz, %d ch, %d frames", src.SampleRate(), src.Channels(), src.Length())
	}

	var got []float32
	buf := make([]float32, 7) // trimmed to 3 frames
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != 20 {
		t.Fatalf("read %d samples, want 20", len(got))
	}
	for i, s := range got {
		if want := float32(i*1000) / 32768; s != want {
			t.Fatalf("got[%d] = %v, want %v", i, s, want)
		}
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("after EOF = %d, %v", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad chunk")
	format := goaudio.Format{NumChannels: 1, SampleRate: 44100}
	src := newSource(&fakeDecoder{err: boom}, format, 16, 0)

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestSource_NoAllocs(t *testing.T) {
	format := goaudio.Format{NumChannels: 2, SampleRate: 44100}
	src := newSource(&fakeDecoder{data: make([]int, 1<<20)}, format, 16, 1<<19)
	buf := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = src.ReadSamples(buf)
	})
	if allocs != 0 {
		t.Errorf("ReadSamples() allocated %v times per call", allocs)
	}
}
