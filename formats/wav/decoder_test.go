// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

type chunk struct {
	id   string
	body []byte
}

func fmtChunk(format, channels uint16, rate uint32, bits uint16) chunk {
	b := new(bytes.Buffer)
	blockAlign := channels * bits / 8
	_ = binary.Write(b, binary.LittleEndian, format)
	_ = binary.Write(b, binary.LittleEndian, channels)
	_ = binary.Write(b, binary.LittleEndian, rate)
	_ = binary.Write(b, binary.LittleEndian, rate*uint32(blockAlign))
	_ = binary.Write(b, binary.LittleEndian, blockAlign)
	_ = binary.Write(b, binary.LittleEndian, bits)
	return chunk{"fmt ", b.Bytes()}
}

func riff(chunks ...chunk) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.WriteString(c.id)
		_ = binary.Write(body, binary.LittleEndian, uint32(len(c.body)))
		body.Write(c.body)
		if len(c.body)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	_ = binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func le16(v ...int16) []byte {
	b := new(bytes.Buffer)
	_ = binary.Write(b, binary.LittleEndian, v)
	return b.Bytes()
}

func TestDecoder_PCM16(t *testing.T) {
	t.Parallel()

	data := riff(fmtChunk(formatPCM, 2, 8000, 16), chunk{"data", le16(0, 16384, -16384, -32768)})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz, %d ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}
	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("after EOF = %d, %v", n, err)
	}
}

func TestDecoder_SkipsUnknownChunks(t *testing.T) {
	t.Parallel()

	data := riff(
		chunk{"LIST", []byte{1, 2, 3}}, // odd size, padded
		fmtChunk(formatPCM, 1, 8000, 16),
		chunk{"fact", []byte{0, 0, 0, 0}},
		chunk{"data", le16(100, 200)},
	)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := src.(*wavSource).Length(); got != 2 {
		t.Errorf("Length() = %d, want 2", got)
	}
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	float32Data := new(bytes.Buffer)
	_ = binary.Write(float32Data, binary.LittleEndian, []float32{0.25, -0.75})
	float64Data := new(bytes.Buffer)
	_ = binary.Write(float64Data, binary.LittleEndian, []float64{0.25, -0.75})

	tests := []struct {
		name   string
		format uint16
		bits   uint16
		data   []byte
		want   []float32
	}{
		{"8-bit unsigned", formatPCM, 8, []byte{128, 192}, []float32{0, 0.5}},
		{"24-bit", formatPCM, 24, []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}, []float32{0.5, -0.5}},
		{"32-bit", formatPCM, 32, []byte{0, 0, 0, 0x40, 0, 0, 0, 0x80}, []float32{0.5, -1}},
		{"float32", formatFloat, 32, float32Data.Bytes(), []float32{0.25, -0.75}},
		{"float64", formatFloat, 64, float64Data.Bytes(), []float32{0.25, -0.75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := riff(fmtChunk(tt.format, 1, 44100, tt.bits), chunk{"data", tt.data})
			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			buf := make([]float32, 4)
			n, _ := src.ReadSamples(buf)
			if n != len(tt.want) {
				t.Fatalf("read %d samples, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if math.Abs(float64(buf[i]-w)) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, buf[i], w)
				}
			}
		})
	}
}

func TestDecoder_Extensible(t *testing.T) {
	t.Parallel()

	f := fmtChunk(formatExtensible, 1, 48000, 16)
	ext := new(bytes.Buffer)
	ext.Write(f.body)
	_ = binary.Write(ext, binary.LittleEndian, uint16(22))        // cbSize
	_ = binary.Write(ext, binary.LittleEndian, uint16(16))        // valid bits
	_ = binary.Write(ext, binary.LittleEndian, uint32(0x4))       // channel mask
	_ = binary.Write(ext, binary.LittleEndian, uint16(formatPCM)) // sub format
	ext.Write(make([]byte, 14))

	data := riff(chunk{"fmt ", ext.Bytes()}, chunk{"data", le16(1, 2)})
	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotWavFile},
		{"not riff", []byte("This is not a WAV file at all"), ErrNotWavFile},
		{"no fmt", riff(chunk{"data", le16(1)}), ErrUnsupportedWavChunks},
		{"no data", riff(fmtChunk(formatPCM, 1, 8000, 16)), ErrUnsupportedWavChunks},
		{"short fmt", riff(chunk{"fmt ", []byte{1, 0, 1, 0}}, chunk{"data", nil}), ErrUnsupportedWavLayout},
		{"adpcm", riff(fmtChunk(2, 1, 8000, 4), chunk{"data", nil}), ErrUnsupportedEncoding},
		{"12-bit", riff(fmtChunk(formatPCM, 1, 8000, 12), chunk{"data", nil}), ErrUnsupportedBitDepth},
		{"16-bit float", riff(fmtChunk(formatFloat, 1, 8000, 16), chunk{"data", nil}), ErrUnsupportedBitDepth},
		{"no channels", riff(fmtChunk(formatPCM, 0, 8000, 16), chunk{"data", nil}), ErrUnsupportedWavLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_TruncatedData(t *testing.T) {
	t.Parallel()

	data := riff(fmtChunk(formatPCM, 2, 8000, 16), chunk{"data", le16(1, 2, 3, 4)})
	// header claims 8 bytes but the stream ends after one and a half frames
	data = data[:len(data)-2]

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want one frame and EOF", n, err)
	}
}

func TestSource_SmallReads(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	src, err := Decoder{}.Decode(bytes.NewReader(riff(fmtChunk(formatPCM, 1, 8000, 16), chunk{"data", le16(samples...)})))
	if err != nil {
		t.Fatal(err)
	}

	var got []float32
	buf := make([]float32, 7)
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

	if len(got) != 100 {
		t.Fatalf("read %d samples, want 100", len(got))
	}
	for i, s := range got {
		if want := float32(i*100) / 32768; s != want {
			t.Fatalf("got[%d] = %v, want %v", i, s, want)
		}
	}
}

func TestSource_EmptyDst(t *testing.T) {
	t.Parallel()

	src, _ := Decoder{}.Decode(bytes.NewReader(riff(fmtChunk(formatPCM, 2, 8000, 16), chunk{"data", le16(1, 2)})))
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v", n, err)
	}
}

func TestSource_NoAllocs(t *testing.T) {
	data := riff(fmtChunk(formatPCM, 2, 48000, 16), chunk{"data", make([]byte, 4<<20)})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = src.ReadSamples(buf)
	})
	if allocs != 0 {
		t.Errorf("ReadSamples() allocated %v times per call", allocs)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := riff(fmtChunk(formatPCM, 2, 48000, 24), chunk{"data", make([]byte, 6*48000)})
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src, _ := Decoder{}.Decode(bytes.NewReader(data))
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
