// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/audeng/internal/audiotest"
)

// mockDecoder is a test decoder implementation
type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}
	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "mp3"}
	registry.Register("MP3", decoder)

	for _, key := range []string{"mp3", "Mp3", ".mp3", " MP3 "} {
		if got, ok := registry.Get(key); !ok || got != decoder {
			t.Errorf("Registry.Get(%q) = %v, %v", key, got, ok)
		}
	}

	if got, ok := registry.ForPath("/music/Track.MP3"); !ok || got != decoder {
		t.Error("ForPath() did not match by extension")
	}
	if _, ok := registry.ForPath("/music/README"); ok {
		t.Error("ForPath() matched a path without extension")
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if len(registry.Formats()) != 0 {
		t.Error("new registry is not empty")
	}

	for _, f := range []string{"ogg", "WAV", "mp3", "wav"} {
		registry.Register(f, &mockDecoder{name: f})
	}

	if got := registry.Formats(); !slices.Equal(got, []string{"mp3", "ogg", "wav"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder1 := &mockDecoder{name: "first"}
	decoder2 := &mockDecoder{name: "second"}

	registry.Register("wav", decoder1)
	registry.Register("wav", decoder2)

	if got, _ := registry.Get("wav"); got != decoder2 {
		t.Error("Registry.Get() did not return the overwritten decoder")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("format", decoder)
		}()
		go func() {
			defer wg.Done()
			registry.Get("format")
			registry.Formats()
		}()
	}
	wg.Wait()

	if _, ok := registry.Get("format"); !ok {
		t.Error("Registry.Get() failed after concurrent registration")
	}
}

func TestDecoderFunc(t *testing.T) {
	t.Parallel()

	errBad := errors.New("bad header")
	d := DecoderFunc(func(io.Reader) (Source, error) { return nil, errBad })

	if _, err := d.Decode(nil); !errors.Is(err, errBad) {
		t.Errorf("DecoderFunc error = %v", err)
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{name: "wav"})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = registry.Get("wav")
	}
}
