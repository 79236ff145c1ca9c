// SPDX-License-Identifier: EPL-2.0

// Package formats wires every decoder in its subpackages into one
// audio.Registry.
package formats

import (
	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/formats/aiff"
	"github.com/ik5/audeng/formats/mp3"
	"github.com/ik5/audeng/formats/vorbis"
	"github.com/ik5/audeng/formats/wav"
)

// NewRegistry returns a registry with all built-in decoders, keyed by file
// extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	for _, ext := range []string{"wav", "wave"} {
		reg.Register(ext, wav.Decoder{})
	}
	reg.Register("mp3", mp3.Decoder{})
	for _, ext := range []string{"ogg", "oga"} {
		reg.Register(ext, vorbis.Decoder{})
	}
	for _, ext := range []string{"aif", "aiff"} {
		reg.Register(ext, aiff.Decoder{})
	}

	return reg
}

// Lengther is implemented by sources that know their length in frames.
type Lengther interface {
	Length() int64
}

// Length returns the frame count of src, or 0 if src does not know it.
func Length(src audio.Source) int64 {
	if l, ok := src.(Lengther); ok {
		return l.Length()
	}
	return 0
}
