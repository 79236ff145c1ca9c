// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/formats"
	"github.com/ik5/audeng/types"
)

// Open decodes path with the decoder registered for its extension.
func Open(path string) (audio.Source, error) {
	return endpoint.OpenFile(endpoint.NewFileInput(path), formats.NewRegistry())
}

// Render runs src through an engine into a WAV file at path and returns
// the number of frames written. The engine runs in format; float formats
// are stored as 16-bit PCM. Render closes src.
func Render(ctx context.Context, src audio.Source, path string, format types.AudioFormat, opts ...engine.Option) (int64, error) {
	sink, err := engine.NewFileSink(path, format)
	if err != nil {
		return 0, errors.Join(err, src.Close())
	}

	opts = append([]engine.Option{
		engine.WithFormat(format.SampleRate, format.Channels),
		engine.WithAutoStart(),
	}, opts...)

	eng, ctrl, err := engine.New(src, sink, opts...)
	if err != nil {
		return 0, errors.Join(err, sink.Close(), src.Close())
	}
	defer ctrl.Close()

	if err := eng.Run(ctx); err != nil {
		return sink.Frames(), fmt.Errorf("render %s: %w", path, err)
	}
	return sink.Frames(), nil
}

// Convert decodes in and renders it to out in format.
func Convert(ctx context.Context, in, out string, format types.AudioFormat, opts ...engine.Option) (int64, error) {
	src, err := Open(in)
	if err != nil {
		return 0, err
	}
	return Render(ctx, src, out, format, opts...)
}
