// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/formats/wav"
	"github.com/ik5/audeng/types"
)

// Sink consumes processed blocks.
type Sink interface {
	Write(ctx context.Context, block []float32) error
	Close() error
}

// Optional Sink behaviour the engine looks for.
type (
	// transporter is implemented by sinks that follow the engine state.
	transporter interface {
		Start() error
		Pause() error
	}

	// paced is implemented by sinks that block at playback speed.
	paced interface {
		Paced() bool
	}

	underrunCounter interface {
		Underruns() uint64
	}
)

// DeviceSink plays blocks on an output stream.
type DeviceSink struct {
	stream *device.OutputStream
}

func NewDeviceSink(s *device.OutputStream) *DeviceSink { return &DeviceSink{stream: s} }

func (s *DeviceSink) Write(ctx context.Context, block []float32) error {
	return s.stream.WriteAll(ctx, block)
}

// Drain waits until the stream has played everything written to it, or
// for the queued duration plus a second, whichever comes first.
func (s *DeviceSink) Drain(ctx context.Context) error {
	cfg := s.stream.Config()
	queued := time.Duration(s.stream.Queued()/cfg.Channels.Count()) * time.Second / time.Duration(cfg.SampleRate)
	ctx, cancel := context.WithTimeout(ctx, queued+time.Second)
	defer cancel()

	t := time.NewTicker(time.Millisecond)
	defer t.Stop()

	for s.stream.IsRunning() && s.stream.Queued() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	return nil
}

func (s *DeviceSink) Start() error                 { return s.stream.Start() }
func (s *DeviceSink) Pause() error                 { return s.stream.Pause() }
func (s *DeviceSink) Paced() bool                  { return true }
func (s *DeviceSink) Underruns() uint64            { return s.stream.Underruns() }
func (s *DeviceSink) Stream() *device.OutputStream { return s.stream }
func (s *DeviceSink) Close() error                 { return s.stream.Close() }

// FileSink records blocks to a WAV file.
type FileSink struct {
	w *wav.Writer
}

// NewFileSink creates path. Float formats are written as 16-bit PCM.
func NewFileSink(path string, format types.AudioFormat) (*FileSink, error) {
	depth := format.BitDepth
	if depth.IsFloat() {
		depth = types.I16
	}

	w, err := wav.Create(path, format.SampleRate, format.Channels, depth)
	if err != nil {
		return nil, fmt.Errorf("file sink: %w", err)
	}

	return &FileSink{w: w}, nil
}

func (s *FileSink) Write(_ context.Context, block []float32) error { return s.w.Write(block) }

// Frames is the number of frames written so far.
func (s *FileSink) Frames() int64 { return s.w.Frames() }

func (s *FileSink) Close() error { return s.w.Close() }

// NullSink discards blocks and counts them.
type NullSink struct {
	samples atomic.Int64
}

func NewNullSink() *NullSink { return &NullSink{} }

func (s *NullSink) Write(_ context.Context, block []float32) error {
	s.samples.Add(int64(len(block)))
	return nil
}

// Samples is the number of samples discarded so far.
func (s *NullSink) Samples() int64 { return s.samples.Load() }

func (s *NullSink) Close() error { return nil }
