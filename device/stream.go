// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ik5/audeng/buffer"
	"github.com/ik5/audeng/types"
)

var ErrStreamClosed = errors.New("stream closed")

// backend is the host half of a stream.
type backend interface {
	start() error
	pause() error
	close() error
}

type nopBackend struct{}

func (nopBackend) start() error { return nil }
func (nopBackend) pause() error { return nil }
func (nopBackend) close() error { return nil }

// stream holds what input and output streams share.
type stream struct {
	device  types.DeviceID
	config  StreamConfig
	backend backend

	running atomic.Bool
	closed  atomic.Bool

	life      context.Context
	kill      context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

func (s *stream) init(id types.DeviceID, cfg StreamConfig) {
	s.device, s.config, s.backend = id, cfg, nopBackend{}
	s.life, s.kill = context.WithCancel(context.Background())
}

func (s *stream) Device() types.DeviceID    { return s.device }
func (s *stream) Config() StreamConfig      { return s.config }
func (s *stream) Format() types.AudioFormat { return s.config.Format() }
func (s *stream) IsRunning() bool           { return s.running.Load() }

// Start begins or resumes the device callback.
func (s *stream) Start() error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	if err := s.backend.start(); err != nil {
		return fmt.Errorf("%w: failed to start stream on %s: %w", types.ErrDeviceAccess, s.device, err)
	}
	s.running.Store(true)

	return nil
}

func (s *stream) Pause() error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	if err := s.backend.pause(); err != nil {
		return fmt.Errorf("%w: failed to pause stream on %s: %w", types.ErrDeviceAccess, s.device, err)
	}
	s.running.Store(false)

	return nil
}

// Close stops the stream and releases the device. It is safe to call more
// than once.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.running.Store(false)
		s.kill()
		if err := s.backend.close(); err != nil {
			s.closeErr = fmt.Errorf("%w: failed to close stream on %s: %w", types.ErrDeviceAccess, s.device, err)
		}
	})
	return s.closeErr
}

// OutputStream queues samples for playback.
type OutputStream struct {
	stream

	writer    *buffer.RingWriter[float32]
	reader    *buffer.RingReader[float32]
	underruns atomic.Uint64
}

func newOutputStream(id types.DeviceID, cfg StreamConfig) *OutputStream {
	s := &OutputStream{}
	s.init(id, cfg)
	s.writer, s.reader = buffer.NewRing[float32](cfg.BufferSamples() * 4)
	return s
}

// Write queues as many samples as fit and returns how many were taken. It
// never blocks.
func (s *OutputStream) Write(samples []float32) int {
	if s.closed.Load() {
		return 0
	}
	return s.writer.PushSlice(samples)
}

// WriteAll queues every sample, waiting for the device to make room.
func (s *OutputStream) WriteAll(ctx context.Context, samples []float32) error {
	if s.closed.Load() {
		return ErrStreamClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.life, cancel)
	defer stop()

	if err := s.writer.PushAll(ctx, samples); err != nil {
		if s.closed.Load() {
			return ErrStreamClosed
		}
		return err
	}

	return nil
}

// Available is the free space in the queue, in samples.
func (s *OutputStream) Available() int { return s.writer.Slots() }

// Queued is the number of samples waiting to be played.
func (s *OutputStream) Queued() int { return s.reader.Slots() }

// Underruns counts callbacks that found the queue short while running.
func (s *OutputStream) Underruns() uint64 { return s.underruns.Load() }

func (s *OutputStream) Channels() int { return s.config.Channels.Count() }

// render is the playback callback: it moves queued samples into dst and
// fills whatever is left with silence.
func (s *OutputStream) render(dst []float32) int {
	n := s.reader.PopSlice(dst)
	if n < len(dst) {
		clear(dst[n:])
		if s.running.Load() {
			s.underruns.Add(1)
		}
	}
	return n
}

// InputStream collects captured samples. It also satisfies audio.Source.
type InputStream struct {
	stream

	writer    *buffer.RingWriter[float32]
	reader    *buffer.RingReader[float32]
	overflows atomic.Uint64
}

func newInputStream(id types.DeviceID, cfg StreamConfig) *InputStream {
	s := &InputStream{}
	s.init(id, cfg)
	s.writer, s.reader = buffer.NewRing[float32](cfg.BufferSamples())
	return s
}

// Read moves up to len(dst) captured samples into dst.
func (s *InputStream) Read(dst []float32) int { return s.reader.PopSlice(dst) }

// Available is the number of captured samples waiting to be read.
func (s *InputStream) Available() int { return s.reader.Slots() }

// Overflows counts samples dropped because the reader fell behind.
func (s *InputStream) Overflows() uint64 { return s.overflows.Load() }

func (s *InputStream) SampleRate() int { return int(s.config.SampleRate) }
func (s *InputStream) Channels() int   { return s.config.Channels.Count() }
func (s *InputStream) BufSize() int    { return s.config.BufferSamples() }

// ReadSamples returns whole frames only. It returns 0, nil when nothing has
// been captured yet and io.EOF once the stream is closed and drained.
func (s *InputStream) ReadSamples(dst []float32) (int, error) {
	ch := s.Channels()
	frames := min(len(dst), s.reader.Slots()) / ch
	n := s.reader.PopSlice(dst[:frames*ch])
	if n == 0 && s.closed.Load() {
		return 0, io.EOF
	}
	return n, nil
}

// capture is the recording callback.
func (s *InputStream) capture(samples []float32) int {
	n := s.writer.PushSlice(samples)
	if n < len(samples) {
		s.overflows.Add(uint64(len(samples) - n))
	}
	return n
}
