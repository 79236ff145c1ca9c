// SPDX-License-Identifier: EPL-2.0

package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audeng/types"
)

// pipe is the shared state behind both ends. The data channel itself is
// never closed; disconnection is signalled on the two done channels so a
// late send can never panic.
type pipe[T any] struct {
	ch chan T

	senderDone chan struct{}
	recvDone   chan struct{}
	senderOnce sync.Once
	recvOnce   sync.Once
}

func newPipe[T any](capacity int) *pipe[T] {
	return &pipe[T]{
		ch:         make(chan T, max(capacity, 1)),
		senderDone: make(chan struct{}),
		recvDone:   make(chan struct{}),
	}
}

func (p *pipe[T]) closeSender()   { p.senderOnce.Do(func() { close(p.senderDone) }) }
func (p *pipe[T]) closeReceiver() { p.recvOnce.Do(func() { close(p.recvDone) }) }

func (p *pipe[T]) senderGone() bool {
	select {
	case <-p.senderDone:
		return true
	default:
		return false
	}
}

func (p *pipe[T]) receiverGone() bool {
	select {
	case <-p.recvDone:
		return true
	default:
		return false
	}
}

func (p *pipe[T]) trySend(msg T) error {
	if p.receiverGone() {
		return types.ErrChannelSendFailed
	}

	select {
	case p.ch <- msg:
		return nil
	default:
		return errChannelFull
	}
}

func (p *pipe[T]) tryRecv() (T, bool) {
	select {
	case msg := <-p.ch:
		return msg, true
	default:
		var zero T
		return zero, false
	}
}

func (p *pipe[T]) drain() []T {
	var out []T
	for {
		msg, ok := p.tryRecv()
		if !ok {
			return out
		}
		out = append(out, msg)
	}
}

// recv waits for a message. A nil timeout channel waits forever.
func (p *pipe[T]) recv(ctx context.Context, timeout <-chan time.Time) (T, error) {
	if msg, ok := p.tryRecv(); ok {
		return msg, nil
	}

	var zero T
	select {
	case msg := <-p.ch:
		return msg, nil
	case <-p.senderDone:
		// messages sent before the close are still delivered
		if msg, ok := p.tryRecv(); ok {
			return msg, nil
		}
		return zero, types.ErrChannelRecvFailed
	case <-timeout:
		return zero, fmt.Errorf("%w: timed out", types.ErrChannelRecvFailed)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

var errChannelFull error = &types.CapacityError{Kind: types.ErrRingBufferFull, Requested: 1}

// NewControlChannel creates a bounded channel for commands flowing into the
// real-time loop.
func NewControlChannel[T any](capacity int) (ControlSender[T], RealtimeReceiver[T]) {
	p := newPipe[T](capacity)
	return ControlSender[T]{p: p}, RealtimeReceiver[T]{p: p}
}

// NewFeedbackChannel creates a bounded channel for reports flowing out of
// the real-time loop.
func NewFeedbackChannel[T any](capacity int) (RealtimeSender[T], ControlReceiver[T]) {
	p := newPipe[T](capacity)
	return RealtimeSender[T]{p: p}, ControlReceiver[T]{p: p}
}

// ControlSender is used by non real-time code. Copies share the same
// channel; closing any copy disconnects all of them.
type ControlSender[T any] struct {
	p *pipe[T]
}

// Send blocks while the channel is full.
func (s ControlSender[T]) Send(ctx context.Context, msg T) error {
	if s.p.receiverGone() {
		return types.ErrChannelSendFailed
	}

	select {
	case s.p.ch <- msg:
		return nil
	case <-s.p.recvDone:
		return types.ErrChannelSendFailed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend returns types.ErrRingBufferFull instead of blocking.
func (s ControlSender[T]) TrySend(msg T) error { return s.p.trySend(msg) }

func (s ControlSender[T]) IsDisconnected() bool { return s.p.receiverGone() }
func (s ControlSender[T]) Len() int             { return len(s.p.ch) }
func (s ControlSender[T]) IsEmpty() bool        { return len(s.p.ch) == 0 }
func (s ControlSender[T]) Close()               { s.p.closeSender() }

func (s ControlSender[T]) String() string {
	return fmt.Sprintf("ControlSender{len: %d, disconnected: %t}", s.Len(), s.IsDisconnected())
}

// RealtimeReceiver is owned by the real-time loop. None of its methods
// block.
type RealtimeReceiver[T any] struct {
	p *pipe[T]
}

func (r RealtimeReceiver[T]) TryRecv() (T, bool) { return r.p.tryRecv() }

// Drain returns every pending message. It allocates; ProcessAll does not.
func (r RealtimeReceiver[T]) Drain() []T { return r.p.drain() }

// ProcessAll calls fn for each pending message, in order.
func (r RealtimeReceiver[T]) ProcessAll(fn func(T)) {
	for {
		msg, ok := r.p.tryRecv()
		if !ok {
			return
		}
		fn(msg)
	}
}

// IsDisconnected reports whether the sending side has been closed.
func (r RealtimeReceiver[T]) IsDisconnected() bool { return r.p.senderGone() }
func (r RealtimeReceiver[T]) Len() int             { return len(r.p.ch) }
func (r RealtimeReceiver[T]) IsEmpty() bool        { return len(r.p.ch) == 0 }
func (r RealtimeReceiver[T]) Close()               { r.p.closeReceiver() }

func (r RealtimeReceiver[T]) String() string {
	return fmt.Sprintf("RealtimeReceiver{len: %d, disconnected: %t}", r.Len(), r.IsDisconnected())
}

// RealtimeSender is owned by the real-time loop. A full channel drops the
// message.
type RealtimeSender[T any] struct {
	p *pipe[T]
}

// TrySend reports whether msg was queued.
func (s RealtimeSender[T]) TrySend(msg T) bool { return s.p.trySend(msg) == nil }

func (s RealtimeSender[T]) IsDisconnected() bool { return s.p.receiverGone() }
func (s RealtimeSender[T]) Len() int             { return len(s.p.ch) }
func (s RealtimeSender[T]) IsEmpty() bool        { return len(s.p.ch) == 0 }
func (s RealtimeSender[T]) Close()               { s.p.closeSender() }

func (s RealtimeSender[T]) String() string {
	return fmt.Sprintf("RealtimeSender{len: %d, disconnected: %t}", s.Len(), s.IsDisconnected())
}

// ControlReceiver is used by non real-time code to collect feedback.
type ControlReceiver[T any] struct {
	p *pipe[T]
}

func (r ControlReceiver[T]) TryRecv() (T, bool) { return r.p.tryRecv() }

// Recv blocks until a message arrives, the sender is closed and the channel
// is drained, or ctx is done.
func (r ControlReceiver[T]) Recv(ctx context.Context) (T, error) {
	return r.p.recv(ctx, nil)
}

// RecvTimeout is Recv bounded by d. A timeout is reported as
// types.ErrChannelRecvFailed.
func (r ControlReceiver[T]) RecvTimeout(d time.Duration) (T, error) {
	t := time.NewTimer(d)
	defer t.Stop()

	return r.p.recv(context.Background(), t.C)
}

func (r ControlReceiver[T]) Drain() []T { return r.p.drain() }

func (r ControlReceiver[T]) IsDisconnected() bool { return r.p.senderGone() }
func (r ControlReceiver[T]) Len() int             { return len(r.p.ch) }
func (r ControlReceiver[T]) IsEmpty() bool        { return len(r.p.ch) == 0 }
func (r ControlReceiver[T]) Close()               { r.p.closeReceiver() }

func (r ControlReceiver[T]) String() string {
	return fmt.Sprintf("ControlReceiver{len: %d, disconnected: %t}", r.Len(), r.IsDisconnected())
}
