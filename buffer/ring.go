// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ik5/audeng/types"
)

// Preallocated so a failed push or pop on the real-time path does not
// allocate.
var (
	errRingFull  error = &types.CapacityError{Kind: types.ErrRingBufferFull, Requested: 1}
	errRingEmpty error = &types.CapacityError{Kind: types.ErrRingBufferEmpty, Requested: 1}
)

// ring is shared by exactly one writer and one reader. head is only stored by
// the reader and tail only by the writer; both grow without wrapping and are
// reduced modulo the capacity on access.
type ring[T any] struct {
	data []T
	size uint64

	head atomic.Uint64
	_    [56]byte
	tail atomic.Uint64
}

// RingWriter is the producing end of a ring. It must be used from a single
// goroutine.
type RingWriter[T any] struct {
	r *ring[T]
}

// RingReader is the consuming end of a ring. It must be used from a single
// goroutine.
type RingReader[T any] struct {
	r *ring[T]
}

// NewRing allocates a ring holding up to capacity elements and returns its
// two ends. A capacity below one is raised to one.
func NewRing[T any](capacity int) (*RingWriter[T], *RingReader[T]) {
	capacity = max(capacity, 1)
	r := &ring[T]{data: make([]T, capacity), size: uint64(capacity)}

	return &RingWriter[T]{r: r}, &RingReader[T]{r: r}
}

func (w *RingWriter[T]) Cap() int { return int(w.r.size) }

// Slots returns the number of free slots.
func (w *RingWriter[T]) Slots() int {
	return int(w.r.size - (w.r.tail.Load() - w.r.head.Load()))
}

func (w *RingWriter[T]) IsFull() bool { return w.Slots() == 0 }

// Push appends one element.
func (w *RingWriter[T]) Push(v T) error {
	r := w.r
	tail := r.tail.Load()
	if tail-r.head.Load() == r.size {
		return errRingFull
	}

	r.data[tail%r.size] = v
	r.tail.Store(tail + 1)

	return nil
}

// PushSlice appends as many elements of s as fit and returns how many were
// written.
func (w *RingWriter[T]) PushSlice(s []T) int {
	r := w.r
	tail := r.tail.Load()
	n := min(len(s), int(r.size-(tail-r.head.Load())))

	for i := range n {
		r.data[(tail+uint64(i))%r.size] = s[i]
	}
	r.tail.Store(tail + uint64(n))

	return n
}

// PushAll writes every element of s, waiting for the reader to make room.
// It is meant for non real-time callers and returns ctx.Err() when ctx is
// done first.
func (w *RingWriter[T]) PushAll(ctx context.Context, s []T) error {
	spins := 0
	for len(s) > 0 {
		n := w.PushSlice(s)
		s = s[n:]
		if n > 0 {
			spins = 0
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		spins++
		if spins < 64 {
			runtime.Gosched()
			continue
		}

		t := time.NewTimer(250 * time.Microsecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return nil
}

func (w *RingWriter[T]) String() string {
	return fmt.Sprintf("RingWriter{slots: %d}", w.Slots())
}

func (rd *RingReader[T]) Cap() int { return int(rd.r.size) }

// Slots returns the number of elements ready to be read.
func (rd *RingReader[T]) Slots() int {
	return int(rd.r.tail.Load() - rd.r.head.Load())
}

func (rd *RingReader[T]) IsEmpty() bool { return rd.Slots() == 0 }

func (rd *RingReader[T]) Pop() (T, error) {
	r := rd.r
	head := r.head.Load()
	if head == r.tail.Load() {
		var zero T
		return zero, errRingEmpty
	}

	v := r.data[head%r.size]
	r.head.Store(head + 1)

	return v, nil
}

// PopSlice fills dst with as many elements as are available and returns
// how many were read.
func (rd *RingReader[T]) PopSlice(dst []T) int {
	r := rd.r
	head := r.head.Load()
	n := min(len(dst), int(r.tail.Load()-head))

	for i := range n {
		dst[i] = r.data[(head+uint64(i))%r.size]
	}
	r.head.Store(head + uint64(n))

	return n
}

// Peek returns the next element without consuming it.
func (rd *RingReader[T]) Peek() (T, bool) {
	r := rd.r
	head := r.head.Load()
	if head == r.tail.Load() {
		var zero T
		return zero, false
	}
	return r.data[head%r.size], true
}

// Discard drops up to n elements and returns how many were dropped.
func (rd *RingReader[T]) Discard(n int) int {
	r := rd.r
	head := r.head.Load()
	n = min(max(n, 0), int(r.tail.Load()-head))
	r.head.Store(head + uint64(n))

	return n
}

func (rd *RingReader[T]) String() string {
	return fmt.Sprintf("RingReader{slots: %d}", rd.Slots())
}

// SampleRing aliases for the common case of a float32 sample ring.
type (
	SampleRingWriter = RingWriter[float32]
	SampleRingReader = RingReader[float32]
)
