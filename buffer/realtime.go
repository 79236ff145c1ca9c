// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// RealtimeBuffer is a pre-allocated buffer that never grows. Len tracks how
// much of the storage currently holds valid data.
type RealtimeBuffer[T any] struct {
	data []T
	n    int
}

// NewRealtimeBuffer allocates capacity zero values. The buffer starts empty.
func NewRealtimeBuffer[T any](capacity int) *RealtimeBuffer[T] {
	return &RealtimeBuffer[T]{data: make([]T, max(capacity, 0))}
}

// NewRealtimeBufferFilled allocates capacity copies of v. The buffer starts
// full.
func NewRealtimeBufferFilled[T any](capacity int, v T) *RealtimeBuffer[T] {
	b := NewRealtimeBuffer[T](capacity)
	b.Fill(v)
	return b
}

// RealtimeBufferFrom adopts data as storage without copying it.
func RealtimeBufferFrom[T any](data []T) *RealtimeBuffer[T] {
	return &RealtimeBuffer[T]{data: data, n: len(data)}
}

// NewSampleBuffer returns a buffer sized for frames interleaved frames of
// the given channel count.
func NewSampleBuffer(frames types.BufferSize, channels types.ChannelCount) *RealtimeBuffer[float32] {
	return NewRealtimeBuffer[float32](frames.Frames() * channels.Count())
}

func (b *RealtimeBuffer[T]) Clear() { b.n = 0 }

// FillZero resets every element to the zero value and marks the buffer full.
func (b *RealtimeBuffer[T]) FillZero() {
	clear(b.data)
	b.n = len(b.data)
}

func (b *RealtimeBuffer[T]) Fill(v T) {
	for i := range b.data {
		b.data[i] = v
	}
	b.n = len(b.data)
}

// Resize changes the valid length, clamped to capacity. Elements exposed by
// growing are zeroed.
func (b *RealtimeBuffer[T]) Resize(n int) {
	n = min(max(n, 0), len(b.data))
	if n > b.n {
		clear(b.data[b.n:n])
	}
	b.n = n
}

// CopyFrom replaces the contents with src.
func (b *RealtimeBuffer[T]) CopyFrom(src []T) error {
	if len(src) > len(b.data) {
		return &types.CapacityError{Kind: types.ErrBufferOverflow, Requested: len(src), Available: len(b.data)}
	}

	b.n = copy(b.data, src)

	return nil
}

func (b *RealtimeBuffer[T]) Cap() int       { return len(b.data) }
func (b *RealtimeBuffer[T]) Len() int       { return b.n }
func (b *RealtimeBuffer[T]) IsEmpty() bool  { return b.n == 0 }
func (b *RealtimeBuffer[T]) IsFull() bool   { return b.n == len(b.data) }
func (b *RealtimeBuffer[T]) Remaining() int { return len(b.data) - b.n }

// Slice returns the valid elements. The slice aliases the buffer.
func (b *RealtimeBuffer[T]) Slice() []T { return b.data[:b.n] }

// Full returns the whole storage, including unused capacity.
func (b *RealtimeBuffer[T]) Full() []T { return b.data }

func (b *RealtimeBuffer[T]) At(i int) (T, bool) {
	if i < 0 || i >= b.n {
		var zero T
		return zero, false
	}
	return b.data[i], true
}

func (b *RealtimeBuffer[T]) String() string {
	return fmt.Sprintf("RealtimeBuffer{len: %d, cap: %d}", b.n, len(b.data))
}
