// SPDX-License-Identifier: EPL-2.0

package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSampleRate    = errors.New("invalid sample rate")
	ErrInvalidChannelCount  = errors.New("invalid channel count")
	ErrInvalidBufferSize    = errors.New("invalid buffer size")
	ErrInvalidGain          = errors.New("invalid gain")
	ErrNumericConversion    = errors.New("numeric conversion failed")
	ErrBufferOverflow       = errors.New("buffer overflow")
	ErrBufferUnderrun       = errors.New("buffer underrun")
	ErrRingBufferFull       = errors.New("ring buffer full")
	ErrRingBufferEmpty      = errors.New("ring buffer empty")
	ErrFormatMismatch       = errors.New("audio format mismatch")
	ErrSampleRateMismatch   = errors.New("sample rate mismatch")
	ErrChannelCountMismatch = errors.New("channel count mismatch")
	ErrDeviceNotFound       = errors.New("audio device not found")
	ErrDeviceAccess         = errors.New("failed to access audio device")
	ErrFileNotFound         = errors.New("audio file not found")
	ErrUnsupportedFormat    = errors.New("unsupported audio format")
	ErrInvalidStreamURL     = errors.New("invalid stream url")
	ErrNetworkConnection    = errors.New("network connection failed")
	ErrChannelSendFailed    = errors.New("channel send failed: receiver disconnected")
	ErrChannelRecvFailed    = errors.New("channel receive failed: sender disconnected")
	ErrConfiguration        = errors.New("configuration error")
	ErrPipelineState        = errors.New("pipeline state error")
	ErrIO                   = errors.New("i/o error")
)

// ValueError reports a rejected numeric value. It unwraps to Kind.
type ValueError struct {
	Kind  error
	Value int64
	Hint  string
}

func (e *ValueError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%v: %d", e.Kind, e.Value)
	}
	return fmt.Sprintf("%v: %d (%s)", e.Kind, e.Value, e.Hint)
}

func (e *ValueError) Unwrap() error { return e.Kind }

// CapacityError reports a buffer operation that did not fit.
// Kind is one of ErrBufferOverflow, ErrBufferUnderrun, ErrRingBufferFull
// or ErrRingBufferEmpty.
type CapacityError struct {
	Kind      error
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	switch e.Kind {
	case ErrBufferOverflow:
		return fmt.Sprintf("%v: attempted to write %d samples, capacity is %d", e.Kind, e.Requested, e.Available)
	case ErrBufferUnderrun:
		return fmt.Sprintf("%v: requested %d samples, available %d", e.Kind, e.Requested, e.Available)
	case ErrRingBufferFull:
		return fmt.Sprintf("%v: cannot push %d elements", e.Kind, e.Requested)
	case ErrRingBufferEmpty:
		return fmt.Sprintf("%v: cannot pop %d elements", e.Kind, e.Requested)
	}
	return fmt.Sprintf("%v: requested %d, available %d", e.Kind, e.Requested, e.Available)
}

func (e *CapacityError) Unwrap() error { return e.Kind }

// MismatchError reports two components that disagree on a property.
type MismatchError struct {
	Kind     error
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s, got %s", e.Kind, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error { return e.Kind }

// StreamURLError reports why a stream url was rejected.
type StreamURLError struct {
	URL    string
	Reason string
}

func (e *StreamURLError) Error() string {
	return fmt.Sprintf("%v: %s - %s", ErrInvalidStreamURL, e.URL, e.Reason)
}

func (e *StreamURLError) Unwrap() error { return ErrInvalidStreamURL }

// IsRecoverable reports whether err is a transient buffer condition that the
// caller can retry on the next cycle.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrBufferUnderrun) ||
		errors.Is(err, ErrRingBufferEmpty) ||
		errors.Is(err, ErrRingBufferFull)
}

// IsFatal reports whether err means the engine cannot keep running.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeviceNotFound) ||
		errors.Is(err, ErrDeviceAccess) ||
		errors.Is(err, ErrChannelSendFailed) ||
		errors.Is(err, ErrChannelRecvFailed)
}
