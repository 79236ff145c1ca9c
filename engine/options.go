// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ik5/audeng/dsp"
	"github.com/ik5/audeng/types"
)

type options struct {
	id       uuid.UUID
	logger   *log.Logger
	recorder Recorder
	chain    *dsp.Chain

	sampleRate types.SampleRate
	channels   types.ChannelCount
	bufferSize types.BufferSize

	gain types.Gain
	pan  types.Pan

	realtime  bool
	autoStart bool
	idle      time.Duration

	commandCap  int
	feedbackCap int
}

func defaultOptions() options {
	return options{
		logger:      log.New(io.Discard),
		recorder:    nopRecorder{},
		sampleRate:  types.DefaultSampleRate,
		channels:    types.DefaultChannelCount,
		bufferSize:  types.DefaultBufferSize,
		gain:        types.Unity,
		pan:         types.Center,
		idle:        5 * time.Millisecond,
		commandCap:  64,
		feedbackCap: 256,
	}
}

type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSessionID sets the id the engine logs and reports under. A new
// random id is used when none is given.
func WithSessionID(id uuid.UUID) Option {
	return func(o *options) { o.id = id }
}

func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithChain sets the effect chain run on every block. The engine
// initializes it with the engine format.
func WithChain(c *dsp.Chain) Option {
	return func(o *options) { o.chain = c }
}

// WithFormat sets the processing format. The input is converted to it.
func WithFormat(rate types.SampleRate, channels types.ChannelCount) Option {
	return func(o *options) { o.sampleRate, o.channels = rate, channels }
}

// WithBufferSize sets the block length in frames.
func WithBufferSize(n types.BufferSize) Option {
	return func(o *options) { o.bufferSize = n }
}

func WithGain(g types.Gain) Option { return func(o *options) { o.gain = g } }
func WithPan(p types.Pan) Option   { return func(o *options) { o.pan = p } }

// WithRealtime paces sinks that do not block on their own, such as files,
// to one block per block duration.
func WithRealtime() Option { return func(o *options) { o.realtime = true } }

// WithAutoStart starts processing as soon as Run is called.
func WithAutoStart() Option { return func(o *options) { o.autoStart = true } }

// WithIdleInterval sets how often a stopped or paused engine checks for
// commands.
func WithIdleInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idle = d
		}
	}
}

func WithChannelCapacity(commands, feedback int) Option {
	return func(o *options) { o.commandCap, o.feedbackCap = commands, feedback }
}
