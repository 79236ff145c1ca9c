// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/buffer"
	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/dsp"
	"github.com/ik5/audeng/types"
)

const masterID dsp.EffectID = math.MaxUint32

var (
	unknownTarget = channel.ErrorFeedback("unknown effect or parameter")
	invalidValue  = channel.ErrorFeedback("invalid parameter value")
)

// Engine moves audio from a source to a sink, one block at a time. An
// engine runs once; Run closes the source and the sink when it returns.
type Engine struct {
	id     uuid.UUID
	logger *log.Logger
	rec    Recorder

	src  audio.Source
	sink Sink

	sampleRate types.SampleRate
	channels   types.ChannelCount
	frames     int
	block      *buffer.RealtimeBuffer[float32]

	chain    *dsp.Chain
	master   *dsp.GainEffect
	pan      *dsp.PanEffect
	inMeter  *dsp.PeakMeter
	outMeter *dsp.PeakMeter

	commands channel.CommandReceiver
	feedback channel.FeedbackSender
	handleFn func(channel.EngineCommand)

	limiter   *rate.Limiter
	autoStart bool
	idle      time.Duration

	transport     transporter
	underrunCount underrunCounter
	lastUnderruns uint64

	state    atomic.Uint32
	position atomic.Uint64
	dropped  atomic.Uint64
	ran      atomic.Bool
	shutdown bool
	err      error
}

// New builds an engine reading src and writing sink, and the controller that
// drives it. src is converted to the engine format.
func New(src audio.Source, sink Sink, opts ...Option) (*Engine, *Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if src == nil || sink == nil {
		return nil, nil, fmt.Errorf("%w: engine needs a source and a sink", types.ErrConfiguration)
	}
	sampleRate, err := types.ParseSampleRate(uint32(o.sampleRate))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	channels, err := types.ParseChannelCount(uint32(o.channels))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	if _, err := types.NewBufferSize(uint32(o.bufferSize)); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}

	chain := o.chain
	if chain == nil {
		chain = dsp.NewChain()
	}
	chain.Initialize(sampleRate, channels)

	master := dsp.NewGainEffectWith(masterID, o.gain)
	master.Initialize(sampleRate, channels)
	pan := dsp.NewPanEffectWith(masterID, o.pan)
	pan.Initialize(sampleRate, channels)

	cmdTx, cmdRx := channel.NewControlChannel[channel.EngineCommand](o.commandCap)
	fbTx, fbRx := channel.NewFeedbackChannel[channel.EngineFeedback](o.feedbackCap)

	id := o.id
	if id == uuid.Nil {
		id = uuid.New()
	}
	e := &Engine{
		id:         id,
		logger:     o.logger.With("session", id.String()),
		rec:        o.recorder,
		src:        audio.Conform(src, int(sampleRate), channels.Count()),
		sink:       sink,
		sampleRate: sampleRate,
		channels:   channels,
		frames:     o.bufferSize.Frames(),
		block:      buffer.NewSampleBuffer(o.bufferSize, channels),
		chain:      chain,
		master:     master,
		pan:        pan,
		inMeter:    dsp.NewPeakMeter(1.5),
		outMeter:   dsp.NewPeakMeter(1.5),
		commands:   cmdRx,
		feedback:   fbTx,
		autoStart:  o.autoStart,
		idle:       o.idle,
	}
	e.handleFn = e.handle

	if t, ok := sink.(transporter); ok {
		e.transport = t
	}
	if u, ok := sink.(underrunCounter); ok {
		e.underrunCount = u
	}
	p, isPaced := sink.(paced)
	if o.realtime && !(isPaced && p.Paced()) {
		blocksPerSecond := float64(sampleRate) / float64(e.frames)
		e.limiter = rate.NewLimiter(rate.Limit(blocksPerSecond), 1)
	}

	return e, &Controller{id: id, commands: cmdTx, feedback: fbRx}, nil
}

func (e *Engine) ID() uuid.UUID              { return e.id }
func (e *Engine) Chain() *dsp.Chain          { return e.chain }
func (e *Engine) State() channel.EngineState { return channel.EngineState(e.state.Load()) }
func (e *Engine) Position() types.Timestamp  { return types.Timestamp(e.position.Load()) }
func (e *Engine) DroppedFeedback() uint64    { return e.dropped.Load() }
func (e *Engine) BlockFrames() int           { return e.frames }

func (e *Engine) Format() types.AudioFormat {
	return types.AudioFormat{SampleRate: e.sampleRate, Channels: e.channels, BitDepth: types.F32}
}

func (e *Engine) TransportPosition() types.TransportPosition {
	return types.TransportFromTimestamp(e.Position(), e.sampleRate)
}

// Run processes until the input ends, a Shutdown command arrives, the
// controller is closed or ctx is done. The first two return nil. A failure
// while processing puts the engine in the error state and is returned.
func (e *Engine) Run(ctx context.Context) (err error) {
	if !e.ran.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: engine has already run", types.ErrPipelineState)
	}
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	e.logger.Info("engine ready", "format", e.Format(), "block", e.frames)
	if e.autoStart {
		e.setState(channel.StateRunning)
	}

	idle := time.NewTicker(e.idle)
	defer idle.Stop()

	for {
		e.commands.ProcessAll(e.handleFn)

		if e.err != nil {
			return e.fail(e.err)
		}
		if e.shutdown || (e.commands.IsDisconnected() && e.commands.IsEmpty()) {
			e.logger.Info("engine shut down", "position", e.TransportPosition())
			e.setState(channel.StateStopped)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.State() != channel.StateRunning {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-idle.C:
			}
			continue
		}

		if err := e.cycle(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				e.finish(ctx)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return e.fail(err)
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
		}
	}
}

// cycle processes one block.
func (e *Engine) cycle(ctx context.Context) error {
	buf := e.block.Full()

	n, err := audio.ReadFull(e.src, buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("read input: %w", err)
	}
	clear(buf[n:])

	in := e.inMeter.Process(buf)
	e.chain.Process(buf, e.channels)
	e.master.Process(buf, e.channels)
	e.pan.Process(buf, e.channels)
	out := e.outMeter.Process(buf)

	if err := e.sink.Write(ctx, buf); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	pos := e.position.Add(uint64(e.frames))
	e.rec.BlockProcessed(e.frames)
	e.rec.OutputLevel(out)
	e.send(channel.LevelsFeedback(in, out))
	e.send(channel.PositionFeedback(types.TransportFromTimestamp(types.Timestamp(pos), e.sampleRate)))

	if e.underrunCount != nil {
		if u := e.underrunCount.Underruns(); u > e.lastUnderruns {
			for range u - e.lastUnderruns {
				e.rec.Underrun()
			}
			e.lastUnderruns = u
			e.send(channel.UnderrunFeedback())
		}
	}

	return nil
}

func (e *Engine) handle(cmd channel.EngineCommand) {
	state := e.State()

	switch cmd.Kind {
	case channel.CmdStart:
		if state == channel.StateStopped || state == channel.StatePaused {
			e.setState(channel.StateRunning)
		}
	case channel.CmdResume:
		if state == channel.StatePaused {
			e.setState(channel.StateRunning)
		}
	case channel.CmdPause:
		if state == channel.StateRunning {
			e.setState(channel.StatePaused)
		}
	case channel.CmdStop:
		e.position.Store(0)
		e.chain.Reset()
		e.inMeter.Reset()
		e.outMeter.Reset()
		e.setState(channel.StateStopped)
	case channel.CmdSetGain:
		if cmd.Gain < 0 || !types.IsFinite(cmd.Gain.Linear()) {
			e.send(invalidValue)
			return
		}
		e.master.SetGainDB(cmd.Gain.DB())
	case channel.CmdSetPan:
		if !types.IsFinite(cmd.Pan.Value()) {
			e.send(invalidValue)
			return
		}
		e.pan.SetPan(types.NewPan(cmd.Pan.Value()))
	case channel.CmdSetEffectParam:
		if !types.IsFinite(cmd.Value) {
			e.send(invalidValue)
			return
		}
		if !e.chain.SetParameter(dsp.EffectID(cmd.EffectID), dsp.ParamID(cmd.ParamID), dsp.FloatValue(cmd.Value)) {
			e.send(unknownTarget)
		}
	case channel.CmdSetEffectEnabled:
		if !e.chain.SetEnabled(dsp.EffectID(cmd.EffectID), cmd.Enabled) {
			e.send(unknownTarget)
		}
	case channel.CmdShutdown:
		e.shutdown = true
	}
}

func (e *Engine) setState(s channel.EngineState) {
	old := channel.EngineState(e.state.Swap(uint32(s)))
	if old == s {
		return
	}

	if e.transport != nil && s != channel.StateError {
		var err error
		if s == channel.StateRunning {
			err = e.transport.Start()
		} else {
			err = e.transport.Pause()
		}
		if err != nil && e.err == nil {
			e.err = fmt.Errorf("sink %s: %w", s, err)
		}
	}

	e.rec.StateChanged(s)
	e.send(channel.StateFeedback(s))
	e.logger.Debug("state changed", "from", old, "to", s)
}

// fail moves the engine to the error state and reports err.
func (e *Engine) fail(err error) error {
	e.logger.Error("engine failed", "err", err, "position", e.TransportPosition())
	e.send(channel.ErrorFeedback(err.Error()))
	e.setState(channel.StateError)
	return err
}

// finish lets a paced sink play out what it holds once the input has
// ended.
func (e *Engine) finish(ctx context.Context) {
	e.logger.Info("input finished", "position", e.TransportPosition())

	if d, ok := e.sink.(interface{ Drain(context.Context) error }); ok {
		if err := d.Drain(ctx); err != nil {
			e.logger.Warn("sink drain interrupted", "err", err)
		}
	}
	e.setState(channel.StateStopped)
}

func (e *Engine) send(fb channel.EngineFeedback) {
	if !e.feedback.TrySend(fb) {
		e.dropped.Add(1)
		e.rec.FeedbackDropped()
	}
}

func (e *Engine) close() error {
	e.commands.Close()
	e.feedback.Close()

	if err := errors.Join(e.src.Close(), e.sink.Close()); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	e.logger.Debug("engine closed", "dropped_feedback", e.dropped.Load())

	return nil
}
