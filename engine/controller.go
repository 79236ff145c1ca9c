// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/types"
)

// Controller is the control side of an engine. Its methods may be called
// from any goroutine; feedback must be consumed by a single one.
type Controller struct {
	id       uuid.UUID
	commands channel.CommandSender
	feedback channel.FeedbackReceiver
}

// ID is the session id of the engine the controller drives.
func (c *Controller) ID() uuid.UUID                      { return c.id }
func (c *Controller) Commands() channel.CommandSender    { return c.commands }
func (c *Controller) Feedback() channel.FeedbackReceiver { return c.feedback }

// Send blocks while the command queue is full.
func (c *Controller) Send(ctx context.Context, cmd channel.EngineCommand) error {
	return c.commands.Send(ctx, cmd)
}

func (c *Controller) Start(ctx context.Context) error  { return c.Send(ctx, channel.Command(channel.CmdStart)) }
func (c *Controller) Stop(ctx context.Context) error   { return c.Send(ctx, channel.Command(channel.CmdStop)) }
func (c *Controller) Pause(ctx context.Context) error  { return c.Send(ctx, channel.Command(channel.CmdPause)) }
func (c *Controller) Resume(ctx context.Context) error { return c.Send(ctx, channel.Command(channel.CmdResume)) }

func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Send(ctx, channel.Command(channel.CmdShutdown))
}

// SetGain fails with types.ErrInvalidGain for a negative or non-finite
// gain without sending anything.
func (c *Controller) SetGain(ctx context.Context, g types.Gain) error {
	if _, err := types.NewGain(g.Linear()); err != nil {
		return err
	}
	return c.Send(ctx, channel.SetGainCommand(g))
}

func (c *Controller) SetPan(ctx context.Context, p types.Pan) error {
	if !types.IsFinite(p.Value()) {
		return fmt.Errorf("%w: pan %v", types.ErrConfiguration, p.Value())
	}
	return c.Send(ctx, channel.SetPanCommand(p))
}

func (c *Controller) SetEffectParam(ctx context.Context, effect, param uint32, value float32) error {
	if !types.IsFinite(value) {
		return fmt.Errorf("%w: effect %d param %d value %v", types.ErrConfiguration, effect, param, value)
	}
	return c.Send(ctx, channel.SetEffectParamCommand(effect, param, value))
}

func (c *Controller) SetEffectEnabled(ctx context.Context, effect uint32, enabled bool) error {
	return c.Send(ctx, channel.SetEffectEnabledCommand(effect, enabled))
}

// Await consumes feedback until match accepts a message and returns it.
// It fails with types.ErrChannelRecvFailed once the engine has stopped and
// its feedback is drained.
func (c *Controller) Await(ctx context.Context, match func(channel.EngineFeedback) bool) (channel.EngineFeedback, error) {
	for {
		fb, err := c.feedback.Recv(ctx)
		if err != nil {
			return fb, err
		}
		if match(fb) {
			return fb, nil
		}
	}
}

// Close disconnects the controller. A running engine shuts down once it
// has handled the commands already sent.
func (c *Controller) Close() {
	c.commands.Close()
	c.feedback.Close()
}

// IsState matches state change feedback reporting s.
func IsState(s channel.EngineState) func(channel.EngineFeedback) bool {
	return func(fb channel.EngineFeedback) bool {
		return fb.Kind == channel.FbStateChanged && fb.State == s
	}
}
