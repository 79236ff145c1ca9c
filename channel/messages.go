// SPDX-License-Identifier: EPL-2.0

package channel

import (
	"fmt"

	"github.com/ik5/audeng/types"
)

// CommandKind selects what an EngineCommand asks for.
type CommandKind uint8

const (
	CmdStart CommandKind = iota
	CmdStop
	CmdPause
	CmdResume
	CmdSetGain
	CmdSetPan
	CmdSetEffectParam
	CmdSetEffectEnabled
	CmdShutdown
)

var commandNames = [...]string{
	CmdStart:            "Start",
	CmdStop:             "Stop",
	CmdPause:            "Pause",
	CmdResume:           "Resume",
	CmdSetGain:          "SetGain",
	CmdSetPan:           "SetPan",
	CmdSetEffectParam:   "SetEffectParam",
	CmdSetEffectEnabled: "SetEffectEnabled",
	CmdShutdown:         "Shutdown",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

// EngineCommand is sent from the control side to the engine. It is a plain
// value so sending and receiving it does not allocate. Only the fields that
// belong to Kind are meaningful.
type EngineCommand struct {
	Kind CommandKind

	Gain types.Gain
	Pan  types.Pan

	EffectID uint32
	ParamID  uint32
	Value    float32
	Enabled  bool
}

func Command(kind CommandKind) EngineCommand { return EngineCommand{Kind: kind} }

func SetGainCommand(g types.Gain) EngineCommand {
	return EngineCommand{Kind: CmdSetGain, Gain: g}
}

func SetPanCommand(p types.Pan) EngineCommand {
	return EngineCommand{Kind: CmdSetPan, Pan: p}
}

func SetEffectParamCommand(effect, param uint32, value float32) EngineCommand {
	return EngineCommand{Kind: CmdSetEffectParam, EffectID: effect, ParamID: param, Value: value}
}

func SetEffectEnabledCommand(effect uint32, enabled bool) EngineCommand {
	return EngineCommand{Kind: CmdSetEffectEnabled, EffectID: effect, Enabled: enabled}
}

func (c EngineCommand) String() string {
	switch c.Kind {
	case CmdSetGain:
		return fmt.Sprintf("SetGain(%s)", c.Gain)
	case CmdSetPan:
		return fmt.Sprintf("SetPan(%s)", c.Pan)
	case CmdSetEffectParam:
		return fmt.Sprintf("SetEffectParam(effect=%d, param=%d, value=%g)", c.EffectID, c.ParamID, c.Value)
	case CmdSetEffectEnabled:
		return fmt.Sprintf("SetEffectEnabled(effect=%d, enabled=%t)", c.EffectID, c.Enabled)
	}
	return c.Kind.String()
}

// EngineState is the lifecycle state of an engine.
type EngineState uint8

const (
	StateStopped EngineState = iota
	StateRunning
	StatePaused
	StateError
)

func (s EngineState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateError:
		return "Error"
	}
	return fmt.Sprintf("EngineState(%d)", uint8(s))
}

// FeedbackKind selects what an EngineFeedback reports.
type FeedbackKind uint8

const (
	FbLevels FeedbackKind = iota
	FbPosition
	FbStateChanged
	FbUnderrun
	FbError
)

// EngineFeedback is sent from the engine to the control side.
type EngineFeedback struct {
	Kind FeedbackKind

	InputDB  types.Decibels
	OutputDB types.Decibels
	Position types.TransportPosition
	State    EngineState
	Message  string
}

func LevelsFeedback(in, out types.Decibels) EngineFeedback {
	return EngineFeedback{Kind: FbLevels, InputDB: in, OutputDB: out}
}

func PositionFeedback(p types.TransportPosition) EngineFeedback {
	return EngineFeedback{Kind: FbPosition, Position: p}
}

func StateFeedback(s EngineState) EngineFeedback {
	return EngineFeedback{Kind: FbStateChanged, State: s}
}

func UnderrunFeedback() EngineFeedback { return EngineFeedback{Kind: FbUnderrun} }

func ErrorFeedback(msg string) EngineFeedback {
	return EngineFeedback{Kind: FbError, Message: msg}
}

func (f EngineFeedback) String() string {
	switch f.Kind {
	case FbLevels:
		return fmt.Sprintf("Levels(in=%s, out=%s)", f.InputDB, f.OutputDB)
	case FbPosition:
		return fmt.Sprintf("Position(%s)", f.Position)
	case FbStateChanged:
		return fmt.Sprintf("StateChanged(%s)", f.State)
	case FbUnderrun:
		return "Underrun"
	case FbError:
		return fmt.Sprintf("Error(%s)", f.Message)
	}
	return fmt.Sprintf("FeedbackKind(%d)", uint8(f.Kind))
}

// Command channels as the engine uses them.
type (
	CommandSender    = ControlSender[EngineCommand]
	CommandReceiver  = RealtimeReceiver[EngineCommand]
	FeedbackSender   = RealtimeSender[EngineFeedback]
	FeedbackReceiver = ControlReceiver[EngineFeedback]
)
