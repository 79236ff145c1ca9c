// SPDX-License-Identifier: EPL-2.0

// Package engine runs the processing loop: it pulls blocks from an input
// source, conforms them to the engine format, runs the effect chain and the
// master gain and pan, and hands the result to a Sink.
//
// The engine is driven from the outside through a Controller. Commands
// travel over a non-blocking channel that the loop drains once per block,
// and levels, position, state changes and errors come back on a feedback
// channel. The loop never blocks on either channel; feedback the control
// side is too slow to collect is dropped and counted.
//
//	eng, ctl, err := engine.New(src, sink, engine.WithAutoStart())
//	go eng.Run(ctx)
//	ctl.SetGain(ctx, types.GainFromDB(-6))
package engine
