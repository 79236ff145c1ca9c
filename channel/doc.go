// SPDX-License-Identifier: EPL-2.0

// Package channel carries messages between the control side of the program
// and the real-time processing loop.
//
// Two directions exist and each end only exposes what is safe for the
// goroutine that owns it:
//
//	NewControlChannel   ControlSender  -> RealtimeReceiver (commands)
//	NewFeedbackChannel  RealtimeSender -> ControlReceiver  (levels, state)
//
// Real-time ends never block. Either end can be closed, after which the
// other end observes the disconnection: sends fail with
// types.ErrChannelSendFailed and, once buffered messages are drained,
// receives fail with types.ErrChannelRecvFailed.
package channel
