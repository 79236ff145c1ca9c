// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/types"
)

// Recorder receives engine statistics. Implementations are called from the
// processing loop and must not block.
type Recorder interface {
	BlockProcessed(frames int)
	OutputLevel(db types.Decibels)
	Underrun()
	FeedbackDropped()
	StateChanged(s channel.EngineState)
}

type nopRecorder struct{}

func (nopRecorder) BlockProcessed(int)               {}
func (nopRecorder) OutputLevel(types.Decibels)       {}
func (nopRecorder) Underrun()                        {}
func (nopRecorder) FeedbackDropped()                 {}
func (nopRecorder) StateChanged(channel.EngineState) {}
