// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/types"
)

// ChainSource runs a Chain over everything read from src.
type ChainSource struct {
	src      audio.Source
	chain    *Chain
	channels types.ChannelCount
}

// NewChainSource initializes chain with the source format.
func NewChainSource(src audio.Source, chain *Chain) (*ChainSource, error) {
	rate, err := types.ParseSampleRate(uint32(src.SampleRate()))
	if err != nil {
		return nil, fmt.Errorf("chain source: %w", err)
	}
	channels, err := types.ParseChannelCount(uint32(src.Channels()))
	if err != nil {
		return nil, fmt.Errorf("chain source: %w", err)
	}

	chain.Initialize(rate, channels)

	return &ChainSource{src: src, chain: chain, channels: channels}, nil
}

func (s *ChainSource) SampleRate() int { return s.src.SampleRate() }
func (s *ChainSource) Channels() int   { return s.src.Channels() }
func (s *ChainSource) BufSize() int    { return s.src.BufSize() }
func (s *ChainSource) Chain() *Chain   { return s.chain }

func (s *ChainSource) ReadSamples(dst []float32) (int, error) {
	n, err := s.src.ReadSamples(dst)
	if n > 0 {
		s.chain.Process(dst[:n], s.channels)
	}
	return n, err
}

func (s *ChainSource) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
