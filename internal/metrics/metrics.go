// SPDX-License-Identifier: EPL-2.0

// Package metrics exports engine statistics as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/types"
)

var states = []channel.EngineState{
	channel.StateStopped,
	channel.StateRunning,
	channel.StatePaused,
	channel.StateError,
}

// Recorder implements engine.Recorder on top of a set of collectors that
// carry the session id as a label.
type Recorder struct {
	blocks   prometheus.Counter
	frames   prometheus.Counter
	underrun prometheus.Counter
	dropped  prometheus.Counter
	level    prometheus.Gauge
	state    *prometheus.GaugeVec
}

// New registers the collectors for session on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer, session string) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	labels := prometheus.Labels{"session": session}

	r := &Recorder{
		blocks: f.NewCounter(prometheus.CounterOpts{
			Name:        "audeng_blocks_processed_total",
			Help:        "Total number of audio blocks run through the processing chain",
			ConstLabels: labels,
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Name:        "audeng_frames_processed_total",
			Help:        "Total number of frames written to the output",
			ConstLabels: labels,
		}),
		underrun: f.NewCounter(prometheus.CounterOpts{
			Name:        "audeng_output_underruns_total",
			Help:        "Total number of output underruns reported by the device",
			ConstLabels: labels,
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name:        "audeng_feedback_dropped_total",
			Help:        "Total number of feedback messages dropped because the channel was full",
			ConstLabels: labels,
		}),
		level: f.NewGauge(prometheus.GaugeOpts{
			Name:        "audeng_output_peak_dbfs",
			Help:        "Most recent output peak level in dBFS",
			ConstLabels: labels,
		}),
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "audeng_engine_state",
			Help:        "Current engine state (1 for the active state, 0 otherwise)",
			ConstLabels: labels,
		}, []string{"state"}),
	}
	r.StateChanged(channel.StateStopped)
	r.level.Set(float64(types.SilenceDB))

	return r
}

func (r *Recorder) BlockProcessed(frames int) {
	r.blocks.Inc()
	r.frames.Add(float64(frames))
}

func (r *Recorder) OutputLevel(db types.Decibels) { r.level.Set(float64(db)) }
func (r *Recorder) Underrun()                     { r.underrun.Inc() }
func (r *Recorder) FeedbackDropped()              { r.dropped.Inc() }

// StateChanged sets the gauge of s to 1 and every other state to 0.
func (r *Recorder) StateChanged(s channel.EngineState) {
	for _, st := range states {
		v := 0.0
		if st == s {
			v = 1
		}
		r.state.WithLabelValues(normalizeState(st)).Set(v)
	}
}

func normalizeState(s channel.EngineState) string {
	switch s {
	case channel.StateStopped:
		return "stopped"
	case channel.StateRunning:
		return "running"
	case channel.StatePaused:
		return "paused"
	case channel.StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
