// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/config"
	"github.com/ik5/audeng/endpoint"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/formats"
	"github.com/ik5/audeng/internal/metrics"
	"github.com/ik5/audeng/types"
)

type session struct {
	input    endpoint.InputSource
	output   endpoint.OutputTarget
	settings config.Settings

	// duration stops the engine after this much wall clock time, length
	// after this much input.
	duration    time.Duration
	length      time.Duration
	realtime    bool
	watch       bool
	metricsAddr string
}

type result struct {
	id       uuid.UUID
	position types.TransportPosition
	frames   uint64
	dropped  uint64
}

func (r result) String() string {
	return fmt.Sprintf("%s processed, %s frames, %s feedback dropped",
		r.position, humanize.Comma(int64(r.frames)), humanize.Comma(int64(r.dropped)))
}

// run opens the endpoints, runs one engine to completion next to its
// feedback consumer, the config watcher and the metrics server, and
// reports where the engine stopped.
func (c *cli) run(ctx context.Context, actx *engine.AudioContext, s session) (result, error) {
	src, err := engine.OpenInput(s.input, actx, formats.NewRegistry())
	if err != nil {
		return result{}, fmt.Errorf("open %s: %w", s.input, err)
	}
	if s.length > 0 {
		src = audio.Limit(src, int64(s.length.Seconds()*float64(src.SampleRate())))
	}
	sink, err := engine.OpenOutput(s.output, actx)
	if err != nil {
		return result{}, errors.Join(fmt.Errorf("open %s: %w", s.output, err), src.Close())
	}

	opts, err := s.settings.EngineOptions()
	if err != nil {
		return result{}, errors.Join(err, sink.Close(), src.Close())
	}

	id := uuid.New()
	reg := prometheus.NewRegistry()
	opts = append(opts,
		engine.WithSessionID(id),
		engine.WithLogger(c.logger),
		engine.WithRecorder(metrics.New(reg, id.String())),
		engine.WithAutoStart(),
	)
	if s.realtime {
		opts = append(opts, engine.WithRealtime())
	}

	eng, ctrl, err := engine.New(src, sink, opts...)
	if err != nil {
		return result{}, errors.Join(err, sink.Close(), src.Close())
	}
	defer ctrl.Close()

	c.logger.Info("engine starting", "session", id, "input", s.input, "output", s.output, "format", eng.Format())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return eng.Run(gctx)
	})
	g.Go(func() error { return c.consumeFeedback(gctx, ctrl) })

	if s.duration > 0 {
		g.Go(func() error {
			t := time.NewTimer(s.duration)
			defer t.Stop()
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
			}
			if err := ctrl.Shutdown(gctx); err != nil && !isGone(err) {
				return err
			}
			return nil
		})
	}

	if s.watch {
		g.Go(func() error {
			return config.Watch(gctx, c.configFile, s.settings, config.Forward(ctrl, c.logger),
				config.WithWatchLogger(c.logger))
		})
	}

	if s.metricsAddr != "" {
		srv := &http.Server{
			Addr:              s.metricsAddr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			c.logger.Info("serving metrics", "addr", s.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	res := result{
		id:       id,
		position: eng.TransportPosition(),
		frames:   uint64(eng.Position()),
		dropped:  eng.DroppedFeedback(),
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// interrupted by the user
		err = nil
	}
	c.logger.Info("engine finished", "session", id, "position", res.position, "err", err)

	return res, err
}

func (c *cli) consumeFeedback(ctx context.Context, ctrl *engine.Controller) error {
	var lastPosition time.Time
	for {
		fb, err := ctrl.Feedback().Recv(ctx)
		if err != nil {
			if isGone(err) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch fb.Kind {
		case channel.FbStateChanged:
			c.logger.Info("state changed", "state", fb.State)
		case channel.FbUnderrun:
			c.logger.Warn("output underrun")
		case channel.FbError:
			c.logger.Error("engine error", "msg", fb.Message)
		case channel.FbLevels:
			if fb.OutputDB.IsClipping() {
				c.logger.Warn("output clipping", "level", fb.OutputDB)
			}
		case channel.FbPosition:
			if time.Since(lastPosition) >= time.Second {
				lastPosition = time.Now()
				c.logger.Debug("position", "at", fb.Position)
			}
		}
	}
}

func isGone(err error) bool {
	return errors.Is(err, types.ErrChannelSendFailed) || errors.Is(err, types.ErrChannelRecvFailed)
}
