// SPDX-License-Identifier: EPL-2.0

package config

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/ik5/audeng/channel"
	"github.com/ik5/audeng/engine"
	"github.com/ik5/audeng/types"
)

// Reload is one accepted change of the watched file.
type Reload struct {
	Settings Settings
	Commands []channel.EngineCommand
	// Restart is set when the change needs a new engine to take effect.
	Restart bool
}

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path     string
	current  Settings
	logger   *log.Logger
	debounce time.Duration
}

type WatchOption func(*Watcher)

func WithWatchLogger(l *log.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets how long the watcher waits for a burst of writes to
// settle before reading the file.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher watches path. current is the settings the engine runs with.
func NewWatcher(path string, current Settings, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		current:  current,
		logger:   log.New(io.Discard),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Current returns the last accepted settings. It must not be called while
// Run is active.
func (w *Watcher) Current() Settings { return w.current }

// Run watches the file until ctx is done. Invalid files are logged and
// skipped. Run returns the first error apply returns.
func (w *Watcher) Run(ctx context.Context, apply func(context.Context, Reload) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: config watcher: %w", types.ErrIO, err)
	}
	defer fw.Close()

	// editors replace files, so watch the directory
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("%w: watch %s: %w", types.ErrIO, w.path, err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher", "err", err)

		case <-pending:
			pending = nil
			if err := w.reload(ctx, apply); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context, apply func(context.Context, Reload) error) error {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload skipped", "path", w.path, "err", err)
		return nil
	}
	next, err := cfg.Validate()
	if err != nil {
		w.logger.Warn("config reload rejected", "path", w.path, "err", err)
		return nil
	}

	cmds, restart := Changes(w.current, next)
	w.current = next
	if len(cmds) == 0 && !restart {
		return nil
	}

	w.logger.Info("config reloaded", "path", w.path, "commands", len(cmds), "restart", restart)
	return apply(ctx, Reload{Settings: next, Commands: cmds, Restart: restart})
}

// Watch runs a Watcher for path.
func Watch(ctx context.Context, path string, current Settings, apply func(context.Context, Reload) error, opts ...WatchOption) error {
	return NewWatcher(path, current, opts...).Run(ctx, apply)
}

// Forward returns an apply function that sends reload commands to ctrl.
// Changes that need a restart are logged and otherwise ignored.
func Forward(ctrl *engine.Controller, logger *log.Logger) func(context.Context, Reload) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(ctx context.Context, r Reload) error {
		if r.Restart {
			logger.Warn("config change needs a restart to take full effect")
		}
		for _, cmd := range r.Commands {
			if err := ctrl.Send(ctx, cmd); err != nil {
				return fmt.Errorf("forward %s: %w", cmd, err)
			}
			logger.Debug("config command sent", "cmd", cmd)
		}
		return nil
	}
}
