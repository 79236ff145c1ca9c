// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ik5/audeng/types"
)

// Host enumerates devices and opens streams on them.
type Host interface {
	Name() string
	InputDevices() ([]types.DeviceInfo, error)
	OutputDevices() ([]types.DeviceInfo, error)
	OpenInput(id types.DeviceID, cfg StreamConfig) (*InputStream, error)
	OpenOutput(id types.DeviceID, cfg StreamConfig) (*OutputStream, error)
}

type options struct {
	logger       *log.Logger
	readyTimeout time.Duration
}

type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReadyTimeout bounds how long a host waits for the audio system to come
// up. The default is five seconds.
func WithReadyTimeout(d time.Duration) Option {
	return func(o *options) { o.readyTimeout = d }
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard), readyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Manager selects one of several hosts and answers device queries against
// it.
type Manager struct {
	mu      sync.RWMutex
	hosts   []Host
	current Host
}

// NewManager uses the first host as the default.
func NewManager(hosts ...Host) (*Manager, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: no audio host available", types.ErrDeviceAccess)
	}
	return &Manager{hosts: slices.Clone(hosts), current: hosts[0]}, nil
}

// NewSystemManager manages the system audio host.
func NewSystemManager(opts ...Option) (*Manager, error) {
	return NewManager(NewOtoHost(opts...))
}

func (m *Manager) Host() Host {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) HostName() string { return m.Host().Name() }

func (m *Manager) HostNames() []string {
	names := make([]string, len(m.hosts))
	for i, h := range m.hosts {
		names[i] = h.Name()
	}
	return names
}

// SelectHost switches to the host called name.
func (m *Manager) SelectHost(name string) error {
	i := slices.IndexFunc(m.hosts, func(h Host) bool { return h.Name() == name })
	if i < 0 {
		return fmt.Errorf("%w: host %q", types.ErrDeviceNotFound, name)
	}

	m.mu.Lock()
	m.current = m.hosts[i]
	m.mu.Unlock()

	return nil
}

func (m *Manager) InputDevices() ([]types.DeviceInfo, error) {
	devs, err := m.Host().InputDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate input devices: %w", types.ErrDeviceAccess, err)
	}
	return devs, nil
}

func (m *Manager) OutputDevices() ([]types.DeviceInfo, error) {
	devs, err := m.Host().OutputDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate output devices: %w", types.ErrDeviceAccess, err)
	}
	return devs, nil
}

// DefaultInput returns the device the host marks as default, or its first
// input device.
func (m *Manager) DefaultInput() (types.DeviceInfo, error) {
	devs, err := m.InputDevices()
	if err != nil {
		return types.DeviceInfo{}, err
	}
	return pickDefault(devs, "no input device available")
}

func (m *Manager) DefaultOutput() (types.DeviceInfo, error) {
	devs, err := m.OutputDevices()
	if err != nil {
		return types.DeviceInfo{}, err
	}
	return pickDefault(devs, "no output device available")
}

// Find looks id up among the devices of its direction.
func (m *Manager) Find(id types.DeviceID) (types.DeviceInfo, error) {
	list := m.OutputDevices
	if id.IsInput() {
		list = m.InputDevices
	}

	devs, err := list()
	if err != nil {
		return types.DeviceInfo{}, err
	}
	return find(devs, id)
}

func (m *Manager) OpenInput(id types.DeviceID, cfg StreamConfig) (*InputStream, error) {
	return m.Host().OpenInput(id, cfg)
}

func (m *Manager) OpenOutput(id types.DeviceID, cfg StreamConfig) (*OutputStream, error) {
	return m.Host().OpenOutput(id, cfg)
}

func pickDefault(devs []types.DeviceInfo, reason string) (types.DeviceInfo, error) {
	if len(devs) == 0 {
		return types.DeviceInfo{}, fmt.Errorf("%w: %s", types.ErrDeviceNotFound, reason)
	}
	if i := slices.IndexFunc(devs, func(d types.DeviceInfo) bool { return d.IsDefault }); i >= 0 {
		return devs[i], nil
	}
	return devs[0], nil
}

// checkFormat rejects configurations info cannot run.
func checkFormat(info types.DeviceInfo, cfg StreamConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !info.Supports(cfg.Format()) {
		return &types.MismatchError{
			Kind:     types.ErrFormatMismatch,
			Expected: cfg.Format().String(),
			Actual:   "no compatible configuration on " + info.Name,
		}
	}
	return nil
}
