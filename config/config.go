// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings from a YAML file and AUDENG_
// environment variables, and turns them into engine options.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ik5/audeng/types"
)

const envPrefix = "AUDENG"

// Config is the raw file layout. Validate turns it into Settings.
type Config struct {
	Engine  EngineConfig   `mapstructure:"engine"  yaml:"engine"`
	Effects []EffectConfig `mapstructure:"effects" yaml:"effects"`
	Metrics MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

type EngineConfig struct {
	SampleRate       uint32        `mapstructure:"sample_rate"       yaml:"sample_rate"`
	Channels         uint32        `mapstructure:"channels"          yaml:"channels"`
	BufferSize       uint32        `mapstructure:"buffer_size"       yaml:"buffer_size"`
	GainDB           float32       `mapstructure:"gain_db"           yaml:"gain_db"`
	Pan              float32       `mapstructure:"pan"               yaml:"pan"`
	Realtime         bool          `mapstructure:"realtime"          yaml:"realtime"`
	IdleInterval     time.Duration `mapstructure:"idle_interval"     yaml:"idle_interval"`
	CommandCapacity  int           `mapstructure:"command_capacity"  yaml:"command_capacity"`
	FeedbackCapacity int           `mapstructure:"feedback_capacity" yaml:"feedback_capacity"`
}

// EffectConfig describes one chain entry. Type is "gain", "pan" or a filter
// name accepted by dsp.ParseFilterType. A zero ID is replaced by the
// entry's position, starting at 1.
type EffectConfig struct {
	ID        uint32  `mapstructure:"id"        yaml:"id"`
	Type      string  `mapstructure:"type"      yaml:"type"`
	Bypass    bool    `mapstructure:"bypass"    yaml:"bypass,omitempty"`
	GainDB    float32 `mapstructure:"gain_db"   yaml:"gain_db,omitempty"`
	Pan       float32 `mapstructure:"pan"       yaml:"pan,omitempty"`
	Frequency float32 `mapstructure:"frequency" yaml:"frequency,omitempty"`
	Q         float32 `mapstructure:"q"         yaml:"q,omitempty"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			SampleRate:       uint32(types.DefaultSampleRate),
			Channels:         uint32(types.DefaultChannelCount.Count()),
			BufferSize:       uint32(types.DefaultBufferSize),
			IdleInterval:     5 * time.Millisecond,
			CommandCapacity:  64,
			FeedbackCapacity: 256,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("engine.sample_rate", d.Engine.SampleRate)
	v.SetDefault("engine.channels", d.Engine.Channels)
	v.SetDefault("engine.buffer_size", d.Engine.BufferSize)
	v.SetDefault("engine.gain_db", d.Engine.GainDB)
	v.SetDefault("engine.pan", d.Engine.Pan)
	v.SetDefault("engine.realtime", d.Engine.Realtime)
	v.SetDefault("engine.idle_interval", d.Engine.IdleInterval)
	v.SetDefault("engine.command_capacity", d.Engine.CommandCapacity)
	v.SetDefault("engine.feedback_capacity", d.Engine.FeedbackCapacity)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// NewViper returns a viper instance with defaults and AUDENG_ environment
// bindings, such as AUDENG_ENGINE_SAMPLE_RATE for engine.sample_rate.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

// Load reads path, if not empty, on top of the defaults and the environment.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: config %s: %w", types.ErrFileNotFound, path, err)
			}
			return Config{}, fmt.Errorf("%w: read %s: %w", types.ErrConfiguration, path, err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode: %w", types.ErrConfiguration, err)
	}
	return cfg, nil
}
