// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process logger from the environment.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/ik5/audeng/types"
)

// Config is read from AUDENG_LOG_* variables.
type Config struct {
	Level     string `env:"AUDENG_LOG_LEVEL"     envDefault:"info"`
	Format    string `env:"AUDENG_LOG_FORMAT"    envDefault:"text"`
	Caller    bool   `env:"AUDENG_LOG_CALLER"    envDefault:"false"`
	Timestamp bool   `env:"AUDENG_LOG_TIMESTAMP" envDefault:"true"`
}

// FromEnv parses Config from the process environment.
func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: log environment: %w", types.ErrConfiguration, err)
	}
	return cfg, nil
}

func parseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return 0, fmt.Errorf("%w: unknown log format %q", types.ErrConfiguration, s)
}

// New returns a logger writing to w. A nil w writes to stderr.
func New(cfg Config, w io.Writer) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	formatter, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportCaller:    cfg.Caller,
		ReportTimestamp: cfg.Timestamp,
		TimeFormat:      time.RFC3339,
		Prefix:          "audeng",
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
