// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ik5/audeng/config"
	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/internal/logging"
)

// Version is set at build time.
var Version = "dev"

type cli struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	logLevel   string
	hostName   string

	logger     *log.Logger
	newManager func(*log.Logger) (*device.Manager, error)
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:    out,
		errOut: errOut,
		logger: logging.Discard(),
		newManager: func(l *log.Logger) (*device.Manager, error) {
			return device.NewSystemManager(device.WithLogger(l))
		},
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return newCLI(out, errOut).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "audeng",
		Short:        "Real-time audio engine",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.setupLogger()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configFile, "config", "c", "", "config file (yaml)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level, overrides AUDENG_LOG_LEVEL")
	pf.StringVar(&c.hostName, "host", "", "audio host to use")

	root.AddCommand(c.playCmd(), c.renderCmd(), c.devicesCmd(), c.infoCmd(), c.configCmd())
	return root
}

func (c *cli) setupLogger() error {
	lc, err := logging.FromEnv()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		lc.Level = c.logLevel
	}

	l, err := logging.New(lc, c.errOut)
	if err != nil {
		return err
	}
	c.logger = l
	return nil
}

func (c *cli) settings() (config.Config, config.Settings, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return config.Config{}, config.Settings{}, err
	}
	s, err := cfg.Validate()
	if err != nil {
		return config.Config{}, config.Settings{}, err
	}
	return cfg, s, nil
}

func (c *cli) manager() (*device.Manager, error) {
	m, err := c.newManager(c.logger)
	if err != nil {
		return nil, err
	}
	if c.hostName != "" {
		if err := m.SelectHost(c.hostName); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, m.HostNames())
		}
	}
	return m, nil
}
