// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng/device"
	"github.com/ik5/audeng/types"
)

func (c *cli) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the audio devices of the selected host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.manager()
			if err != nil {
				return err
			}
			return listDevices(cmd.OutOrStdout(), m)
		},
	}
}

func listDevices(w io.Writer, m *device.Manager) error {
	inputs, err := m.InputDevices()
	if err != nil {
		return err
	}
	outputs, err := m.OutputDevices()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "host: %s (available: %s)\n\n", m.HostName(), strings.Join(m.HostNames(), ", "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIRECTION\tID\tNAME\tCHANNELS\tRATES\tDEFAULT")
	for _, d := range slices.Concat(inputs, outputs) {
		def := ""
		if d.IsDefault {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID.Type(), d.ID.ID(), d.Name, d.MaxChannels, rates(d.SupportedRates), def)
	}
	if len(inputs)+len(outputs) == 0 {
		fmt.Fprintln(tw, "-\t-\tno devices\t-\t-\t-")
	}
	return tw.Flush()
}

func rates(rs []types.SampleRate) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("%gk", float64(r)/1000)
	}
	return strings.Join(parts, ",")
}
