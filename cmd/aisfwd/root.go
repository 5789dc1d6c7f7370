// cmd/aisfwd/root.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/ais-forwarder/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aisfwd",
		Short: "Relay AIS sentences from a TCP source to a UDP destination",
		Long: `aisfwd keeps a persistent TCP connection to an AIS source, forwards every
!AIVDM/!AIVDO sentence as one UDP datagram and notifies when the link
is lost or restored. Without a subcommand it runs the relay.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runRelay,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	config.AddFlags(root.Flags())

	root.AddCommand(newRunCmd(), newEventsCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the relay (default)",
		Args:  cobra.NoArgs,
		RunE:  runRelay,
	}
	config.AddFlags(cmd.Flags())
	return cmd
}
