// cmd/aisfwd/events.go
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tamzrod/ais-forwarder/internal/config"
	"github.com/tamzrod/ais-forwarder/internal/journal"
	"github.com/tamzrod/ais-forwarder/internal/notify"
)

func newEventsCmd() *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent link notifications from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				cfg, err := config.Load(cfgFile, nil)
				if err != nil {
					return err
				}
				path = cfg.Journal.Path
			}
			if path == "" {
				return errors.New("no journal: pass --journal or set journal.path")
			}

			events, err := journal.List(path, limit)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "journal", "", "journal file (default: journal.path from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of most recent events, 0 for all")
	return cmd
}

var (
	eventColor = map[string]*color.Color{
		notify.KindStarted.String():  color.New(color.FgGreen),
		notify.KindRestored.String(): color.New(color.FgGreen),
		notify.KindLost.String():     color.New(color.FgRed, color.Bold),
		notify.KindFailed.String():   color.New(color.FgRed),
	}
	dim = color.New(color.Faint)
)

func printEvents(w io.Writer, events []notify.Notification) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}
	for _, n := range events {
		c, ok := eventColor[n.Event]
		if !ok {
			c = color.New(color.Reset)
		}
		fmt.Fprintf(w, "%s  %s  %s",
			n.At.Local().Format(time.DateTime),
			c.Sprintf("%-8s", n.Event),
			n.Message,
		)
		if n.Session != "" {
			fmt.Fprint(w, dim.Sprintf("  [%s]", n.Session))
		}
		fmt.Fprintln(w)
	}
}
