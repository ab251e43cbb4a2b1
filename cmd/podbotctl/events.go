package main

import (
	"context"
	"fmt"
	"time"

	"podbot-be/internal/config"
	"podbot-be/pkg/events"
	pktNats "podbot-be/pkg/nats"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Work with the session event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow session events published to NATS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		sub, err := pktNats.NewSubscriber(cfg.Nats.URL, cfg.Nats.Stream)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		cc, err := sub.Subscribe(ctx, pktNats.Subject(">"), "", func(_ context.Context, e events.Event) error {
			headerColor.Fprintf(out, "%-24s", e.EventType())
			dimColor.Fprintf(out, " %s ", e.Timestamp().Local().Format(time.TimeOnly))
			fmt.Fprintln(out, e.Payload())
			return nil
		})
		if err != nil {
			return err
		}
		defer cc.Stop()

		dimColor.Fprintf(out, "Listening on %s (Ctrl+C to stop)\n", cfg.Nats.Stream)
		<-ctx.Done()
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
}
