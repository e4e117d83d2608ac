package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/events"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published domain events",
	}

	var prefetch int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print swipe and interest events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := setupLogging(cfg.LogLevel); err != nil {
				return err
			}
			if cfg.Events.RabbitMQURL == "" {
				return errors.New("no event broker configured (set MATCHME_RABBITMQ_URL)")
			}

			conn, err := events.NewConnection(cfg.Events.RabbitMQURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			consumer := events.NewConsumer(conn, func(_ context.Context, e events.Event) error {
				if asJSON {
					return printJSON(out, e)
				}
				fmt.Fprintf(out, "%s %-20s user=%s %v\n", e.OccurredAt.Local().Format(time.DateTime), e.Type, e.UserID, e.Payload)
				return nil
			}, prefetch)

			if err := consumer.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			consumer.Stop()
			return nil
		},
	}
	tail.Flags().IntVar(&prefetch, "prefetch", 10, "Messages fetched ahead of processing")
	cmd.AddCommand(tail)
	return cmd
}
