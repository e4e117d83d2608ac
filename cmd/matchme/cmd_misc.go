package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

func newConversationsCmd(open opener) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List your conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.pagination()
			if err != nil {
				return err
			}
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Session(cmd.Context())
			if err != nil {
				return err
			}
			page, err := app.Conversations.List(cmd.Context(), sess, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			items := page.Items()
			if asJSON {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No conversations.")
				return nil
			}
			fmt.Fprintf(out, "%-20s %-6s %-19s %s\n", "WITH", "UNREAD", "UPDATED", "LAST MESSAGE")
			for _, c := range items {
				fmt.Fprintf(out, "%-20s %-6d %-19s %s\n", c.Recipient.DisplayName, c.LastChat.UnreadCount, timestamp(c.UpdatedAt), c.LastChat.Message)
			}
			printCursor(out, page.Cursor)
			return nil
		},
	}
	pf.bind(cmd)
	return cmd
}

func newGeocodeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <lat> <lng>",
		Short: "Look up the place name of a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: lat %q", domain.ErrInvalidInput, args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: lng %q", domain.ErrInvalidInput, args[1])
			}
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Geocoder == nil {
				return errors.New("no geocoding key configured (set GOOGLE_MAP_API)")
			}
			place := app.Geocoder.ReverseGeocode(cmd.Context(), domain.Geo{Lat: lat, Lng: lng})
			if place == "" {
				place = "(unknown)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), place)
			return nil
		},
	}
}

// timestamp formats t for listings
func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
