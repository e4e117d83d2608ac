package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/form"
	"github.com/felixgeelhaar/matchme/internal/match"
)

// pageFlags binds --page and --limit
type pageFlags struct {
	page, limit int
}

func (f *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number starting at 1")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Page size (default: 10)")
}

func (f *pageFlags) pagination() (domain.Pagination, error) {
	p := domain.Pagination{Page: f.page, Limit: f.limit}
	return p, p.Validate()
}

func newCandidateCmd(open opener) *cobra.Command {
	var accept, reject bool
	cmd := &cobra.Command{
		Use:   "candidate",
		Short: "Show the current candidate, optionally deciding on it",
		Long: `Show the current match candidate. When none is pending the server is
asked to provision candidates once.

With --accept or --reject the shown candidate is swiped right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if accept && reject {
				return errors.New("--accept and --reject are mutually exclusive")
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
			out := cmd.OutOrStdout()

			v := match.NewViewer(app.Matches, sess)
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			c := v.Current()
			if !accept && !reject {
				if asJSON {
					return printJSON(out, toMatchView(c))
				}
				printMatch(out, c)
				return nil
			}

			printMatch(out, c)
			outcome, err := v.Decide(cmd.Context(), domain.Decision(accept))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s %s.\n", decisionVerb(outcome.Decision), outcome.MatchID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "Accept the candidate")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the candidate")
	return cmd
}

func newOverviewCmd(open opener) *cobra.Command {
	var pf pageFlags
	var filter string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the candidate, likes and accepted matches at once",
		Long: `Fetch the three match streams concurrently. A stream that fails is
reported on its own; the others are still shown. --page and --limit apply
to the stream named by --filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.pagination()
			if err != nil {
				return err
			}
			status, err := form.ParseFilter(url.Values{"filter": {filter}})
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
			o, err := app.Matches.Overview(cmd.Context(), sess, status, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				type stream struct {
					Matches []matchView `json:"matches"`
					Error   string      `json:"error,omitempty"`
				}
				res := map[string]stream{}
				for _, st := range []domain.MatchStatus{domain.MatchStatusCandidate, domain.MatchStatusLikes, domain.MatchStatusAccepted} {
					r := o.Stream(st)
					s := stream{Matches: []matchView{}}
					if r.Err != nil {
						s.Error = r.Err.Error()
					}
					for _, c := range r.Value.Items() {
						s.Matches = append(s.Matches, toMatchView(c))
					}
					res[string(st)] = s
				}
				return printJSON(out, res)
			}

			fmt.Fprintln(out, "Candidate")
			fmt.Fprintln(out, "---------")
			switch c := o.Current(); {
			case o.Candidates.Err != nil:
				fmt.Fprintf(out, "unavailable: %v\n", o.Candidates.Err)
			case c == nil:
				fmt.Fprintln(out, "No candidate.")
			default:
				printMatch(out, c)
			}
			for _, st := range []domain.MatchStatus{domain.MatchStatusLikes, domain.MatchStatusAccepted} {
				fmt.Fprintf(out, "\n%s\n---------\n", st)
				r := o.Stream(st)
				if r.Err != nil {
					fmt.Fprintf(out, "unavailable: %v\n", r.Err)
					continue
				}
				printMatchTable(out, r.Value)
			}
			return nil
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&filter, "filter", "", "Stream to page: candidate, likes, accepted")
	return cmd
}

func newMatchesCmd(open opener) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "matches [likes|accepted]",
		Short: "List matches that liked you or were accepted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.MatchStatusLikes
			if len(args) == 1 {
				var err error
				if status, err = domain.ParseMatchStatus(args[0]); err != nil {
					return err
				}
			}
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
			page, err := app.Matches.ListByStatus(cmd.Context(), sess, status, p)
			if err != nil {
				return err
			}
			if asJSON {
				views := []matchView{}
				for _, c := range page.Items() {
					views = append(views, toMatchView(c))
				}
				return printJSON(cmd.OutOrStdout(), views)
			}
			printMatchTable(cmd.OutOrStdout(), page)
			return nil
		},
	}
	pf.bind(cmd)
	return cmd
}

func newMatchCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "match <match-id>",
		Short: "Show one match and its swipe attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Session(cmd.Context())
			if err != nil {
				return err
			}
			c, err := app.Matches.Get(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), toMatchView(c))
			}
			out := cmd.OutOrStdout()
			printMatch(out, c)
			if a, err := app.Matches.Attempt(cmd.Context(), sess, c.MatchID); err == nil {
				fmt.Fprintf(out, "%-10s %s %s (%s)\n", "Swiped:", a.Decision, timestamp(a.StartedAt), a.State)
			}
			return nil
		},
	}
}

func newSwipeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "swipe <match-id> accept|reject",
		Short: "Accept or reject a match",
		Long: `Swipe a match. A swipe is sent once and never retried. If the outcome
is unknown (timeout, server error) the match stays blocked until cleared
with 'matchme attempts clear'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sw, err := form.ParseSwipe(url.Values{"match_id": {args[0]}, "swipe": {args[1]}})
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
			if err := app.Matches.Swipe(cmd.Context(), sess, sw.MatchID, sw.Decision); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", decisionVerb(sw.Decision), sw.MatchID)
			return nil
		},
	}
}

func newAttemptsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "List recorded swipe attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Session(cmd.Context())
			if err != nil {
				return err
			}
			list, err := app.Matches.Attempts(cmd.Context(), sess)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No swipe attempts.")
				return nil
			}
			fmt.Fprintf(out, "%-24s %-8s %-8s %s\n", "MATCH", "DECISION", "STATE", "STARTED")
			for _, a := range list {
				fmt.Fprintf(out, "%-24s %-8s %-8s %s\n", a.MatchID, a.Decision, a.State, timestamp(a.StartedAt))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <match-id>",
		Short: "Allow a match with an unknown swipe outcome to be swiped again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Session(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Matches.ClearAttempt(cmd.Context(), sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared swipe attempt on %s.\n", args[0])
			return nil
		},
	})
	return cmd
}

func decisionVerb(d domain.Decision) string {
	if d == domain.Accept {
		return "Accepted"
	}
	return "Rejected"
}
