package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/form"
	"github.com/felixgeelhaar/matchme/internal/interest"
)

func newInterestsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Manage hobbies, movies and series, sports and travels",
	}
	cmd.AddCommand(newInterestsEditCmd(open))
	return cmd
}

func newInterestsEditCmd(open opener) *cobra.Command {
	var (
		add     []string
		remove  []string
		renames []string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Add, rename or remove interests in one category",
		Long: `Edit one interest category: hobbies, movie_series, sports or travels.

Names must be unique within a category and a category holds at most 10
items. Nothing is sent when the edit breaks either rule. Removals are
applied before additions, so a removed name can be added again in the
same edit.`,
		Example: `  matchme interests edit hobbies --add Climbing --remove h2
  matchme interests edit sports --rename s1=Padel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ParseCategory(args[0])
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
			original, err := app.Users.GetDetail(cmd.Context(), sess)
			if err != nil {
				return err
			}

			f := form.NewInterestForm(original, c)
			for _, id := range remove {
				if err := f.Remove(c, id); err != nil {
					return err
				}
			}
			for _, r := range renames {
				id, name, ok := strings.Cut(r, "=")
				if !ok {
					return fmt.Errorf("%w: expected id=name, got %q", domain.ErrInvalidInput, r)
				}
				if err := f.Rename(c, id, name); err != nil {
					return err
				}
			}
			f.Add(c, add...)

			sessions, err := form.ParseInterests(f.Values())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var plan interest.Plan
			if dryRun {
				plan, err = interest.Reconcile(original, sessions)
			} else {
				plan, err = app.Interests.Edit(cmd.Context(), sess, original, sessions)
			}
			var verrs interest.ValidationErrors
			if errors.As(err, &verrs) {
				for _, e := range verrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, plan.Summary())
			}
			verb := "Updated"
			if dryRun {
				verb = "Would update"
			}
			fmt.Fprintf(out, "%s %s: %d added, %d kept, %d removed.\n",
				verb, c, len(plan.Create[c]), len(plan.Update[c]), len(plan.Delete[c]))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&add, "add", nil, "Name to add (repeatable)")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "ID of an item to remove (repeatable)")
	cmd.Flags().StringArrayVar(&renames, "rename", nil, "Rename an item as id=name (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and show the changes without sending them")
	return cmd
}
