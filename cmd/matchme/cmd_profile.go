package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/form"
)

func newProfileCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
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
			p, err := app.Users.GetDetail(cmd.Context(), sess)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProfile(cmd, p)
			return nil
		},
	}
	cmd.AddCommand(newProfileSetCmd(open))
	return cmd
}

func newProfileSetCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Create or update your profile",
		Long: `Write profile fields given as key=value pairs. The profile is created
when it does not exist yet.

Keys: alias, bio, gender, looking_for, relationship_preferences,
education_level, drinking, smoking, zodiac, height, kids, work,
from_location, lat, lng.

When lat and lng are given without from_location, the place name is
looked up (requires a geocoding key).`,
		Example: `  matchme profile set alias=Ana gender=Female looking_for=Male
  matchme profile set lat=-6.2 lng=106.8 height=165`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := url.Values{}
			for _, arg := range args {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, arg)
				}
				values.Set(k, v)
			}
			in, err := form.ParseDetail(values)
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
			if err := app.Users.UpsertDetail(cmd.Context(), sess, in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		},
	}
}

func printProfile(cmd *cobra.Command, p *domain.UserProfile) {
	out := cmd.OutOrStdout()
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "%-14s %s\n", label+":", value)
		}
	}
	row("Alias", p.Alias)
	row("Gender", p.Gender.Human())
	row("Looking for", p.LookingFor.Human())
	row("Relationship", string(p.RelationshipPreference))
	row("Education", p.EducationLevel.Human())
	row("Drinking", p.Drinking.Human())
	row("Smoking", p.Smoking.Human())
	row("Zodiac", string(p.Zodiac))
	if p.Height != nil {
		row("Height", strconv.FormatFloat(*p.Height, 'f', -1, 64)+" cm")
	}
	if p.Kids != nil {
		row("Kids", strconv.FormatFloat(*p.Kids, 'f', -1, 64))
	}
	row("Work", p.Work)
	row("From", p.FromLocation)
	row("Bio", p.Bio)

	fmt.Fprintln(out)
	for _, c := range domain.Categories() {
		items := p.Interests(c)
		names := "-"
		if len(items) > 0 {
			names = joinNames(items)
		}
		fmt.Fprintf(out, "%-14s %s (%d/%d)\n", string(c)+":", names, len(items), domain.MaxItemsPerCategory)
	}
}
