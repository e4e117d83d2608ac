package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/config"
)

func newLoginCmd() *cobra.Command {
	var token, userID, geocodeKey string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token",
		Long: `Store the API token in secrets.yaml (owner-readable only). The user id
is read from the token's subject claim unless --user-id is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("--token is required")
			}
			sess, err := auth.NewSession(token, userID)
			if err != nil {
				return fmt.Errorf("invalid token: %w", err)
			}

			dir := configDir
			if dir == "" {
				if dir, err = config.EnsureDir(); err != nil {
					return err
				}
			}
			cfg, err := config.LoadFile(dir)
			if err != nil {
				return err
			}
			cfg.Auth.UserID = sess.UserID
			if err := config.Save(dir, cfg); err != nil {
				return err
			}

			secrets := config.SecretsConfig{Token: sess.Token, GeocodeAPIKey: cfg.Geocode.APIKey}
			if geocodeKey != "" {
				secrets.GeocodeAPIKey = geocodeKey
			}
			if err := config.SaveSecrets(dir, secrets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", sess.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "API access token")
	cmd.Flags().StringVar(&userID, "user-id", "", "User id (default: token subject)")
	cmd.Flags().StringVar(&geocodeKey, "geocode-key", "", "Google Geocoding API key")
	return cmd
}
