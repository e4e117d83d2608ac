package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	configDir string
	envFile   string
	logLevel  string
	asJSON    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		stop()
		os.Exit(1)
	}
}

// opener builds the application for a command
type opener func(cmd *cobra.Command) (*App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "matchme",
		Short: "Browse matches and edit your dating profile from the terminal",
		Long: `matchme drives the matching API: it shows your profile, walks the
candidate queue, swipes, lists likes and accepted matches, and edits
your interests.

Configuration lives in ~/.matchme (config.yaml, secrets.yaml) and can be
overridden by ./.env and MATCHME_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: ~/.matchme)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newProfileCmd(open),
		newCandidateCmd(open),
		newOverviewCmd(open),
		newMatchesCmd(open),
		newMatchCmd(open),
		newSwipeCmd(open),
		newAttemptsCmd(open),
		newInterestsCmd(open),
		newConversationsCmd(open),
		newGeocodeCmd(open),
		newLoginCmd(),
		newEventsCmd(),
		newMCPCmd(open),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "matchme %s\n", Version)
		},
	}
}
