package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/config"
	"github.com/felixgeelhaar/matchme/internal/conversation"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/events"
	"github.com/felixgeelhaar/matchme/internal/geocode"
	"github.com/felixgeelhaar/matchme/internal/interest"
	"github.com/felixgeelhaar/matchme/internal/match"
	"github.com/felixgeelhaar/matchme/internal/remote"
	"github.com/felixgeelhaar/matchme/internal/storage/sqlite"
	"github.com/felixgeelhaar/matchme/internal/user"
)

// App holds the wired services of one CLI invocation
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Sessions      auth.Provider
	Matches       *match.Service
	Interests     *interest.Service
	Users         *user.Service
	Conversations *conversation.Service
	Geocoder      *geocode.Client

	closers []func() error
}

// Session resolves the session for ctx
func (a *App) Session(ctx context.Context) (auth.Session, error) {
	return a.Sessions.Session(ctx)
}

// Close releases connections in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// loadConfig reads the configuration honoring the global flags
func loadConfig() (*config.Config, string, error) {
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.LoadFrom(dir, envFile)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, dir, nil
}

// openApp loads the configuration and wires the services
func openApp(cmd *cobra.Command) (*App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := setupLogging(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	api, err := remote.New(remote.Config{
		BaseURL:    cfg.APIURL(),
		Timeout:    cfg.API.Timeout,
		Resilience: cfg.Resilience(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	a.onClose(api.Close)

	a.Sessions = sessionProvider(cfg, logger)

	ledger, err := openLedger(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	publisher := openPublisher(cfg, a)

	if cfg.Geocode.APIKey != "" {
		gc, err := geocode.New(geocode.Config{
			APIKey:  cfg.Geocode.APIKey,
			BaseURL: cfg.Geocode.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create geocoder: %w", err)
		}
		a.onClose(gc.Close)
		a.Geocoder = gc
	}

	a.Matches = match.NewService(api,
		match.WithLedger(ledger),
		match.WithPublisher(publisher),
		match.WithLogger(logger))
	a.Interests = interest.NewService(api, publisher, logger)
	a.Conversations = conversation.NewService(api, logger)
	if a.Geocoder != nil {
		a.Users = user.NewService(api, a.Geocoder, cfg.API.ProfileTimeout, logger)
	} else {
		a.Users = user.NewService(api, nil, cfg.API.ProfileTimeout, logger)
	}
	return a, nil
}

// sessionProvider builds the configured session. A token that cannot be
// turned into a session is reported when a command needs it.
func sessionProvider(cfg *config.Config, logger *slog.Logger) auth.Provider {
	if cfg.Auth.Token == "" {
		return auth.NewStaticProvider(auth.Session{})
	}
	sess, err := auth.NewSession(cfg.Auth.Token, cfg.Auth.UserID)
	if err != nil {
		logger.Debug("configured token is unusable", "error", err)
		return failingProvider{err: err}
	}
	return auth.NewStaticProvider(sess)
}

type failingProvider struct{ err error }

func (p failingProvider) Session(context.Context) (auth.Session, error) {
	return auth.Session{}, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, p.err)
}

func openLedger(ctx context.Context, cfg *config.Config, a *App) (match.Ledger, error) {
	if cfg.Ledger.Driver != "sqlite" {
		return match.NewMemoryLedger(), nil
	}
	db, err := sqlite.Open(ctx, cfg.Ledger.Path, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("open swipe ledger: %w", err)
	}
	a.onClose(db.Close)
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate swipe ledger: %w", err)
	}
	return sqlite.NewSwipeLedger(db), nil
}

// openPublisher connects to RabbitMQ when configured. Events are optional:
// an unreachable broker falls back to dropping them.
func openPublisher(cfg *config.Config, a *App) events.Publisher {
	if cfg.Events.RabbitMQURL == "" {
		return events.Nop{}
	}
	conn, err := events.NewConnection(cfg.Events.RabbitMQURL)
	if err != nil {
		a.Logger.Warn("event publishing disabled", "error", err)
		return events.Nop{}
	}
	a.onClose(conn.Close)
	return events.NewProducer(conn)
}

// setupLogging installs a text handler on stderr
func setupLogging(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, nil
}

// errorHint suggests the next step for errors a user can act on
func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), apierr.NeedsReauth(err):
		return "Run 'matchme login --token <token>' to sign in again."
	case errors.Is(err, apierr.ErrUserNotFound):
		return "Create your profile with 'matchme profile set alias=<name> ...'."
	case errors.Is(err, apierr.ErrMatchCandidateEmpty):
		return "No candidates right now. Try again later."
	case errors.Is(err, remote.ErrNotSent):
		return "Nothing reached the server. Try again in a moment."
	case errors.Is(err, match.ErrSwipeOutcomeUnknown):
		return "The swipe may have been applied. Check the match, then run 'matchme attempts clear <match-id>' if it was not."
	}
	return ""
}
