package interest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/events"
	"github.com/felixgeelhaar/matchme/internal/remote"
	"github.com/felixgeelhaar/matchme/internal/wire"
)

// Doer issues API calls
type Doer interface {
	Do(ctx context.Context, req remote.Request, out any) error
}

// Service applies reconciled interest edits
type Service struct {
	api       Doer
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates an interest service. publisher may be nil.
func NewService(api Doer, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, publisher: publisher, logger: logger}
}

// Edit reconciles the sessions and applies the resulting plan. Validation
// errors are returned as ValidationErrors before any call is made.
func (s *Service) Edit(ctx context.Context, sess auth.Session, original *domain.UserProfile, sessions map[domain.Category]domain.EditSession) (Plan, error) {
	if err := sess.Validate(); err != nil {
		return Plan{}, err
	}
	plan, err := Reconcile(original, sessions)
	if err != nil {
		return Plan{}, err
	}
	return plan, s.Apply(ctx, sess, plan)
}

// Apply sends the plan. The delete call is awaited first; creates and
// updates then run concurrently, one call per category and bucket. Every
// write runs to completion and the first failure is returned. Writes that
// succeeded are not rolled back.
func (s *Service) Apply(ctx context.Context, sess auth.Session, plan Plan) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if plan.IsEmpty() {
		s.logger.Debug("interest edit is a no-op", "user_id", sess.UserID)
		return nil
	}

	start := time.Now()
	base := "users/" + url.PathEscape(sess.UserID) + "/detail/interest"

	if len(plan.Delete) > 0 {
		err := s.api.Do(ctx, remote.Request{
			Method: http.MethodPost,
			Path:   base + "/delete",
			Token:  sess.Token,
			Body:   wire.DeleteInterestBody(plan.Delete),
		}, nil)
		if err != nil {
			return fmt.Errorf("delete interests: %w", apierr.Classify(err))
		}
	}

	var g errgroup.Group
	for _, c := range domain.Categories() {
		if names := plan.Create[c]; len(names) > 0 {
			g.Go(func() error {
				err := s.api.Do(ctx, remote.Request{
					Method: http.MethodPost,
					Path:   base,
					Token:  sess.Token,
					Body:   wire.CreateInterestBody(c, names),
				}, nil)
				if err != nil {
					return fmt.Errorf("create %s: %w", c, apierr.Classify(err))
				}
				return nil
			})
		}
		if items := plan.Update[c]; len(items) > 0 {
			g.Go(func() error {
				err := s.api.Do(ctx, remote.Request{
					Method: http.MethodPatch,
					Path:   base,
					Token:  sess.Token,
					Body:   wire.UpdateInterestBody(c, items),
				}, nil)
				if err != nil {
					return fmt.Errorf("update %s: %w", c, apierr.Classify(err))
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("interest writes failed", "user_id", sess.UserID, "error", err)
		return err
	}

	summary := plan.Summary()
	s.logger.Info("interests reconciled",
		"user_id", sess.UserID,
		"changes", summary,
		"duration", time.Since(start))

	if err := s.publisher.Publish(ctx, events.New(events.TypeInterestReconciled, sess.UserID, summary)); err != nil {
		s.logger.Warn("failed to publish interest event", "user_id", sess.UserID, "error", err)
	}
	return nil
}
