// Package match drives the match candidate lifecycle: keeping a candidate
// queue non-empty, listing the likes and accepted streams, and swiping.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

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

// Service wraps the /matchs resource
type Service struct {
	api       Doer
	ledger    Ledger
	publisher events.Publisher
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLedger replaces the in-memory swipe ledger
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithPublisher publishes swipe events
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a match service
func NewService(api Doer, opts ...Option) *Service {
	s := &Service{
		api:       api,
		ledger:    NewMemoryLedger(),
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureCandidate returns a non-empty page of candidates. When the first
// page is empty it provisions candidates once and fetches once more; if that
// page is still empty it fails with MATCH_CANDIDATE_EMPTY.
func (s *Service) EnsureCandidate(ctx context.Context, sess auth.Session, p domain.Pagination) (domain.Page[domain.MatchCandidate], error) {
	if err := sess.Validate(); err != nil {
		return domain.Page[domain.MatchCandidate]{}, err
	}

	page, err := s.fetchCandidates(ctx, sess, p)
	if err != nil {
		return page, err
	}
	if !page.IsEmpty() {
		return page, nil
	}

	s.logger.Info("candidate queue empty, provisioning", "user_id", sess.UserID)
	err = s.api.Do(ctx, remote.Request{
		Method: http.MethodPost,
		Path:   "matchs",
		Token:  sess.Token,
	}, nil)
	if err != nil {
		return domain.Page[domain.MatchCandidate]{}, fmt.Errorf("provision candidates: %w", apierr.Classify(err))
	}

	page, err = s.fetchCandidates(ctx, sess, p)
	if err != nil {
		return page, err
	}
	if page.IsEmpty() {
		s.logger.Info("no candidate after provisioning", "user_id", sess.UserID)
		return page, apierr.New(apierr.CodeMatchCandidateEmpty, http.StatusNotFound, "no candidate available after provisioning")
	}
	return page, nil
}

// fetchCandidates treats a MATCH_CANDIDATE_EMPTY response as an empty page
func (s *Service) fetchCandidates(ctx context.Context, sess auth.Session, p domain.Pagination) (domain.Page[domain.MatchCandidate], error) {
	page, err := s.list(ctx, sess, domain.MatchStatusCandidate, p)
	if errors.Is(err, apierr.ErrMatchCandidateEmpty) {
		return domain.Page[domain.MatchCandidate]{}, nil
	}
	return page, err
}

// ListByStatus returns one page of the likes or accepted stream
func (s *Service) ListByStatus(ctx context.Context, sess auth.Session, status domain.MatchStatus, p domain.Pagination) (domain.Page[domain.MatchCandidate], error) {
	if err := sess.Validate(); err != nil {
		return domain.Page[domain.MatchCandidate]{}, err
	}
	if status != domain.MatchStatusLikes && status != domain.MatchStatusAccepted {
		return domain.Page[domain.MatchCandidate]{}, fmt.Errorf("%w: %q is not a listable stream", domain.ErrInvalidMatchStatus, status)
	}
	return s.list(ctx, sess, status, p)
}

func (s *Service) list(ctx context.Context, sess auth.Session, status domain.MatchStatus, p domain.Pagination) (domain.Page[domain.MatchCandidate], error) {
	if err := p.Validate(); err != nil {
		return domain.Page[domain.MatchCandidate]{}, err
	}
	p = p.Normalize()

	query := url.Values{}
	query.Set("status", string(status))
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("limit", strconv.Itoa(p.Limit))

	var body wire.MatchPage
	if err := s.api.Do(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   "matchs",
		Token:  sess.Token,
		Query:  query,
	}, &body); err != nil {
		return domain.Page[domain.MatchCandidate]{}, apierr.Classify(err)
	}
	return body.ToDomain(status), nil
}

// Get returns one match record
func (s *Service) Get(ctx context.Context, sess auth.Session, matchID string) (*domain.MatchCandidate, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	path, err := matchPath(matchID)
	if err != nil {
		return nil, err
	}

	var body wire.MatchEnvelope
	if err := s.api.Do(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   path,
		Token:  sess.Token,
	}, &body); err != nil {
		return nil, apierr.Classify(err)
	}
	return body.Data.ToDomain(domain.MatchStatusCandidate), nil
}

// Swipe requests the accept or reject transition of a match. The call is
// made at most once per match: the attempt is tagged in the ledger before
// the request and the tag is only cleared when the server definitely
// refused it (a 4xx response) or the request never left the client. After
// an ambiguous failure the error wraps ErrSwipeOutcomeUnknown and the tag
// stays, so a repeat fails with ErrSwipeAlreadyAttempted instead of risking
// a double application.
func (s *Service) Swipe(ctx context.Context, sess auth.Session, matchID string, decision domain.Decision) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	matchID = strings.TrimSpace(matchID)
	path, err := matchPath(matchID)
	if err != nil {
		return err
	}

	attempt := Attempt{
		ID:       uuid.New(),
		UserID:   sess.UserID,
		MatchID:  matchID,
		Decision: decision,
	}
	if err := s.ledger.Begin(ctx, attempt); err != nil {
		if errors.Is(err, ErrSwipeAlreadyAttempted) {
			s.logger.Warn("swipe refused, already attempted", "match_id", matchID, "user_id", sess.UserID)
		}
		return err
	}

	err = s.api.Do(ctx, remote.Request{
		Method: http.MethodPut,
		Path:   path + "/request-transition",
		Token:  sess.Token,
		Body:   wire.SwipeBody{Swipe: bool(decision)},
		Once:   true,
	}, nil)

	switch {
	case err == nil:
		s.settleAttempt(ctx, attempt, AttemptApplied, "")
		s.logger.Info("swipe applied", "match_id", matchID, "decision", decision.String())
		if perr := s.publisher.Publish(ctx, events.New(events.TypeMatchSwiped, sess.UserID, map[string]any{
			"match_id": matchID,
			"decision": decision.String(),
		})); perr != nil {
			s.logger.Warn("failed to publish swipe event", "match_id", matchID, "error", perr)
		}
		return nil

	case errors.Is(err, remote.ErrNotSent):
		s.dropAttempt(ctx, attempt)
		s.logger.Warn("swipe not sent", "match_id", matchID, "error", err)
		return err

	case refused(err):
		s.dropAttempt(ctx, attempt)
		s.logger.Info("swipe refused", "match_id", matchID, "status", remote.StatusOf(err))
		return apierr.Classify(err)

	default:
		s.settleAttempt(ctx, attempt, AttemptUnknown, err.Error())
		s.logger.Warn("swipe outcome unknown", "match_id", matchID, "error", err)
		return fmt.Errorf("%w: %w", ErrSwipeOutcomeUnknown, err)
	}
}

// Attempt returns the swipe attempt recorded for a match
func (s *Service) Attempt(ctx context.Context, sess auth.Session, matchID string) (*Attempt, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.ledger.Get(ctx, sess.UserID, matchID)
}

// Attempts lists the swipe attempts of the session's user
func (s *Service) Attempts(ctx context.Context, sess auth.Session) ([]Attempt, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.ledger.List(ctx, sess.UserID)
}

// ClearAttempt removes the tag of a match whose outcome was checked by hand,
// allowing it to be swiped again
func (s *Service) ClearAttempt(ctx context.Context, sess auth.Session, matchID string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	a, err := s.ledger.Get(ctx, sess.UserID, matchID)
	if err != nil {
		return err
	}
	if a.State == AttemptApplied {
		return fmt.Errorf("%w: swipe on %s was applied", ErrSwipeAlreadyAttempted, matchID)
	}
	return s.ledger.Clear(ctx, a.ID)
}

func (s *Service) settleAttempt(ctx context.Context, a Attempt, state AttemptState, msg string) {
	if err := s.ledger.Resolve(context.WithoutCancel(ctx), a.ID, state, msg); err != nil {
		s.logger.Warn("failed to record swipe outcome",
			"match_id", a.MatchID,
			"state", state,
			"error", err)
	}
}

// dropAttempt removes the tag of a swipe that was definitely not applied
func (s *Service) dropAttempt(ctx context.Context, a Attempt) {
	// The ledger outlives a cancelled request context.
	if err := s.ledger.Clear(context.WithoutCancel(ctx), a.ID); err != nil {
		s.logger.Warn("failed to clear swipe attempt", "match_id", a.MatchID, "error", err)
	}
}

// refused reports a definite rejection by the server
func refused(err error) bool {
	status := remote.StatusOf(err)
	return status >= 400 && status < 500
}

func matchPath(matchID string) (string, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return "", domain.ErrInvalidMatchID
	}
	return "matchs/" + url.PathEscape(matchID), nil
}
