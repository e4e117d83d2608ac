package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/domain"
)

// State is the state of a viewer session
type State int

const (
	StateNoCandidate State = iota
	StateHasCandidate
	StateDeciding
	StateDecided
)

func (s State) String() string {
	switch s {
	case StateNoCandidate:
		return "no_candidate"
	case StateHasCandidate:
		return "has_candidate"
	case StateDeciding:
		return "deciding"
	case StateDecided:
		return "decided"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidTransition is returned when an action does not fit the state
var ErrInvalidTransition = errors.New("invalid viewer transition")

// Outcome is the result of a decision
type Outcome struct {
	MatchID  string
	Decision domain.Decision
	// Applied is false when the outcome is unknown
	Applied bool
	Err     error
}

// Viewer walks one viewer through the candidate queue. It is not safe for
// concurrent use.
type Viewer struct {
	svc     *Service
	sess    auth.Session
	state   State
	current *domain.MatchCandidate
	outcome *Outcome
}

// NewViewer creates a viewer in the NoCandidate state
func NewViewer(svc *Service, sess auth.Session) *Viewer {
	return &Viewer{svc: svc, sess: sess, state: StateNoCandidate}
}

// State returns the current state
func (v *Viewer) State() State { return v.state }

// Current returns the candidate on display, nil outside HasCandidate
func (v *Viewer) Current() *domain.MatchCandidate {
	if v.state != StateHasCandidate && v.state != StateDeciding {
		return nil
	}
	return v.current
}

// Outcome returns the last decision outcome, nil before Decided
func (v *Viewer) Outcome() *Outcome {
	if v.state != StateDecided {
		return nil
	}
	return v.outcome
}

// Load fetches the next candidate. An exhausted pool leaves the viewer in
// NoCandidate and returns the MATCH_CANDIDATE_EMPTY error.
func (v *Viewer) Load(ctx context.Context) error {
	if v.state == StateDeciding {
		return fmt.Errorf("%w: load while deciding", ErrInvalidTransition)
	}

	page, err := v.svc.EnsureCandidate(ctx, v.sess, domain.DefaultPagination())
	if err != nil {
		v.state, v.current = StateNoCandidate, nil
		return err
	}
	v.current = page.First()
	v.outcome = nil
	v.state = StateHasCandidate
	return nil
}

// Decide swipes the current candidate. A refused swipe returns to
// HasCandidate; an applied or ambiguous one moves to Decided.
func (v *Viewer) Decide(ctx context.Context, decision domain.Decision) (*Outcome, error) {
	if v.state != StateHasCandidate || v.current == nil {
		return nil, fmt.Errorf("%w: decide in state %s", ErrInvalidTransition, v.state)
	}

	v.state = StateDeciding
	err := v.svc.Swipe(ctx, v.sess, v.current.MatchID, decision)

	if err != nil && !errors.Is(err, ErrSwipeOutcomeUnknown) {
		v.state = StateHasCandidate
		if apierr.NeedsReauth(err) {
			v.state, v.current = StateNoCandidate, nil
		}
		return nil, err
	}

	v.outcome = &Outcome{
		MatchID:  v.current.MatchID,
		Decision: decision,
		Applied:  err == nil,
		Err:      err,
	}
	v.state = StateDecided
	return v.outcome, err
}
