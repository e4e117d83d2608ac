package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

var (
	// ErrSwipeAlreadyAttempted is returned for a match that already carries
	// a swipe attempt. No call is made.
	ErrSwipeAlreadyAttempted = errors.New("swipe already attempted for this match")

	// ErrSwipeOutcomeUnknown wraps failures after which the swipe may or may
	// not have been applied by the server
	ErrSwipeOutcomeUnknown = errors.New("swipe outcome unknown")

	ErrAttemptNotFound = errors.New("swipe attempt not found")
)

// AttemptState is the lifecycle state of a swipe attempt
type AttemptState string

const (
	AttemptPending AttemptState = "pending"
	AttemptApplied AttemptState = "applied"
	AttemptUnknown AttemptState = "unknown"
)

// Attempt tags a match on which a swipe was issued. While an attempt exists
// the match cannot be swiped again.
type Attempt struct {
	ID        uuid.UUID
	UserID    string
	MatchID   string
	Decision  domain.Decision
	State     AttemptState
	Error     string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Ledger records swipe attempts
type Ledger interface {
	// Begin stores a pending attempt, or fails with ErrSwipeAlreadyAttempted
	Begin(ctx context.Context, a Attempt) error
	Resolve(ctx context.Context, id uuid.UUID, state AttemptState, errMsg string) error
	// Clear removes the tag so the match can be swiped again
	Clear(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, userID, matchID string) (*Attempt, error)
	List(ctx context.Context, userID string) ([]Attempt, error)
}

type attemptKey struct {
	userID, matchID string
}

// MemoryLedger keeps attempts for the lifetime of the process
type MemoryLedger struct {
	mu       sync.Mutex
	attempts map[attemptKey]*Attempt
	byID     map[uuid.UUID]attemptKey
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		attempts: make(map[attemptKey]*Attempt),
		byID:     make(map[uuid.UUID]attemptKey),
	}
}

func (l *MemoryLedger) Begin(_ context.Context, a Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := attemptKey{a.UserID, a.MatchID}
	if _, ok := l.attempts[key]; ok {
		return ErrSwipeAlreadyAttempted
	}
	now := time.Now().UTC()
	if a.StartedAt.IsZero() {
		a.StartedAt = now
	}
	a.UpdatedAt = now
	a.State = AttemptPending
	l.attempts[key] = &a
	l.byID[a.ID] = key
	return nil
}

func (l *MemoryLedger) Resolve(_ context.Context, id uuid.UUID, state AttemptState, errMsg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key, ok := l.byID[id]
	if !ok {
		return ErrAttemptNotFound
	}
	a := l.attempts[key]
	a.State = state
	a.Error = errMsg
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (l *MemoryLedger) Clear(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key, ok := l.byID[id]
	if !ok {
		return ErrAttemptNotFound
	}
	delete(l.attempts, key)
	delete(l.byID, id)
	return nil
}

func (l *MemoryLedger) Get(_ context.Context, userID, matchID string) (*Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[attemptKey{userID, matchID}]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	cp := *a
	return &cp, nil
}

func (l *MemoryLedger) List(_ context.Context, userID string) ([]Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Attempt
	for key, a := range l.attempts {
		if key.userID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}
