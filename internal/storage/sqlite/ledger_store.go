package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/match"
)

// Outcome is one line of the swipe outcome history
type Outcome struct {
	AttemptID  uuid.UUID
	MatchID    string
	Outcome    string
	Error      string
	RecordedAt time.Time
}

// SwipeLedger implements match.Ledger backed by SQLite. Tags survive
// restarts, so an ambiguous swipe stays blocked across runs.
type SwipeLedger struct {
	db *DB
}

// NewSwipeLedger creates a new SQLite-backed swipe ledger.
func NewSwipeLedger(db *DB) *SwipeLedger {
	return &SwipeLedger{db: db}
}

// Begin inserts a pending attempt.
func (l *SwipeLedger) Begin(ctx context.Context, a match.Attempt) error {
	now := time.Now().UTC()
	if a.StartedAt.IsZero() {
		a.StartedAt = now
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO swipe_attempts (id, user_id, match_id, decision, state, error, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		a.ID.String(), a.UserID, a.MatchID, boolInt(bool(a.Decision)),
		string(match.AttemptPending), a.StartedAt, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return match.ErrSwipeAlreadyAttempted
		}
		return fmt.Errorf("insert swipe attempt: %w", err)
	}
	return nil
}

// Resolve records the outcome of an attempt.
func (l *SwipeLedger) Resolve(ctx context.Context, id uuid.UUID, state match.AttemptState, errMsg string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE swipe_attempts SET state = ?, error = ?, updated_at = ? WHERE id = ?",
		string(state), errMsg, now, id.String())
	if err != nil {
		return fmt.Errorf("update swipe attempt: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return match.ErrAttemptNotFound
	}
	if err := recordOutcome(ctx, tx, id, string(state), errMsg, now); err != nil {
		return err
	}
	return tx.Commit()
}

// Clear removes the tag of an attempt.
func (l *SwipeLedger) Clear(ctx context.Context, id uuid.UUID) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := recordOutcome(ctx, tx, id, "cleared", "", time.Now().UTC()); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM swipe_attempts WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete swipe attempt: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return match.ErrAttemptNotFound
	}
	return tx.Commit()
}

// Get returns the attempt on a match.
func (l *SwipeLedger) Get(ctx context.Context, userID, matchID string) (*match.Attempt, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, user_id, match_id, decision, state, error, started_at, updated_at
		FROM swipe_attempts WHERE user_id = ? AND match_id = ?`, userID, matchID)
	return scanAttempt(row)
}

// List returns the attempts of a user, oldest first.
func (l *SwipeLedger) List(ctx context.Context, userID string) ([]match.Attempt, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, decision, state, error, started_at, updated_at
		FROM swipe_attempts WHERE user_id = ? ORDER BY started_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swipe attempts: %w", err)
	}
	defer rows.Close()

	var out []match.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// History returns the recorded outcomes of a match, oldest first.
func (l *SwipeLedger) History(ctx context.Context, userID, matchID string) ([]Outcome, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT attempt_id, match_id, outcome, error, recorded_at
		FROM swipe_outcomes WHERE user_id = ? AND match_id = ? ORDER BY recorded_at, rowid`, userID, matchID)
	if err != nil {
		return nil, fmt.Errorf("list swipe outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var id string
		if err := rows.Scan(&id, &o.MatchID, &o.Outcome, &o.Error, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan swipe outcome: %w", err)
		}
		if o.AttemptID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse attempt id: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func recordOutcome(ctx context.Context, tx *sql.Tx, id uuid.UUID, outcome, errMsg string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO swipe_outcomes (attempt_id, user_id, match_id, outcome, error, recorded_at)
		SELECT id, user_id, match_id, ?, ?, ? FROM swipe_attempts WHERE id = ?`,
		outcome, errMsg, at, id.String())
	if err != nil {
		return fmt.Errorf("record swipe outcome: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (*match.Attempt, error) {
	var a match.Attempt
	var id, state string
	var decision int
	err := s.Scan(&id, &a.UserID, &a.MatchID, &decision, &state, &a.Error, &a.StartedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, match.ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan swipe attempt: %w", err)
	}
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse attempt id: %w", err)
	}
	a.Decision = domain.Decision(decision == 1)
	a.State = match.AttemptState(state)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
