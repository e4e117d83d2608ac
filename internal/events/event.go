// Package events publishes domain events (swipes, interest reconciliations)
// to RabbitMQ. Publishing is optional: services are given a Nop publisher
// when no broker is configured.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeMatchSwiped        = "match.swiped"
	TypeInterestReconciled = "interest.reconciled"
)

// Event is one domain event
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// New creates an event with a fresh id
func New(eventType, userID string, payload map[string]any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Memory keeps published events in memory
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory creates an empty in-memory publisher
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of the published events
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// OfType returns the published events of one type
func (m *Memory) OfType(eventType string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
