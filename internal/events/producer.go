package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer publishes domain events to RabbitMQ
type Producer struct {
	conn *Connection
}

// NewProducer creates a new event producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// Publish sends e with its type as routing key
func (p *Producer) Publish(ctx context.Context, e Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	if err := p.conn.PublishJSON(ctx, e.Type, e); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}

	slog.Debug("published event",
		"event_id", e.ID,
		"type", e.Type,
		"user_id", e.UserID,
	)
	return nil
}
