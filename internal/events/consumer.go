package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one consumed event
type Handler func(ctx context.Context, e Event) error

// Consumer reads events from the event queue
type Consumer struct {
	conn       *Connection
	handler    Handler
	prefetch   int
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewConsumer creates a new event consumer
func NewConsumer(conn *Connection, handler Handler, prefetch int) *Consumer {
	if prefetch <= 0 {
		prefetch = 10
	}
	return &Consumer{conn: conn, handler: handler, prefetch: prefetch}
}

// Start begins consuming events
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		QueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.wg.Add(1)
	go c.consume(ctx, msgs)
	return nil
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg amqp.Delivery) {
	var e Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		slog.Error("failed to unmarshal event", "error", err)
		_ = msg.Reject(false)
		return
	}

	if err := c.handler(ctx, e); err != nil {
		slog.Warn("event handler failed", "event_id", e.ID, "type", e.Type, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("failed to ack event", "event_id", e.ID, "error", err)
	}
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}
