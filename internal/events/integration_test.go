//go:build integration

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/felixgeelhaar/matchme/internal/events"
)

func setupRabbitMQ(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	if err != nil {
		t.Fatalf("failed to start RabbitMQ container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	amqpURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("failed to get AMQP URL: %v", err)
	}
	return amqpURL
}

func TestIntegration_PublishAndConsume(t *testing.T) {
	conn, err := events.NewConnection(setupRabbitMQ(t))
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	defer conn.Close()

	if !conn.IsConnected() {
		t.Fatal("expected connection to be active")
	}

	received := make(chan events.Event, 1)
	consumer := events.NewConsumer(conn, func(_ context.Context, e events.Event) error {
		received <- e
		return nil
	}, 1)
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer consumer.Stop()

	sent := events.New(events.TypeMatchSwiped, "u1", map[string]any{"match_id": "m1"})
	if err := events.NewProducer(conn).Publish(context.Background(), sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got.ID != sent.ID || got.Type != events.TypeMatchSwiped {
			t.Errorf("received %+v, want %+v", got, sent)
		}
		if got.Payload["match_id"] != "m1" {
			t.Errorf("payload = %v", got.Payload)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestIntegration_InvalidURL(t *testing.T) {
	if _, err := events.NewConnection("amqp://invalid:5672"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
