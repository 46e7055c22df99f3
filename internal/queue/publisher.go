package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ChillLP/traewelling/internal/domain"
)

// Publisher delivers messages to RabbitMQ. A zero AMQP URL disables
// publishing entirely (useful in development and tests); all methods then
// succeed without doing anything.
type Publisher struct {
	url string
	log *slog.Logger
}

// NewPublisher constructs a Publisher for the given AMQP URL.
// Pass url="" to disable publishing.
func NewPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// AdminMessage publishes a moderation announcement to the admin broadcast queue.
func (p *Publisher) AdminMessage(ctx context.Context, message string) error {
	return p.publish(ctx, AdminBroadcastQueue, AdminBroadcast{
		Message: message,
		SentAt:  time.Now().UTC(),
	})
}

// NotificationCreated announces a stored notification on the broker.
func (p *Publisher) NotificationCreated(ctx context.Context, n domain.Notification) error {
	return p.publish(ctx, NotificationCreatedQueue, NotificationCreated{
		NotificationID: n.ID.String(),
		UserID:         n.UserID,
		Type:           n.Type,
		CreatedAt:      n.CreatedAt,
	})
}

// publish dials the broker, declares the durable queue, and sends one
// persistent JSON message. Errors are logged here so callers can ignore the
// return value without losing the failure.
func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	if p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WarnContext(ctx, "amqp dial failed", "queue", queueName, "error", err)
		return fmt.Errorf("queue.Publisher.publish: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WarnContext(ctx, "amqp channel open failed", "queue", queueName, "error", err)
		return fmt.Errorf("queue.Publisher.publish: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.WarnContext(ctx, "amqp queue declare failed", "queue", queueName, "error", err)
		return fmt.Errorf("queue.Publisher.publish: declare: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue.Publisher.publish: marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.WarnContext(ctx, "amqp publish failed", "queue", queueName, "error", err)
		return fmt.Errorf("queue.Publisher.publish: publish: %w", err)
	}
	return nil
}
