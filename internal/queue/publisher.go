package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// defaultDialTimeout bounds the TCP connect and AMQP handshake when ctx
// carries no deadline.
const defaultDialTimeout = 30 * time.Second

// dialTimeout is the time left before ctx's deadline, or defaultDialTimeout.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

// dial opens a connection whose connect and handshake finish within ctx's
// deadline.
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return nil, err
	}
	return amqp.DialConfig(url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(timeout),
	})
}

// Publisher sends activity events to a broker.  Implementations must be
// safe for concurrent use by request goroutines.
type Publisher interface {
	Publish(ctx context.Context, ev ActivityEvent) error
}

// Nop discards every event.  It is used when AMQP is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, ActivityEvent) error { return nil }

// AMQPPublisher publishes events to a durable queue on the default
// exchange.  A connection is dialled per publish.
type AMQPPublisher struct {
	URL    string
	Queue  string
	Logger *slog.Logger
}

// NewAMQPPublisher returns a publisher for url and queue.
func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{URL: url, Queue: queue, Logger: logger}
}

// Publish marshals ev and publishes it as a persistent message.  Errors are
// logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := dial(ctx, p.URL)
	if err != nil {
		p.Logger.Warn("rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn("rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		p.Logger.Warn("rabbitmq queue declare failed", "queue", p.Queue, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Entity + "." + ev.Action,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Logger.Warn("rabbitmq publish failed", "queue", p.Queue, "error", err)
		return err
	}
	return nil
}
