package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Publisher sends fan-out events to the broker.  A connection is dialled
// per publish; hand-offs only happen after storage failures, so they are
// rare enough that a pooled connection is not worth its reconnect logic.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishFanout publishes ev as a persistent message.  Errors are logged and
// returned so the caller can decide whether to surface them.
func (p *Publisher) PublishFanout(ctx context.Context, ev FanoutEvent) error {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal fanout event: %w", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	return publish(ctx, ch, body, 0)
}

// publish declares the queue (idempotent) and sends body with the given
// attempt count.
func publish(ctx context.Context, ch *amqp.Channel, body []byte, attempt int) error {
	if _, err := ch.QueueDeclare(FanoutQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{attemptHeader: int32(attempt)},
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", FanoutQueue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", FanoutQueue, err)
	}
	return nil
}
