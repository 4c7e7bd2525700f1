package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// MaxAttempts bounds how often the consumer re-applies one event before it
// gives up and drops it with an error log.
const MaxAttempts = 5

// Applier applies a fan-out event to storage.
type Applier interface {
	ApplyFanout(ctx context.Context, ev FanoutEvent) error
}

// outcome is what the consumer does with a delivery.
type outcome int

const (
	ack     outcome = iota // applied
	retry                  // republish with attempt+1, then ack
	discard                // malformed or out of attempts
)

// StartFanoutConsumer consumes FanoutQueue until ctx is cancelled,
// reconnecting with exponential backoff when the broker goes away.
func StartFanoutConsumer(ctx context.Context, url string, a Applier) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("fanout-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, a)
		_ = conn.Close()
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("fanout-consumer: consume loop ended; reconnecting")
			if !sleep(ctx, 2*time.Second) {
				return
			}
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, a Applier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warn().Err(err).Msg("fanout-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(FanoutQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(FanoutQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			attempt := attemptOf(d.Headers)
			switch handleDelivery(ctx, a, d.Body, attempt) {
			case ack:
				_ = d.Ack(false)
			case retry:
				if err := publish(ctx, ch, d.Body, attempt+1); err != nil {
					// leave it on the queue rather than lose it
					_ = d.Nack(false, true)
					continue
				}
				_ = d.Ack(false)
			case discard:
				_ = d.Nack(false, false)
			}
		}
	}
}

// handleDelivery decodes and applies one message and decides its fate.
func handleDelivery(ctx context.Context, a Applier, body []byte, attempt int) outcome {
	var ev FanoutEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Op == "" || ev.MealID == "" || ev.Field == "" {
		log.Error().Err(err).Bytes("body", body).Msg("fanout-consumer: malformed event dropped")
		return discard
	}

	applyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := a.ApplyFanout(applyCtx, ev)
	if err == nil {
		log.Info().Str("meal_id", ev.MealID).Str("field", ev.Field).Int("attempt", attempt).Msg("fanout-consumer: applied")
		return ack
	}
	if attempt+1 >= MaxAttempts {
		log.Error().Err(err).Str("meal_id", ev.MealID).Str("field", ev.Field).Int("attempt", attempt).
			Msg("fanout-consumer: giving up; request counters are now out of sync")
		return discard
	}
	log.Warn().Err(err).Str("meal_id", ev.MealID).Int("attempt", attempt).Msg("fanout-consumer: apply failed; will retry")
	return retry
}

func attemptOf(h amqp.Table) int {
	switch v := h[attemptHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// sleep waits for d or until ctx ends; it reports whether to keep going.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
