// Package queue carries fan-out work that could not be applied inline over
// RabbitMQ so it is retried out of band.
package queue

// FanoutQueue is the durable queue that holds pending request-counter
// propagations.
const FanoutQueue = "meal.fanout"

// attemptHeader counts how many times a message has been tried by the
// consumer.
const attemptHeader = "x-attempt"

// FanoutEvent asks for Field to be incremented on every request that
// references MealID.  It is published after the inline retries failed.
// Some requests may already carry the increment; Op identifies it so they
// are not counted twice.
type FanoutEvent struct {
	Op         string `json:"op"`
	MealID     string `json:"meal_id"`
	Field      string `json:"field"`
	Cause      string `json:"cause,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
