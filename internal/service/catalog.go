// Package service holds the multi-write operations of the meal catalog and
// the payment gateway adapter.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/queue"
	"github.com/iliyamo/dining-hall/internal/repository"
)

// Counter names a meal counter that is mirrored onto requests.
type Counter int

const (
	Likes Counter = iota
	Reviews
)

func (c Counter) mealField() string {
	if c == Reviews {
		return repository.MealReviewCount
	}
	return repository.MealLikeCount
}

func (c Counter) requestField() string {
	if c == Reviews {
		return repository.RequestReview
	}
	return repository.RequestLike
}

type MealWriter interface {
	Create(ctx context.Context, m *model.Meal) (model.InsertResult, error)
	IncrementCounter(ctx context.Context, id, field string) (model.UpdateResult, error)
}

// RequestCounter and FoodCounter apply an increment at most once per op,
// which makes their writes safe to retry after an ambiguous failure.
type RequestCounter interface {
	IncrementForMeal(ctx context.Context, mealID, field, op string) (model.UpdateResult, error)
}

type FoodCounter interface {
	IncrementFoodCount(ctx context.Context, email, op string) (model.UpdateResult, error)
}

// FanoutPublisher hands a failed propagation to the broker.
type FanoutPublisher interface {
	PublishFanout(ctx context.Context, ev queue.FanoutEvent) error
}

// Catalog performs the catalog writes that touch more than one collection.
// The primary write decides the response; the secondary write is retried
// inline and, for counter fan-out, handed to the broker as a last resort.
type Catalog struct {
	Meals     MealWriter
	Requests  RequestCounter
	Users     FoodCounter
	Publisher FanoutPublisher // nil disables broker hand-off
	Retry     RetryPolicy
}

// CreateMeal inserts m and credits the posting admin's foodCount.  A failed
// credit does not undo the insert.
func (s *Catalog) CreateMeal(ctx context.Context, email string, m *model.Meal) (model.InsertResult, error) {
	res, err := s.Meals.Create(ctx, m)
	if err != nil {
		return res, err
	}
	op := uuid.NewString()
	err = s.Retry.Do(ctx, func(ctx context.Context) error {
		_, err := s.Users.IncrementFoodCount(ctx, email, op)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("email", email).Interface("meal_id", res.InsertedID).
			Msg("catalog: foodCount increment failed after meal insert")
	}
	return res, nil
}

// Increment adds one to a meal counter and mirrors it onto the meal's
// requests.  The returned result is that of the meal update.
func (s *Catalog) Increment(ctx context.Context, mealID string, c Counter) (model.UpdateResult, error) {
	res, err := s.Meals.IncrementCounter(ctx, mealID, c.mealField())
	if err != nil {
		return res, err
	}
	op := uuid.NewString()
	err = s.Retry.Do(ctx, func(ctx context.Context) error {
		_, err := s.Requests.IncrementForMeal(ctx, mealID, c.requestField(), op)
		return err
	})
	if err == nil {
		return res, nil
	}

	logger := log.With().Str("meal_id", mealID).Str("field", c.requestField()).Logger()
	if s.Publisher == nil {
		logger.Error().Err(err).Msg("catalog: request fan-out failed and no broker is configured")
		return res, nil
	}
	ev := queue.FanoutEvent{
		Op:         op,
		MealID:     mealID,
		Field:      c.requestField(),
		Cause:      err.Error(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	// the request context may already be exhausted by the retries
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if perr := s.Publisher.PublishFanout(pubCtx, ev); perr != nil {
		logger.Error().Err(perr).AnErr("fanout_err", err).Msg("catalog: fan-out hand-off failed")
	} else {
		logger.Warn().Err(err).Msg("catalog: fan-out handed to broker")
	}
	return res, nil
}

// ApplyFanout re-applies a propagation handed off by Increment under the
// same operation id, so requests the inline attempts reached are skipped.
func (s *Catalog) ApplyFanout(ctx context.Context, ev queue.FanoutEvent) error {
	if ev.Field != repository.RequestLike && ev.Field != repository.RequestReview {
		return fmt.Errorf("unknown fan-out field %q", ev.Field)
	}
	_, err := s.Requests.IncrementForMeal(ctx, ev.MealID, ev.Field, ev.Op)
	return err
}
