package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/repository"
)

const reviewsFailed = "An error occurred while fetching reviews"

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) (model.InsertResult, error)
	List(ctx context.Context) ([]model.Review, error)
	ListByMeal(ctx context.Context, mealID string) ([]model.Review, error)
	ListByEmail(ctx context.Context, email string) ([]model.Review, error)
	FindByEmailTitle(ctx context.Context, email, title string) (*model.Review, error)
	UpdateText(ctx context.Context, id, text string) (model.UpdateResult, error)
	MarkLiked(ctx context.Context, mealID string) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// MealGetter resolves the meal a review points at.
type MealGetter interface {
	Get(ctx context.Context, id string) (*model.Meal, error)
}

type ReviewHandler struct {
	Reviews ReviewStore
	Meals   MealGetter
	// JoinLimit bounds concurrent meal lookups while joining a listing.
	JoinLimit int
}

func NewReviewHandler(reviews ReviewStore, meals MealGetter) *ReviewHandler {
	if reviews == nil || meals == nil {
		panic("nil dependency passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Meals: meals, JoinLimit: 8}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var rv model.Review
	if err := bindBody(c, &rv); err != nil {
		return err
	}
	res, err := h.Reviews.Create(c.Request().Context(), &rv)
	return inserted(c, res, err)
}

// List serves GET /reviews, every review joined with its meal.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	reviews, err := h.Reviews.List(ctx)
	if err == nil {
		var joined []model.ReviewWithMeal
		if joined, err = h.join(ctx, reviews); err == nil {
			return c.JSON(http.StatusOK, joined)
		}
	}
	log.Error().Err(err).Msg("list reviews")
	return c.String(http.StatusInternalServerError, reviewsFailed)
}

// ListByEmail serves GET /reviews-email/:email, joined like List.
func (h *ReviewHandler) ListByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	reviews, err := h.Reviews.ListByEmail(ctx, c.Param("email"))
	if err == nil {
		var joined []model.ReviewWithMeal
		if joined, err = h.join(ctx, reviews); err == nil {
			return c.JSON(http.StatusOK, joined)
		}
	}
	log.Error().Err(err).Str("email", c.Param("email")).Msg("list reviews by email")
	return c.String(http.StatusInternalServerError, reviewsFailed)
}

// FindByEmailTitle serves GET /reviews-email-title/:email?title=.
func (h *ReviewHandler) FindByEmailTitle(c echo.Context) error {
	rv, err := h.Reviews.FindByEmailTitle(c.Request().Context(), c.Param("email"), c.QueryParam("title"))
	if err != nil {
		log.Error().Err(err).Str("email", c.Param("email")).Msg("find review by title")
		return c.String(http.StatusInternalServerError, reviewsFailed)
	}
	return c.JSON(http.StatusOK, rv)
}

// ListByMeal serves GET /reviews/:id; id is the meal id.
func (h *ReviewHandler) ListByMeal(c echo.Context) error {
	reviews, err := h.Reviews.ListByMeal(c.Request().Context(), c.Param("id"))
	return list(c, reviews, err)
}

func (h *ReviewHandler) UpdateText(c echo.Context) error {
	var body struct {
		Review string `json:"review"`
	}
	if err := bindBody(c, &body); err != nil {
		return err
	}
	res, err := h.Reviews.UpdateText(c.Request().Context(), c.Param("id"), body.Review)
	return updated(c, res, err)
}

// MarkLiked serves PATCH /review-like/:id; id is the meal id.
func (h *ReviewHandler) MarkLiked(c echo.Context) error {
	res, err := h.Reviews.MarkLiked(c.Request().Context(), c.Param("id"))
	return updated(c, res, err)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	res, err := h.Reviews.Delete(c.Request().Context(), c.Param("id"))
	return deleted(c, res, err)
}

// join attaches each review's meal.  Lookups run concurrently and the
// output keeps the input order.  A review pointing at a malformed or
// deleted meal gets a nil MealInfo; any other lookup failure fails the
// whole join.
func (h *ReviewHandler) join(ctx context.Context, reviews []model.Review) ([]model.ReviewWithMeal, error) {
	out := make([]model.ReviewWithMeal, len(reviews))
	g, gctx := errgroup.WithContext(ctx)
	if h.JoinLimit > 0 {
		g.SetLimit(h.JoinLimit)
	}
	for i := range reviews {
		out[i].Review = reviews[i]
		g.Go(func() error {
			m, err := h.Meals.Get(gctx, reviews[i].MealID)
			if errors.Is(err, repository.ErrInvalidID) {
				return nil
			}
			if err != nil {
				return err
			}
			out[i].MealInfo = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
