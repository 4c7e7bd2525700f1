package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/repository"
	"github.com/iliyamo/dining-hall/internal/service"
)

// MealStore is the meal storage used by MealHandler.
type MealStore interface {
	ListAvailable(ctx context.Context, q model.MealQuery) ([]model.Meal, error)
	ListByStatus(ctx context.Context, status model.MealStatus, sort *model.Sort) ([]model.Meal, error)
	ListAll(ctx context.Context, sort *model.Sort) ([]model.Meal, error)
	Get(ctx context.Context, id string) (*model.Meal, error)
	Update(ctx context.Context, id string, e model.MealEdit) (model.UpdateResult, error)
	SetStatus(ctx context.Context, id string, status model.MealStatus) (model.UpdateResult, error)
	SetLikeArray(ctx context.Context, id string, likers []string) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// MealCatalog performs the meal writes that also touch other collections.
type MealCatalog interface {
	CreateMeal(ctx context.Context, email string, m *model.Meal) (model.InsertResult, error)
	Increment(ctx context.Context, mealID string, c service.Counter) (model.UpdateResult, error)
}

type MealHandler struct {
	Meals   MealStore
	Catalog MealCatalog
}

func NewMealHandler(meals MealStore, catalog MealCatalog) *MealHandler {
	if meals == nil || catalog == nil {
		panic("nil dependency passed to NewMealHandler")
	}
	return &MealHandler{Meals: meals, Catalog: catalog}
}

// ListAvailable serves GET /meals.  The status filter is always applied;
// name, category and range only narrow it.  range is a minimum price and
// any fractional part is dropped.
func (h *MealHandler) ListAvailable(c echo.Context) error {
	q := model.MealQuery{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}
	if raw := strings.TrimSpace(c.QueryParam("range")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid range")
		}
		v = math.Trunc(v)
		q.MinPrice = &v
	}
	meals, err := h.Meals.ListAvailable(c.Request().Context(), q)
	return list(c, meals, err)
}

// ListUpcoming serves GET /mealsUpcoming.
func (h *MealHandler) ListUpcoming(c echo.Context) error {
	meals, err := h.Meals.ListByStatus(c.Request().Context(), model.MealUpcoming, nil)
	return list(c, meals, err)
}

// ListUpcomingByLikes serves GET /upcomingMeals, least liked first.
func (h *MealHandler) ListUpcomingByLikes(c echo.Context) error {
	sort := &model.Sort{Field: repository.MealLikeCount, Order: 1}
	meals, err := h.Meals.ListByStatus(c.Request().Context(), model.MealUpcoming, sort)
	return list(c, meals, err)
}

// ListAdmin serves GET /mealsAdmin.  likeSort takes precedence over
// reviewSort; without either the listing is unsorted.
func (h *MealHandler) ListAdmin(c echo.Context) error {
	sort, err := adminSort(c.QueryParam("likeSort"), c.QueryParam("reviewSort"))
	if err != nil {
		return err
	}
	meals, err := h.Meals.ListAll(c.Request().Context(), sort)
	return list(c, meals, err)
}

func adminSort(likeSort, reviewSort string) (*model.Sort, error) {
	if likeSort != "" {
		order, err := parseSortOrder(likeSort)
		if err != nil {
			return nil, err
		}
		return &model.Sort{Field: repository.MealLikeCount, Order: order}, nil
	}
	if reviewSort != "" {
		order, err := parseSortOrder(reviewSort)
		if err != nil {
			return nil, err
		}
		return &model.Sort{Field: repository.MealReviewCount, Order: order}, nil
	}
	return nil, nil
}

// Create serves POST /meals/:email.  The meal is stored as posted and the
// poster's foodCount is incremented.
func (h *MealHandler) Create(c echo.Context) error {
	var m model.Meal
	if err := bindBody(c, &m); err != nil {
		return err
	}
	res, err := h.Catalog.CreateMeal(c.Request().Context(), c.Param("email"), &m)
	return inserted(c, res, err)
}

func (h *MealHandler) Get(c echo.Context) error {
	m, err := h.Meals.Get(c.Request().Context(), c.Param("id"))
	return found(c, m, err)
}

func (h *MealHandler) Update(c echo.Context) error {
	var e model.MealEdit
	if err := bindBody(c, &e); err != nil {
		return err
	}
	res, err := h.Meals.Update(c.Request().Context(), c.Param("id"), e)
	return updated(c, res, err)
}

// Publish serves PATCH /upcomingMeals/:id, moving an upcoming meal to the
// available listing.
func (h *MealHandler) Publish(c echo.Context) error {
	res, err := h.Meals.SetStatus(c.Request().Context(), c.Param("id"), model.MealAvailable)
	return updated(c, res, err)
}

func (h *MealHandler) Delete(c echo.Context) error {
	res, err := h.Meals.Delete(c.Request().Context(), c.Param("id"))
	return deleted(c, res, err)
}

// Like serves PATCH /likeCount/:id.
func (h *MealHandler) Like(c echo.Context) error {
	res, err := h.Catalog.Increment(c.Request().Context(), c.Param("id"), service.Likes)
	return updated(c, res, err)
}

// CountReview serves PATCH /mealsReview/:id.
func (h *MealHandler) CountReview(c echo.Context) error {
	res, err := h.Catalog.Increment(c.Request().Context(), c.Param("id"), service.Reviews)
	return updated(c, res, err)
}

// SetLikers serves PATCH /meals-likeArray/:id.  The body is the complete
// new list.
func (h *MealHandler) SetLikers(c echo.Context) error {
	var likers []string
	if err := bindBody(c, &likers); err != nil {
		return err
	}
	res, err := h.Meals.SetLikeArray(c.Request().Context(), c.Param("id"), likers)
	return updated(c, res, err)
}
