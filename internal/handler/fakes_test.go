package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/repository"
	"github.com/iliyamo/dining-hall/internal/service"
)

// do sends one JSON request through e.
func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var errDown = errors.New("store down")

// fakeMealStore keeps meals keyed by id.  The id "bad" behaves like a
// malformed identifier.
type fakeMealStore struct {
	mu       sync.Mutex
	meals    map[string]*model.Meal
	lastQ    model.MealQuery
	lastSort *model.Sort
	likers   []string
	getErr   error
}

func (f *fakeMealStore) ListAvailable(_ context.Context, q model.MealQuery) ([]model.Meal, error) {
	f.lastQ = q
	var out []model.Meal
	for _, m := range f.meals {
		if m.Status == model.MealAvailable {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMealStore) ListByStatus(_ context.Context, status model.MealStatus, sort *model.Sort) ([]model.Meal, error) {
	f.lastSort = sort
	var out []model.Meal
	for _, m := range f.meals {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMealStore) ListAll(_ context.Context, sort *model.Sort) ([]model.Meal, error) {
	f.lastSort = sort
	return nil, nil
}

func (f *fakeMealStore) Get(_ context.Context, id string) (*model.Meal, error) {
	if id == "bad" {
		return nil, repository.ErrInvalidID
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meals[id], nil
}

func (f *fakeMealStore) Update(_ context.Context, id string, e model.MealEdit) (model.UpdateResult, error) {
	if id == "bad" {
		return model.UpdateResult{}, repository.ErrInvalidID
	}
	m, ok := f.meals[id]
	if !ok {
		return model.UpdateResult{Acknowledged: true}, nil
	}
	m.Name, m.Category, m.Price, m.Image, m.Rating = e.Name, e.Category, e.Price, e.Image, e.Rating
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeMealStore) SetStatus(_ context.Context, id string, status model.MealStatus) (model.UpdateResult, error) {
	m, ok := f.meals[id]
	if !ok {
		return model.UpdateResult{Acknowledged: true}, nil
	}
	m.Status = status
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeMealStore) SetLikeArray(_ context.Context, _ string, likers []string) (model.UpdateResult, error) {
	f.likers = likers
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeMealStore) Delete(_ context.Context, id string) (model.DeleteResult, error) {
	if id == "bad" {
		return model.DeleteResult{}, repository.ErrInvalidID
	}
	_, ok := f.meals[id]
	delete(f.meals, id)
	if ok {
		return model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
	}
	return model.DeleteResult{Acknowledged: true}, nil
}

type fakeCatalog struct {
	createdBy string
	created   *model.Meal
	counters  map[string]service.Counter
}

func (f *fakeCatalog) CreateMeal(_ context.Context, email string, m *model.Meal) (model.InsertResult, error) {
	f.createdBy, f.created = email, m
	return model.InsertResult{Acknowledged: true, InsertedID: "new-meal"}, nil
}

func (f *fakeCatalog) Increment(_ context.Context, mealID string, c service.Counter) (model.UpdateResult, error) {
	if mealID == "bad" {
		return model.UpdateResult{}, repository.ErrInvalidID
	}
	if f.counters == nil {
		f.counters = map[string]service.Counter{}
	}
	f.counters[mealID] = c
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

type fakeReviewStore struct {
	reviews []model.Review
	err     error
	liked   string
}

func (f *fakeReviewStore) Create(_ context.Context, rv *model.Review) (model.InsertResult, error) {
	f.reviews = append(f.reviews, *rv)
	return model.InsertResult{Acknowledged: true, InsertedID: "r"}, nil
}

func (f *fakeReviewStore) List(context.Context) ([]model.Review, error) {
	return f.reviews, f.err
}

func (f *fakeReviewStore) ListByMeal(_ context.Context, mealID string) ([]model.Review, error) {
	var out []model.Review
	for _, rv := range f.reviews {
		if rv.MealID == mealID {
			out = append(out, rv)
		}
	}
	return out, f.err
}

func (f *fakeReviewStore) ListByEmail(_ context.Context, email string) ([]model.Review, error) {
	var out []model.Review
	for _, rv := range f.reviews {
		if rv.Email == email {
			out = append(out, rv)
		}
	}
	return out, f.err
}

func (f *fakeReviewStore) FindByEmailTitle(_ context.Context, email, title string) (*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, rv := range f.reviews {
		if rv.Email == email && rv.Title == title {
			return &rv, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewStore) UpdateText(context.Context, string, string) (model.UpdateResult, error) {
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeReviewStore) MarkLiked(_ context.Context, mealID string) (model.UpdateResult, error) {
	f.liked = mealID
	return model.UpdateResult{Acknowledged: true}, nil
}

func (f *fakeReviewStore) Delete(context.Context, string) (model.DeleteResult, error) {
	return model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// fakeUserStore mimics the unique email index.
type fakeUserStore struct {
	users map[string]*model.User
	about map[string]any
	badge string
}

func (f *fakeUserStore) List(_ context.Context, q model.UserQuery) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if q.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Name)) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.users[email], nil
}

func (f *fakeUserStore) CreateIfAbsent(_ context.Context, u *model.User) (model.InsertResult, bool, error) {
	if u.Email == "" {
		return model.InsertResult{}, false, repository.ErrEmptyEmail
	}
	if _, ok := f.users[u.Email]; ok {
		return model.InsertResult{}, false, nil
	}
	if f.users == nil {
		f.users = map[string]*model.User{}
	}
	f.users[u.Email] = u
	return model.InsertResult{Acknowledged: true, InsertedID: fmt.Sprintf("u%d", len(f.users))}, true, nil
}

func (f *fakeUserStore) SetBadge(_ context.Context, _ string, badge string) (model.UpdateResult, error) {
	f.badge = badge
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeUserStore) SetAbout(_ context.Context, _ string, about map[string]any) (model.UpdateResult, error) {
	f.about = about
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeUserStore) PromoteToAdmin(context.Context, string) (model.UpdateResult, error) {
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeUserStore) Delete(context.Context, string) (model.DeleteResult, error) {
	return model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type fakePaymentStore struct {
	payments []model.Payment
}

func (f *fakePaymentStore) Create(_ context.Context, p *model.Payment) (model.InsertResult, error) {
	f.payments = append(f.payments, *p)
	return model.InsertResult{Acknowledged: true, InsertedID: "p1"}, nil
}

func (f *fakePaymentStore) ListByEmail(_ context.Context, email string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeGateway struct {
	amount int64
	err    error
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64) (string, error) {
	f.amount = amount
	if f.err != nil {
		return "", f.err
	}
	return "pi_secret", nil
}
