package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
)

type fakeRequestStore struct {
	created []model.Request
	lastQ   model.RequestQuery
	served  string
}

func (f *fakeRequestStore) Create(_ context.Context, req *model.Request) (model.InsertResult, error) {
	f.created = append(f.created, *req)
	return model.InsertResult{Acknowledged: true, InsertedID: "q1"}, nil
}

func (f *fakeRequestStore) List(_ context.Context, q model.RequestQuery) ([]model.Request, error) {
	f.lastQ = q
	return nil, nil
}

func (f *fakeRequestStore) ListByEmail(_ context.Context, email string) ([]model.Request, error) {
	var out []model.Request
	for _, r := range f.created {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) MarkServed(_ context.Context, id string) (model.UpdateResult, error) {
	f.served = id
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeRequestStore) Delete(context.Context, string) (model.DeleteResult, error) {
	return model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func TestRequests(t *testing.T) {
	store := &fakeRequestStore{}
	h := NewRequestHandler(store)
	e := echo.New()
	e.POST("/request", h.Create)
	e.GET("/request", h.List)
	e.GET("/request/:email", h.ListByEmail)
	e.PATCH("/request/:id", h.Serve)
	e.DELETE("/request/:id", h.Delete)

	rec := do(e, http.MethodPost, "/request", `{"requestId":"m1","email":"a@x.com","title":"Soup"}`)
	if rec.Code != http.StatusOK || store.created[0].MealID != "m1" {
		t.Fatalf("create: %d %+v", rec.Code, store.created)
	}

	do(e, http.MethodGet, "/request?userName=ann&email=a@x.com", "")
	if store.lastQ != (model.RequestQuery{Name: "ann", Email: "a@x.com"}) {
		t.Errorf("query = %+v", store.lastQ)
	}

	rec = do(e, http.MethodGet, "/request/a@x.com", "")
	if !strings.Contains(rec.Body.String(), `"requestId":"m1"`) {
		t.Errorf("by email = %s", rec.Body.String())
	}

	do(e, http.MethodPatch, "/request/r9", "")
	if store.served != "r9" {
		t.Errorf("served = %q", store.served)
	}
}
