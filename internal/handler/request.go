package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
)

type RequestStore interface {
	Create(ctx context.Context, req *model.Request) (model.InsertResult, error)
	List(ctx context.Context, q model.RequestQuery) ([]model.Request, error)
	ListByEmail(ctx context.Context, email string) ([]model.Request, error)
	MarkServed(ctx context.Context, id string) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// RequestHandler serves meal requests.
type RequestHandler struct {
	Requests RequestStore
}

func NewRequestHandler(requests RequestStore) *RequestHandler {
	if requests == nil {
		panic("nil dependency passed to NewRequestHandler")
	}
	return &RequestHandler{Requests: requests}
}

func (h *RequestHandler) Create(c echo.Context) error {
	var req model.Request
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Requests.Create(c.Request().Context(), &req)
	return inserted(c, res, err)
}

// List serves GET /request?userName&email.  userName wins over email.
func (h *RequestHandler) List(c echo.Context) error {
	q := model.RequestQuery{Name: c.QueryParam("userName"), Email: c.QueryParam("email")}
	reqs, err := h.Requests.List(c.Request().Context(), q)
	return list(c, reqs, err)
}

func (h *RequestHandler) ListByEmail(c echo.Context) error {
	reqs, err := h.Requests.ListByEmail(c.Request().Context(), c.Param("email"))
	return list(c, reqs, err)
}

// Serve serves PATCH /request/:id.
func (h *RequestHandler) Serve(c echo.Context) error {
	res, err := h.Requests.MarkServed(c.Request().Context(), c.Param("id"))
	return updated(c, res, err)
}

func (h *RequestHandler) Delete(c echo.Context) error {
	res, err := h.Requests.Delete(c.Request().Context(), c.Param("id"))
	return deleted(c, res, err)
}
