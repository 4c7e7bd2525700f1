package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
)

type ComplaintStore interface {
	Create(ctx context.Context, c *model.Complaint) (model.InsertResult, error)
	List(ctx context.Context) ([]model.Complaint, error)
	ListByEmail(ctx context.Context, email string) ([]model.Complaint, error)
	UpdateDetails(ctx context.Context, id, details string) (model.UpdateResult, error)
	UpdateStatus(ctx context.Context, id, status string) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

type ComplaintHandler struct {
	Complaints ComplaintStore
}

func NewComplaintHandler(complaints ComplaintStore) *ComplaintHandler {
	if complaints == nil {
		panic("nil dependency passed to NewComplaintHandler")
	}
	return &ComplaintHandler{Complaints: complaints}
}

func (h *ComplaintHandler) Create(c echo.Context) error {
	var cm model.Complaint
	if err := bindBody(c, &cm); err != nil {
		return err
	}
	res, err := h.Complaints.Create(c.Request().Context(), &cm)
	return inserted(c, res, err)
}

func (h *ComplaintHandler) List(c echo.Context) error {
	items, err := h.Complaints.List(c.Request().Context())
	return list(c, items, err)
}

func (h *ComplaintHandler) ListByEmail(c echo.Context) error {
	items, err := h.Complaints.ListByEmail(c.Request().Context(), c.Param("email"))
	return list(c, items, err)
}

func (h *ComplaintHandler) UpdateDetails(c echo.Context) error {
	var body struct {
		Details string `json:"details"`
	}
	if err := bindBody(c, &body); err != nil {
		return err
	}
	res, err := h.Complaints.UpdateDetails(c.Request().Context(), c.Param("id"), body.Details)
	return updated(c, res, err)
}

// ChangeStatus serves PATCH /changeStatus/:id.
func (h *ComplaintHandler) ChangeStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := bindBody(c, &body); err != nil {
		return err
	}
	res, err := h.Complaints.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
	return updated(c, res, err)
}

func (h *ComplaintHandler) Delete(c echo.Context) error {
	res, err := h.Complaints.Delete(c.Request().Context(), c.Param("id"))
	return deleted(c, res, err)
}
