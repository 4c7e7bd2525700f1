package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/service"
)

// PaymentStore is the payment ledger, either the document store or MySQL.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) (model.InsertResult, error)
	ListByEmail(ctx context.Context, email string) ([]model.Payment, error)
}

// IntentCreator creates a payment intent for an amount in cents and
// returns its client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

type PaymentHandler struct {
	Payments PaymentStore
	Gateway  IntentCreator
}

func NewPaymentHandler(payments PaymentStore, gateway IntentCreator) *PaymentHandler {
	if payments == nil || gateway == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Gateway: gateway}
}

// CreateIntent serves POST /create-payment-intent.  price is in dollars.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var body struct {
		Price float64 `json:"price"`
	}
	if err := bindBody(c, &body); err != nil {
		return err
	}
	amount := service.ToMinorUnits(body.Price)
	if amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	secret, err := h.Gateway.CreateIntent(c.Request().Context(), amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": secret})
}

// Record serves POST /payments.  The record is stored as submitted; the
// intent is not checked with the gateway.
func (h *PaymentHandler) Record(c echo.Context) error {
	var p model.Payment
	if err := bindBody(c, &p); err != nil {
		return err
	}
	p.ID = ""
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	res, err := h.Payments.Create(c.Request().Context(), &p)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"paymentResult": res})
}

func (h *PaymentHandler) ListByEmail(c echo.Context) error {
	payments, err := h.Payments.ListByEmail(c.Request().Context(), c.Param("email"))
	return list(c, payments, err)
}
