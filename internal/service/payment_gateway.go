package service

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ToMinorUnits converts a dollar price to cents, truncating fractions of a
// cent.
func ToMinorUnits(price float64) int64 {
	return int64(math.Trunc(price * 100))
}

// StripeGateway creates card payment intents in USD.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(key string) *StripeGateway {
	return &StripeGateway{api: client.New(key, nil)}
}

// CreateIntent returns the client secret of a new payment intent for
// amount cents.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
