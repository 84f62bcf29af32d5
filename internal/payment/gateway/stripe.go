package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"rishta/internal/payment/models"
)

// Stripe creates card payment intents through the Stripe API.
type Stripe struct {
	api      *client.API
	currency string
}

type StripeOption func(*stripe.Backends)

// WithAPIURL points the client at a different API host.
func WithAPIURL(url string) StripeOption {
	return func(b *stripe.Backends) {
		b.API = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(url),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
		})
	}
}

func NewStripe(secretKey, currency string, opts ...StripeOption) *Stripe {
	var backends *stripe.Backends
	if len(opts) > 0 {
		backends = &stripe.Backends{}
		for _, opt := range opts {
			opt(backends)
		}
	}
	return &Stripe{
		api:      client.New(secretKey, backends),
		currency: strings.ToLower(currency),
	}
}

func (g *Stripe) CreateIntent(ctx context.Context, amount int64) (*models.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &models.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
