package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrInvalidPrice is returned for prices that cannot be charged
var ErrInvalidPrice = errors.New("invalid price")

// StripeGateway creates payment intents through the Stripe API
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway authenticated with secretKey
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

// CreatePaymentIntent creates an intent for amount minor units and returns its client secret
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, methods []string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice(methods),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// ToCents converts a decimal price in currency units to whole minor units,
// truncating anything past the second decimal place. The conversion works on
// the decimal text so 19.99 becomes 1999 rather than float64's 1998.
func ToCents(price string) (int64, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.Abs(f) > 9e16 {
			return 0, ErrInvalidPrice
		}
		return int64(math.Trunc(f*100 + math.Copysign(1e-9, f))), nil
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidPrice
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, ErrInvalidPrice
	}
	frac = (frac + "00")[:2]

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, ErrInvalidPrice
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
