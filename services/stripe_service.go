package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// StripeService implements PaymentGateway on Stripe Checkout.
type StripeService struct {
	successURL string
	cancelURL  string
}

func NewStripeService(secretKey, clientDomain string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		successURL: clientDomain + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  clientDomain + "/dashboard/my-orders",
	}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(in.Name),
	}
	if in.Description != "" {
		productData.Description = stripe.String(in.Description)
	}
	if in.Image != "" {
		productData.Images = stripe.StringSlice([]string{in.Image})
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				ProductData: productData,
				UnitAmount:  stripe.Int64(in.UnitAmount),
			},
			Quantity: stripe.Int64(in.Quantity),
		}},
		CustomerEmail: stripe.String(in.CustomerEmail),
		SuccessURL:    stripe.String(s.successURL),
		CancelURL:     stripe.String(s.cancelURL),
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (s *StripeService) RetrieveSession(ctx context.Context, sessionID string) (*SessionState, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	state := &SessionState{
		ID:          sess.ID,
		Completed:   sess.Status == stripe.CheckoutSessionStatusComplete,
		AmountTotal: sess.AmountTotal,
		Metadata:    sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		state.TransactionID = sess.PaymentIntent.ID
	}
	return state, nil
}
