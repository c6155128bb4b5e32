package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

type (
	Event         = stripe.Event
	PaymentIntent = stripe.PaymentIntent
)

// MetadataOrderIntentID links a PaymentIntent back to the order intent that created it.
const MetadataOrderIntentID = "order_intent_id"

type PaymentIntentRequest struct {
	Amount         int64
	Currency       string
	Description    string
	ReceiptEmail   string
	OrderIntentID  string
	IdempotencyKey string
}

// defines the methods that any of payment client must implement.
type Client interface {
	CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*stripe.PaymentIntent, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

// PaymentIntent == "planned payment" or order waiting for payment.
func (s *stripeClient) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}

	if req.OrderIntentID != "" {
		params.AddMetadata(MetadataOrderIntentID, req.OrderIntentID)
	}

	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	return paymentintent.New(params)
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
