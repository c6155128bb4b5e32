package stripe_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	stripeClient "github.com/aaravmahajanofficial/storefront-checkout/pkg/stripe"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test_secret"
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        "payment_intent.succeeded",
		"api_version": stripe.APIVersion,
		"data":        map[string]any{"object": map[string]any{"id": "pi_1", "object": "payment_intent"}},
	})
	require.NoError(t, err)

	t.Run("Success - Valid signature", func(t *testing.T) {
		client := stripeClient.NewStripeClient("sk_test_123", secret)
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret, Timestamp: time.Now()})

		event, err := client.VerifyWebhookSignature(signed.Payload, signed.Header)

		require.NoError(t, err)
		assert.Equal(t, "payment_intent.succeeded", string(event.Type))
	})

	t.Run("Failure - Wrong secret", func(t *testing.T) {
		client := stripeClient.NewStripeClient("sk_test_123", secret)
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: "whsec_other", Timestamp: time.Now()})

		_, err := client.VerifyWebhookSignature(signed.Payload, signed.Header)

		assert.Error(t, err)
	})

	t.Run("Failure - Secret not configured", func(t *testing.T) {
		client := stripeClient.NewStripeClient("sk_test_123", "")

		_, err := client.VerifyWebhookSignature(payload, fmt.Sprintf("t=%d,v1=abc", time.Now().Unix()))

		assert.ErrorContains(t, err, "webhook secret not configured")
	})
}
