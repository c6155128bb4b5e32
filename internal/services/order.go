package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	stripeClient "github.com/aaravmahajanofficial/storefront-checkout/pkg/stripe"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

// OrderService records finalized order intents and follows their payment lifecycle.
type OrderService interface {
	RecordOrder(ctx context.Context, intent *models.OrderIntent) (*models.OrderResult, error)
	GetOrder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.OrderIntent, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
}

type orderService struct {
	repo         repository.OrderIntentRepository
	stripeClient stripeClient.Client
	emailService sendgrid.EmailService
}

// NewOrderService accepts nil stripe and email clients; card payments are then refused
// and confirmations are not sent.
func NewOrderService(repo repository.OrderIntentRepository, stripeClient stripeClient.Client, emailService sendgrid.EmailService) OrderService {
	return &orderService{repo: repo, stripeClient: stripeClient, emailService: emailService}
}

func (s *orderService) RecordOrder(ctx context.Context, intent *models.OrderIntent) (*models.OrderResult, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("intentId", intent.ID.String()))

	if err := s.repo.CreateOrderIntent(ctx, intent); err != nil {
		logger.Error("Failed to persist order intent", slog.String("error", err.Error()))
		return nil, appErrors.DatabaseError("Failed to record the order").WithError(err)
	}

	result := &models.OrderResult{Success: true, OrderID: intent.ID.String(), Status: models.OrderStatusSuccess}

	if intent.PaymentProvider == models.ProviderStripe && intent.Amount > 0 {
		rejected, err := s.chargeWithStripe(ctx, intent, result)
		if err != nil {
			logger.Error("Stripe payment intent failed", slog.String("error", err.Error()))
			s.markFailed(ctx, intent.ID)
			return nil, err
		}

		if rejected {
			logger.Info("Stripe rejected the payment", slog.String("message", result.Message))
			s.markFailed(ctx, intent.ID)
			return result, nil
		}
	}

	if err := s.repo.UpdateOrderIntentStatus(ctx, intent.ID, result.Status, result.PaymentReference); err != nil {
		logger.Warn("Failed to mark order intent recorded", slog.String("error", err.Error()))
	}

	s.sendConfirmation(ctx, intent)

	logger.Info("Order recorded", slog.String("provider", string(intent.PaymentProvider)))

	return result, nil
}

// chargeWithStripe fills result from a new PaymentIntent. The order stays pending
// until the payment_intent webhook settles it. A declined or invalid request is a
// rejection; anything else is a transport error.
func (s *orderService) chargeWithStripe(ctx context.Context, intent *models.OrderIntent, result *models.OrderResult) (bool, error) {
	if s.stripeClient == nil {
		result.Success = false
		result.Message = "Card payments are not available right now"
		return true, nil
	}

	pi, err := s.stripeClient.CreatePaymentIntent(ctx, &stripeClient.PaymentIntentRequest{
		Amount:         int64(intent.Amount),
		Currency:       intent.Currency,
		Description:    "Order " + intent.ID.String(),
		ReceiptEmail:   intent.Email,
		OrderIntentID:  intent.ID.String(),
		IdempotencyKey: intent.ID.String(),
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && (stripeErr.Type == stripe.ErrorTypeCard || stripeErr.Type == stripe.ErrorTypeInvalidRequest) {
			result.Success = false
			result.Message = stripeErr.Msg
			return true, nil
		}

		return false, appErrors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	result.PaymentReference = pi.ID
	result.ClientSecret = pi.ClientSecret
	result.Status = models.OrderStatusPending
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		result.Status = models.OrderStatusSuccess
	}

	return false, nil
}

func (s *orderService) markFailed(ctx context.Context, id uuid.UUID) {
	if err := s.repo.UpdateOrderIntentStatus(ctx, id, models.OrderStatusFailed, ""); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to mark order intent failed", slog.String("intentId", id.String()), slog.String("error", err.Error()))
	}
}

func (s *orderService) sendConfirmation(ctx context.Context, intent *models.OrderIntent) {
	if s.emailService == nil || intent.Email == "" {
		return
	}

	req := confirmationEmail(intent)

	if err := s.emailService.Send(ctx, req); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to send order confirmation", slog.String("intentId", intent.ID.String()), slog.String("error", err.Error()))
	}
}

func purchaseLabel(intent *models.OrderIntent) string {
	switch {
	case intent.IsComponent && intent.ComponentID != nil:
		return "component " + *intent.ComponentID
	case intent.IsPack:
		return "pack " + intent.PackID
	case intent.IsBundle:
		return "bundle " + intent.BundleID
	default:
		return fmt.Sprintf("%d item(s)", len(intent.Items))
	}
}

func confirmationEmail(intent *models.OrderIntent) *models.EmailNotificationRequest {
	total := intent.Amount.Major() + " " + strings.ToUpper(intent.Currency)
	label := purchaseLabel(intent)

	return &models.EmailNotificationRequest{
		To:          intent.Email,
		Subject:     "Your order is confirmed",
		Content:     fmt.Sprintf("Thanks for your order of %s. Total: %s. Reference: %s.", label, total, intent.ID),
		HTMLContent: fmt.Sprintf("<p>Thanks for your order of %s.</p><p>Total: <b>%s</b></p><p>Reference: %s</p>", label, total, intent.ID),
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.OrderIntent, error) {
	intent, err := s.repo.GetOrderIntentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to get order").WithError(err)
	}

	if intent.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return intent, nil
}

func (s *orderService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	logger := middleware.LoggerFromContext(ctx)

	if s.stripeClient == nil {
		return appErrors.BadRequestError("Stripe is not configured")
	}

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		logger.Warn("Rejected stripe webhook", slog.String("error", err.Error()))
		return appErrors.BadRequestError("Invalid webhook signature").WithError(err)
	}

	var status models.OrderStatus

	switch event.Type {
	case "payment_intent.succeeded":
		status = models.OrderStatusSuccess
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = models.OrderStatusFailed
	default:
		logger.Debug("Ignoring stripe event", slog.String("type", string(event.Type)))
		return nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return appErrors.BadRequestError("Invalid payment intent payload").WithError(err)
	}

	intentID, err := uuid.Parse(pi.Metadata[stripeClient.MetadataOrderIntentID])
	if err != nil {
		logger.Warn("Stripe event without order intent", slog.String("paymentIntent", pi.ID))
		return nil
	}

	if err := s.repo.UpdateOrderIntentStatus(ctx, intentID, status, pi.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Order not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to update order").WithError(err)
	}

	logger.Info("Order payment updated", slog.String("intentId", intentID.String()), slog.String("status", string(status)))

	return nil
}
