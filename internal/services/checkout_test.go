package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	repoMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	serviceMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc      service.CheckoutService
	recorder *serviceMocks.MockOrderService
	limiter  *repoMocks.MockRateLimitRepository
	owner    checkout.Owner
}

func newCheckoutFixture(t *testing.T, cfg config.Checkout) *checkoutFixture {
	t.Helper()

	promos := serviceMocks.NewMockPromoCodeService(t)
	promos.On("FindPromoCode", mock.Anything, "TENOFF").
		Return(&models.PromoCode{Code: "TENOFF", Kind: models.PromoKindFixed, AmountOff: 1000, Active: true}, nil).Maybe()
	promos.On("FindPromoCode", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	engine, err := pricing.NewEngine(config.Pricing{TaxRate: "0.08", ShippingFlat: 500, Currency: "usd"}, promos)
	require.NoError(t, err)

	catalog, err := checkout.NewCatalog(nil)
	require.NoError(t, err)

	f := &checkoutFixture{
		recorder: serviceMocks.NewMockOrderService(t),
		limiter:  repoMocks.NewMockRateLimitRepository(t),
		owner:    checkout.Owner{UserID: uuid.New(), Email: "shopper@example.com"},
	}
	f.svc = service.NewCheckoutService(engine, catalog, f.recorder, f.limiter, cfg)

	return f
}

var cartItems = []models.LineItem{{ID: "sku-1", Name: "Widget", UnitPrice: 2000, Quantity: 2}}

// readyToSubmit walks a new session to the confirmation step.
func (f *checkoutFixture) readyToSubmit(t *testing.T, ctx context.Context) uuid.UUID {
	t.Helper()

	view, err := f.svc.StartSession(ctx, f.owner, cartItems)
	require.NoError(t, err)
	id := view.SessionID

	_, err = f.svc.Next(ctx, f.owner.UserID, id)
	require.NoError(t, err)
	_, err = f.svc.SetBilling(ctx, f.owner.UserID, id, models.Billing{Address: "42 Main Road", ZipCode: "10001"})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, f.owner.UserID, id)
	require.NoError(t, err)
	_, err = f.svc.SelectProvider(ctx, f.owner.UserID, id, models.ProviderPayPal)
	require.NoError(t, err)
	view, err = f.svc.Next(ctx, f.owner.UserID, id)
	require.NoError(t, err)
	require.Equal(t, checkout.StepConfirmation.String(), view.Step)

	return id
}

func TestCheckoutService_Sessions(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Start Session With Items", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})

		// Act
		view, err := f.svc.StartSession(ctx, f.owner, cartItems)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "cart", view.Step)
		assert.NotEqual(t, uuid.Nil, view.SessionID)
		assert.Equal(t, models.Money(4000), view.Quote.Subtotal)
		assert.Equal(t, models.Money(320), view.Quote.Tax)
		assert.Equal(t, models.Money(4820), view.Quote.Total)
	})

	t.Run("Failure - Start Session With Invalid Items", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})

		// Act
		view, err := f.svc.StartSession(ctx, f.owner, []models.LineItem{{ID: "sku-1", UnitPrice: -5, Quantity: 1}})

		// Assert
		assert.Nil(t, view)
		assert.Error(t, err)
	})

	t.Run("Failure - Unknown Session", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})

		// Act
		view, err := f.svc.GetSession(ctx, f.owner.UserID, uuid.New())

		// Assert
		assert.Nil(t, view)
		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Another User's Session", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		view, err := f.svc.StartSession(ctx, f.owner, nil)
		require.NoError(t, err)

		// Act
		_, err = f.svc.SetItems(ctx, uuid.New(), view.SessionID, cartItems)

		// Assert
		assertAppCode(t, err, appErrors.ErrCodeForbidden)
	})

	t.Run("Success - Cart Editing And Promo", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		view, err := f.svc.StartSession(ctx, f.owner, nil)
		require.NoError(t, err)
		id := view.SessionID

		// Act
		_, err = f.svc.SetItems(ctx, f.owner.UserID, id, []models.LineItem{
			{ID: "sku-1", UnitPrice: 2000, Quantity: 2},
			{ID: "sku-2", UnitPrice: 500, Quantity: 1},
		})
		require.NoError(t, err)
		_, err = f.svc.UpdateItemQuantity(ctx, f.owner.UserID, id, "sku-2", 3)
		require.NoError(t, err)
		_, err = f.svc.RemoveItem(ctx, f.owner.UserID, id, "sku-1")
		require.NoError(t, err)
		view, err = f.svc.ApplyPromoCode(ctx, f.owner.UserID, id, "tenoff")

		// Assert
		assert.NoError(t, err)
		assert.Len(t, view.Items, 1)
		assert.Equal(t, "TENOFF", view.PromoCode)
		assert.Equal(t, models.Money(1500), view.Quote.Subtotal)
		assert.Equal(t, models.Money(1000), view.Quote.Discount)

		view, err = f.svc.ClearPromoCode(ctx, f.owner.UserID, id)
		assert.NoError(t, err)
		assert.Empty(t, view.PromoCode)
		assert.Zero(t, view.Quote.Discount)
	})

	t.Run("Failure - Unknown Promo Code", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		view, err := f.svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)

		// Act
		_, err = f.svc.ApplyPromoCode(ctx, f.owner.UserID, view.SessionID, "BOGUS")

		// Assert
		assertAppCode(t, err, appErrors.ErrCodePromoCodeInvalid)
	})

	t.Run("Success - Purchase Selection And Back", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		id := f.readyToSubmit(t, ctx)

		// Act
		view, err := f.svc.SelectPurchase(ctx, f.owner.UserID, id, &models.SelectPurchaseRequest{Kind: models.PurchaseBundle, ID: "bundle-1"})
		require.NoError(t, err)
		view, err = f.svc.Back(ctx, f.owner.UserID, id)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "payment", view.Step)
		assert.Equal(t, "bundle-1", view.Purchase.BundleID)
		assert.Equal(t, models.ProviderPayPal, view.Provider)
		assert.Equal(t, "42 Main Road", view.Billing.Address)
	})

	t.Run("Success - Cancel Discards Session", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		view, err := f.svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)

		// Act
		view, err = f.svc.Cancel(ctx, f.owner.UserID, view.SessionID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "cancelled", view.Step)
		assert.Empty(t, view.Items)

		_, err = f.svc.GetSession(ctx, f.owner.UserID, view.SessionID)
		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Success - List Providers And Quote", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})

		// Act
		providers := f.svc.ListProviders(ctx)
		quote, err := f.svc.Quote(ctx, &models.QuoteRequest{Items: cartItems, PromoCode: "TENOFF"})

		// Assert
		assert.Len(t, providers, 5)
		assert.NoError(t, err)
		assert.Equal(t, models.Money(1000), quote.Discount)
		assert.Equal(t, models.Money(4000+240+500-1000), quote.Total)
	})
}

func TestCheckoutService_Submit(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Order Recorded", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{SubmitTimeout: time.Second})
		id := f.readyToSubmit(t, ctx)

		f.limiter.On("CheckSubmitRateLimit", ctx, f.owner.UserID.String()).Return(true, 1, 0, nil).Once()
		f.recorder.On("RecordOrder", mock.Anything, mock.MatchedBy(func(intent *models.OrderIntent) bool {
			return intent.Amount == 4820 && intent.UserID == f.owner.UserID && intent.PaymentProvider == models.ProviderPayPal
		})).Return(&models.OrderResult{Success: true, OrderID: "ord-1"}, nil).Once()

		// Act
		view, err := f.svc.Submit(ctx, f.owner.UserID, id)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "success", view.Step)
		assert.Equal(t, "ord-1", view.Result.OrderID)
		assert.Equal(t, models.OrderStatusSuccess, view.Intent.Status)
	})

	t.Run("Success - Rejection Surfaces In View", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		id := f.readyToSubmit(t, ctx)

		f.limiter.On("CheckSubmitRateLimit", ctx, f.owner.UserID.String()).Return(true, 1, 0, nil).Once()
		f.recorder.On("RecordOrder", mock.Anything, mock.Anything).
			Return(&models.OrderResult{Success: false, Message: "Insufficient funds"}, nil).Once()

		// Act
		view, err := f.svc.Submit(ctx, f.owner.UserID, id)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "failed", view.Step)
		assert.Equal(t, "Insufficient funds", view.LastError)
		assert.Equal(t, appErrors.ErrCodeSubmissionFailed, view.ErrorCode)

		view, err = f.svc.Retry(ctx, f.owner.UserID, id)
		assert.NoError(t, err)
		assert.Equal(t, "confirmation", view.Step)
		assert.Len(t, view.Items, 1)
	})

	t.Run("Success - Limiter Failure Allows Submission", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		id := f.readyToSubmit(t, ctx)

		f.limiter.On("CheckSubmitRateLimit", ctx, f.owner.UserID.String()).Return(false, 0, 0, errors.New("redis down")).Once()
		f.recorder.On("RecordOrder", mock.Anything, mock.Anything).Return(&models.OrderResult{Success: true}, nil).Once()

		// Act
		view, err := f.svc.Submit(ctx, f.owner.UserID, id)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "success", view.Step)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		id := f.readyToSubmit(t, ctx)

		f.limiter.On("CheckSubmitRateLimit", ctx, f.owner.UserID.String()).Return(false, 6, 30, nil).Once()

		// Act
		view, err := f.svc.Submit(ctx, f.owner.UserID, id)

		// Assert
		assert.Nil(t, view)
		assertAppCode(t, err, appErrors.ErrCodeTooManyRequests)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, "Retry after 30 seconds", appErr.Detail)
		f.recorder.AssertNotCalled(t, "RecordOrder", mock.Anything, mock.Anything)

		current, err := f.svc.GetSession(ctx, f.owner.UserID, id)
		assert.NoError(t, err)
		assert.Equal(t, "confirmation", current.Step)
	})

	t.Run("Failure - Submit Before Confirmation", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		view, err := f.svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)

		f.limiter.On("CheckSubmitRateLimit", ctx, f.owner.UserID.String()).Return(true, 1, 0, nil).Once()

		// Act
		_, err = f.svc.Submit(ctx, f.owner.UserID, view.SessionID)

		// Assert
		assertAppCode(t, err, appErrors.ErrCodeInvalidTransition)
	})

	t.Run("Success - Without Limiter", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		engine, err := pricing.NewEngine(config.Pricing{TaxRate: "0", Currency: "usd"}, nil)
		require.NoError(t, err)
		catalog, err := checkout.NewCatalog([]string{"other"})
		require.NoError(t, err)
		svc := service.NewCheckoutService(engine, catalog, f.recorder, nil, config.Checkout{})

		view, err := svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)
		id := view.SessionID
		_, err = svc.Next(ctx, f.owner.UserID, id)
		require.NoError(t, err)
		_, err = svc.SetBilling(ctx, f.owner.UserID, id, models.Billing{Address: "7 Harbour Street"})
		require.NoError(t, err)
		_, err = svc.Next(ctx, f.owner.UserID, id)
		require.NoError(t, err)
		_, err = svc.SelectProvider(ctx, f.owner.UserID, id, models.ProviderOther)
		require.NoError(t, err)
		_, err = svc.Next(ctx, f.owner.UserID, id)
		require.NoError(t, err)

		f.recorder.On("RecordOrder", mock.Anything, mock.Anything).Return(&models.OrderResult{Success: true}, nil).Once()

		// Act
		view, err = svc.Submit(ctx, f.owner.UserID, id)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "success", view.Step)
		assert.Equal(t, models.Money(4000), view.Intent.Amount)
	})
}

func TestCheckoutService_EvictIdle(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Idle Sessions Removed", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{SessionIdleTTL: time.Minute})
		view, err := f.svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)

		// Act
		kept := f.svc.EvictIdle(time.Now())
		evicted := f.svc.EvictIdle(time.Now().Add(2 * time.Minute))

		// Assert
		assert.Zero(t, kept)
		assert.Equal(t, 1, evicted)
		_, err = f.svc.GetSession(ctx, f.owner.UserID, view.SessionID)
		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Success - Disabled Without TTL", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t, config.Checkout{})
		_, err := f.svc.StartSession(ctx, f.owner, cartItems)
		require.NoError(t, err)

		// Act
		evicted := f.svc.EvictIdle(time.Now().Add(24 * time.Hour))

		// Assert
		assert.Zero(t, evicted)
	})
}
