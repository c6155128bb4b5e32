package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	pathParams := map[string]string{"id": orderID.String()}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		order := &models.OrderIntent{ID: orderID, UserID: userID, Amount: 10220, Currency: "usd", Status: models.OrderStatusSuccess}
		mockService.On("GetOrder", mock.Anything, userID, orderID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/checkout/orders/"+orderID.String(), nil, userID, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.OrderIntent
		resp := decodeResponse(t, rr, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, orderID, got.ID)
		assert.Equal(t, models.OrderStatusSuccess, got.Status)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/", nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/", nil, userID, map[string]string{"id": "not-a-uuid"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		mockService.On("GetOrder", mock.Anything, userID, orderID).Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/", nil, userID, pathParams)
		rr := httptest.NewRecorder()

		// Act
		handler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleStripeWebhook(t *testing.T) {
	payload := `{"id":"evt_123","type":"payment_intent.succeeded"}`

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		mockService.On("HandleStripeWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Missing Signature", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(payload), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, "Stripe Signature is required", resp.Error.Message)
		mockService.AssertNotCalled(t, "HandleStripeWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Invalid Signature", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockOrderService(t)
		handler := handlers.NewOrderHandler(mockService)
		mockService.On("HandleStripeWebhook", mock.Anything, []byte(payload), "forged").
			Return(appErrors.BadRequestError("Invalid webhook signature")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "forged")
		rr := httptest.NewRecorder()

		// Act
		handler.HandleStripeWebhook().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
