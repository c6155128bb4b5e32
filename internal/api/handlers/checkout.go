package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// sessionScope resolves the caller and the session id path value, writing the error
// response itself when either is missing.
func sessionScope(w http.ResponseWriter, r *http.Request) (*slog.Logger, *models.Claims, uuid.UUID, bool) {
	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized checkout access attempt")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return logger, nil, uuid.Nil, false
	}

	sessionID, err := utils.ParseID(r, "id")
	if err != nil {
		logger.Warn("Invalid session id", slog.String("error", err.Error()))
		response.Error(w, err)
		return logger, claims, uuid.Nil, false
	}

	logger = logger.With(slog.String("userId", claims.UserID.String()), slog.String("sessionId", sessionID.String()))

	return logger, claims, sessionID, true
}

func (h *CheckoutHandler) ListProviders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.checkoutService.ListProviders(r.Context()))
	}
}

// Quote prices a cart without a session.
func (h *CheckoutHandler) Quote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.QuoteRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid quote input")
			return
		}

		quote, err := h.checkoutService.Quote(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to price cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, quote)
	}
}

func (h *CheckoutHandler) StartSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout start attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.StartCheckoutRequest
		if r.ContentLength != 0 && !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid start checkout input")
			return
		}

		view, err := h.checkoutService.StartSession(r.Context(), checkout.Owner{UserID: claims.UserID, Email: claims.Email}, req.Items)
		if err != nil {
			logger.Warn("Failed to start checkout", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, view)
	}
}

func (h *CheckoutHandler) GetSession() http.HandlerFunc {
	return h.sessionAction("get", (service.CheckoutService).GetSession)
}

func (h *CheckoutHandler) SetItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.SetItemsRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart items input")
			return
		}

		view, err := h.checkoutService.SetItems(r.Context(), claims.UserID, sessionID, req.Items)
		h.respond(w, logger, "set items", view, err)
	}
}

func (h *CheckoutHandler) UpdateItemQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid quantity input")
			return
		}

		view, err := h.checkoutService.UpdateItemQuantity(r.Context(), claims.UserID, sessionID, r.PathValue("itemId"), req.Quantity)
		h.respond(w, logger, "update quantity", view, err)
	}
}

func (h *CheckoutHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		view, err := h.checkoutService.RemoveItem(r.Context(), claims.UserID, sessionID, r.PathValue("itemId"))
		h.respond(w, logger, "remove item", view, err)
	}
}

func (h *CheckoutHandler) ApplyPromoCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.ApplyPromoRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid promo code input")
			return
		}

		view, err := h.checkoutService.ApplyPromoCode(r.Context(), claims.UserID, sessionID, req.Code)
		h.respond(w, logger, "apply promo code", view, err)
	}
}

func (h *CheckoutHandler) ClearPromoCode() http.HandlerFunc {
	return h.sessionAction("clear promo code", (service.CheckoutService).ClearPromoCode)
}

func (h *CheckoutHandler) SetBilling() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.Billing
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			logger.Warn("Invalid billing input", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		// validated after sanitizing, inside the flow
		view, err := h.checkoutService.SetBilling(r.Context(), claims.UserID, sessionID, req)
		h.respond(w, logger, "set billing", view, err)
	}
}

func (h *CheckoutHandler) SelectProvider() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.SelectProviderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid provider input")
			return
		}

		view, err := h.checkoutService.SelectProvider(r.Context(), claims.UserID, sessionID, req.Provider)
		h.respond(w, logger, "select provider", view, err)
	}
}

func (h *CheckoutHandler) SelectPurchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		var req models.SelectPurchaseRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid purchase input")
			return
		}

		view, err := h.checkoutService.SelectPurchase(r.Context(), claims.UserID, sessionID, &req)
		h.respond(w, logger, "select purchase", view, err)
	}
}

func (h *CheckoutHandler) Next() http.HandlerFunc {
	return h.sessionAction("next", (service.CheckoutService).Next)
}

func (h *CheckoutHandler) Back() http.HandlerFunc {
	return h.sessionAction("back", (service.CheckoutService).Back)
}

func (h *CheckoutHandler) Retry() http.HandlerFunc {
	return h.sessionAction("retry", (service.CheckoutService).Retry)
}

// Submit answers 200 with the resulting snapshot; a failed order is reported in it.
func (h *CheckoutHandler) Submit() http.HandlerFunc {
	return h.sessionAction("submit", (service.CheckoutService).Submit)
}

func (h *CheckoutHandler) Cancel() http.HandlerFunc {
	return h.sessionAction("cancel", (service.CheckoutService).Cancel)
}

type sessionFunc func(s service.CheckoutService, ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)

// sessionAction serves operations that take no request body.
func (h *CheckoutHandler) sessionAction(action string, fn sessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, sessionID, ok := sessionScope(w, r)
		if !ok {
			return
		}

		view, err := fn(h.checkoutService, r.Context(), claims.UserID, sessionID)
		h.respond(w, logger, action, view, err)
	}
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, logger *slog.Logger, action string, view *models.CheckoutView, err error) {
	if err != nil {
		logger.Warn("Checkout "+action+" failed", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	logger.Info("Checkout "+action+" done", slog.String("step", view.Step))
	response.Success(w, http.StatusOK, view)
}
