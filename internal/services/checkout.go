package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
)

type CheckoutService interface {
	ListProviders(ctx context.Context) []models.ProviderInfo
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error)

	StartSession(ctx context.Context, owner checkout.Owner, items []models.LineItem) (*models.CheckoutView, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)

	SetItems(ctx context.Context, userID, sessionID uuid.UUID, items []models.LineItem) (*models.CheckoutView, error)
	UpdateItemQuantity(ctx context.Context, userID, sessionID uuid.UUID, itemID string, quantity int) (*models.CheckoutView, error)
	RemoveItem(ctx context.Context, userID, sessionID uuid.UUID, itemID string) (*models.CheckoutView, error)
	ApplyPromoCode(ctx context.Context, userID, sessionID uuid.UUID, code string) (*models.CheckoutView, error)
	ClearPromoCode(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)
	SetBilling(ctx context.Context, userID, sessionID uuid.UUID, billing models.Billing) (*models.CheckoutView, error)
	SelectProvider(ctx context.Context, userID, sessionID uuid.UUID, provider models.PaymentProvider) (*models.CheckoutView, error)
	SelectPurchase(ctx context.Context, userID, sessionID uuid.UUID, req *models.SelectPurchaseRequest) (*models.CheckoutView, error)

	Next(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)
	Back(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)
	Retry(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)
	Submit(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)
	Cancel(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error)

	EvictIdle(now time.Time) int
}

type checkoutService struct {
	engine   *pricing.Engine
	catalog  *checkout.Catalog
	recorder checkout.OrderRecorder
	limiter  repository.RateLimitRepository
	cfg      config.Checkout

	mu       sync.RWMutex
	sessions map[uuid.UUID]*checkout.Flow
}

// NewCheckoutService keeps sessions in memory. A nil limiter disables submit rate limiting.
func NewCheckoutService(engine *pricing.Engine, catalog *checkout.Catalog, recorder checkout.OrderRecorder, limiter repository.RateLimitRepository, cfg config.Checkout) CheckoutService {
	return &checkoutService{
		engine:   engine,
		catalog:  catalog,
		recorder: recorder,
		limiter:  limiter,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*checkout.Flow),
	}
}

func (s *checkoutService) ListProviders(ctx context.Context) []models.ProviderInfo {
	return s.catalog.List()
}

func (s *checkoutService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	return s.engine.Quote(ctx, req.Items, req.PromoCode)
}

func (s *checkoutService) StartSession(ctx context.Context, owner checkout.Owner, items []models.LineItem) (*models.CheckoutView, error) {
	flow := checkout.NewFlow(checkout.Dependencies{
		Pricer:        s.engine,
		Recorder:      s.recorder,
		Catalog:       s.catalog,
		SubmitTimeout: s.cfg.SubmitTimeout,
		ResetDelay:    s.cfg.SuccessResetDelay,
	}, owner)

	if len(items) > 0 {
		if err := flow.SetItems(items); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.sessions[flow.ID()] = flow
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(active)
	middleware.LoggerFromContext(ctx).Info("Checkout session started", slog.String("sessionId", flow.ID().String()))

	return flow.Snapshot(ctx)
}

// session returns the flow if it exists and belongs to userID.
func (s *checkoutService) session(userID, sessionID uuid.UUID) (*checkout.Flow, error) {
	s.mu.RLock()
	flow, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, appErrors.NotFoundError("Checkout session not found")
	}

	if flow.Owner().UserID != userID {
		return nil, appErrors.ForbiddenError("Checkout session belongs to another user")
	}

	return flow, nil
}

// apply runs op against the session and returns the resulting snapshot.
func (s *checkoutService) apply(ctx context.Context, userID, sessionID uuid.UUID, op func(*checkout.Flow) error) (*models.CheckoutView, error) {
	flow, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := op(flow); err != nil {
		return nil, err
	}

	return flow.Snapshot(ctx)
}

func (s *checkoutService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(*checkout.Flow) error { return nil })
}

func (s *checkoutService) SetItems(ctx context.Context, userID, sessionID uuid.UUID, items []models.LineItem) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.SetItems(items) })
}

func (s *checkoutService) UpdateItemQuantity(ctx context.Context, userID, sessionID uuid.UUID, itemID string, quantity int) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.UpdateQuantity(itemID, quantity) })
}

func (s *checkoutService) RemoveItem(ctx context.Context, userID, sessionID uuid.UUID, itemID string) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.RemoveItem(itemID) })
}

func (s *checkoutService) ApplyPromoCode(ctx context.Context, userID, sessionID uuid.UUID, code string) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.ApplyPromoCode(ctx, code) })
}

func (s *checkoutService) ClearPromoCode(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.ClearPromoCode() })
}

func (s *checkoutService) SetBilling(ctx context.Context, userID, sessionID uuid.UUID, billing models.Billing) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.SetBilling(billing) })
}

func (s *checkoutService) SelectProvider(ctx context.Context, userID, sessionID uuid.UUID, provider models.PaymentProvider) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.SelectProvider(provider) })
}

func (s *checkoutService) SelectPurchase(ctx context.Context, userID, sessionID uuid.UUID, req *models.SelectPurchaseRequest) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, func(f *checkout.Flow) error { return f.SelectPurchase(req.Kind, req.ID) })
}

func (s *checkoutService) Next(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, (*checkout.Flow).Next)
}

func (s *checkoutService) Back(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, (*checkout.Flow).Back)
}

func (s *checkoutService) Retry(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	return s.apply(ctx, userID, sessionID, (*checkout.Flow).Retry)
}

// Submit returns the snapshot even when the order failed; the failure lives in the view.
func (s *checkoutService) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	logger := middleware.LoggerFromContext(ctx)

	flow, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		allowed, _, retryAfter, err := s.limiter.CheckSubmitRateLimit(ctx, userID.String())
		switch {
		case err != nil:
			logger.Warn("Submit rate limit check failed, allowing request", slog.String("error", err.Error()))
		case !allowed:
			return nil, appErrors.TooManyRequestsError("Too many order submissions").
				WithDetail("Retry after " + strconv.Itoa(retryAfter) + " seconds")
		}
	}

	start := time.Now()

	if err := flow.Submit(ctx); err != nil {
		return nil, err
	}

	view, err := flow.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	metrics.ObserveSubmission(string(view.Provider), view.Step, time.Since(start))

	return view, nil
}

// Cancel discards the session. The returned view is the final, empty state.
func (s *checkoutService) Cancel(ctx context.Context, userID, sessionID uuid.UUID) (*models.CheckoutView, error) {
	view, err := s.apply(ctx, userID, sessionID, (*checkout.Flow).Cancel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(active)

	return view, nil
}

// EvictIdle drops sessions untouched for longer than the idle TTL. Sessions with a
// submission in flight are kept.
func (s *checkoutService) EvictIdle(now time.Time) int {
	if s.cfg.SessionIdleTTL <= 0 {
		return 0
	}

	cutoff := now.Add(-s.cfg.SessionIdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0

	for id, flow := range s.sessions {
		if flow.Step() == checkout.StepSubmitting || flow.UpdatedAt().After(cutoff) {
			continue
		}

		delete(s.sessions, id)
		evicted++
	}

	metrics.SetActiveSessions(len(s.sessions))

	return evicted
}
