package checkout

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

type Pricer interface {
	Quote(ctx context.Context, items []models.LineItem, promoCode string) (*models.Quote, error)
}

// OrderRecorder receives the finalized intent. A Success=false result is a
// business rejection; a returned error is a transport failure.
type OrderRecorder interface {
	RecordOrder(ctx context.Context, intent *models.OrderIntent) (*models.OrderResult, error)
}

type Stopper interface {
	Stop() bool
}

type Dependencies struct {
	Pricer        Pricer
	Recorder      OrderRecorder
	Catalog       *Catalog
	SubmitTimeout time.Duration
	ResetDelay    time.Duration
	Now           func() time.Time
	NewID         func() uuid.UUID
	AfterFunc     func(d time.Duration, f func()) Stopper
}

func (d *Dependencies) withDefaults() {
	if d.Now == nil {
		d.Now = time.Now
	}

	if d.NewID == nil {
		d.NewID = uuid.New
	}

	if d.AfterFunc == nil {
		d.AfterFunc = func(delay time.Duration, f func()) Stopper { return time.AfterFunc(delay, f) }
	}
}

// Owner identifies the shopper a flow belongs to.
type Owner struct {
	UserID uuid.UUID
	Email  string
}

var (
	validate       = validator.New()
	sanitizePolicy = bluemonday.StrictPolicy()
)

// Flow is one shopper's checkout. All methods are safe for concurrent use; the
// submitting step admits exactly one in-flight submission.
type Flow struct {
	mu   sync.Mutex
	deps Dependencies

	id    uuid.UUID
	owner Owner

	step      Step
	items     []models.LineItem
	promoCode string
	billing   models.Billing
	provider  models.PaymentProvider
	purchase  models.PurchaseSelection

	lastErr *errors.AppError
	intent  *models.OrderIntent
	result  *models.OrderResult

	resetTimer Stopper
	updatedAt  time.Time
}

func NewFlow(deps Dependencies, owner Owner) *Flow {
	deps.withDefaults()

	return &Flow{
		deps:      deps,
		id:        deps.NewID(),
		owner:     owner,
		step:      StepCart,
		updatedAt: deps.Now(),
	}
}

func (f *Flow) ID() uuid.UUID {
	return f.id
}

func (f *Flow) Owner() Owner {
	return f.owner
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step
}

func (f *Flow) UpdatedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.updatedAt
}

// mutate runs fn under the lock if the current step accepts edits.
func (f *Flow) mutate(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.step == StepSubmitting:
		return errors.SubmissionInProgressError("An order submission is already in progress")
	case !f.step.editable():
		return errors.InvalidTransitionError("Checkout can no longer be edited in the " + f.step.String() + " step")
	}

	if err := fn(); err != nil {
		return err
	}

	f.updatedAt = f.deps.Now()

	return nil
}

func (f *Flow) SetItems(items []models.LineItem) error {
	if err := pricing.ValidateItems(items); err != nil {
		return err
	}

	return f.mutate(func() error {
		f.items = pricing.CloneItems(items)
		return nil
	})
}

func (f *Flow) UpdateQuantity(itemID string, quantity int) error {
	return f.mutate(func() error {
		items, err := pricing.UpdateQuantity(f.items, itemID, quantity)
		if err != nil {
			return err
		}
		f.items = items
		return nil
	})
}

func (f *Flow) RemoveItem(itemID string) error {
	return f.mutate(func() error {
		items, err := pricing.RemoveItem(f.items, itemID)
		if err != nil {
			return err
		}
		f.items = items
		return nil
	})
}

// ApplyPromoCode keeps the code only if it prices successfully against the current cart.
func (f *Flow) ApplyPromoCode(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errors.AddValidationError("code", "promo code is required")
	}

	f.mu.Lock()
	items := pricing.CloneItems(f.items)
	f.mu.Unlock()

	quote, err := f.deps.Pricer.Quote(ctx, items, code)
	if err != nil {
		return err
	}

	if quote.PromoError != "" {
		return errors.PromoCodeInvalidError(quote.PromoError)
	}

	return f.mutate(func() error {
		f.promoCode = code
		return nil
	})
}

func (f *Flow) ClearPromoCode() error {
	return f.mutate(func() error {
		f.promoCode = ""
		return nil
	})
}

func sanitize(s string) string {
	return strings.TrimSpace(sanitizePolicy.Sanitize(s))
}

func validateBilling(billing models.Billing) error {
	if err := validate.Struct(billing); err != nil {
		var verrs validator.ValidationErrors
		if stdErrors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			switch verrs[0].Tag() {
			case "required":
				return errors.AddValidationError(field, "is required")
			case "min":
				return errors.AddValidationError(field, "must be at least "+verrs[0].Param()+" characters")
			case "max":
				return errors.AddValidationError(field, "must be at most "+verrs[0].Param()+" characters")
			}
		}
		return errors.ValidationError("Invalid billing details").WithError(err)
	}

	return nil
}

func (f *Flow) SetBilling(billing models.Billing) error {
	clean := models.Billing{
		Address: sanitize(billing.Address),
		Phone:   sanitize(billing.Phone),
		ZipCode: sanitize(billing.ZipCode),
	}

	if err := validateBilling(clean); err != nil {
		return err
	}

	return f.mutate(func() error {
		f.billing = clean
		return nil
	})
}

func (f *Flow) SelectProvider(provider models.PaymentProvider) error {
	if _, ok := f.deps.Catalog.Lookup(provider); !ok {
		return errors.AddValidationError("provider", "payment provider is not available")
	}

	return f.mutate(func() error {
		f.provider = provider
		return nil
	})
}

// SelectPurchase replaces the whole selection so that exactly one kind is ever set.
func (f *Flow) SelectPurchase(kind models.PurchaseKind, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.AddValidationError("id", "is required")
	}

	selection := models.PurchaseSelection{Kind: kind}

	switch kind {
	case models.PurchaseComponent:
		selection.ComponentID = id
	case models.PurchasePack:
		selection.PackID = id
	case models.PurchaseBundle:
		selection.BundleID = id
	default:
		return errors.AddValidationError("kind", "must be one of component, pack, bundle")
	}

	return f.mutate(func() error {
		f.purchase = selection
		return nil
	})
}

// guard checks the data needed to leave step forward. Caller holds the lock.
func (f *Flow) guard(step Step) error {
	switch step {
	case StepCart:
		if len(f.items) == 0 {
			return errors.ValidationError("Cart is empty")
		}
		return pricing.ValidateItems(f.items)
	case StepShipping:
		return validateBilling(f.billing)
	case StepPayment:
		if f.provider == "" {
			return errors.AddValidationError("provider", "select a payment provider")
		}
		if _, ok := f.deps.Catalog.Lookup(f.provider); !ok {
			return errors.AddValidationError("provider", "payment provider is not available")
		}
	}

	return nil
}

func (f *Flow) fire(ev event) error {
	to, err := nextStep(f.step, ev)
	if err != nil {
		return err
	}

	f.step = to
	f.updatedAt = f.deps.Now()

	return nil
}

// Next advances one step if the current step's fields are valid.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := nextStep(f.step, eventNext); err != nil {
		return err
	}

	if err := f.guard(f.step); err != nil {
		return err
	}

	return f.fire(eventNext)
}

// Back never discards entered data.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fire(eventBack)
}

// Retry returns a failed flow to confirmation with its data and error intact.
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fire(eventRetry)
}

func (f *Flow) clear() {
	f.items = nil
	f.promoCode = ""
	f.billing = models.Billing{}
	f.provider = ""
	f.purchase = models.PurchaseSelection{}
	f.lastErr = nil
	f.intent = nil
	f.result = nil

	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
}

// Cancel discards everything. It is refused while a submission is in flight.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step == StepSubmitting {
		return errors.InvalidTransitionError("Cannot cancel while the order is being submitted")
	}

	if err := f.fire(eventCancel); err != nil {
		return err
	}

	f.clear()

	return nil
}

// Reset starts over with an empty cart after a successful order.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fire(eventReset); err != nil {
		return err
	}

	f.clear()

	return nil
}

func (f *Flow) buildIntent(quote *models.Quote) *models.OrderIntent {
	intent := &models.OrderIntent{
		ID:              f.deps.NewID(),
		SessionID:       f.id,
		UserID:          f.owner.UserID,
		Email:           f.owner.Email,
		PaymentProvider: f.provider,
		Address:         f.billing.Address,
		Phone:           f.billing.Phone,
		ZipCode:         f.billing.ZipCode,
		Amount:          quote.Total,
		Currency:        quote.Currency,
		PromoCode:       quote.PromoCode,
		Items:           pricing.CloneItems(f.items),
		Status:          models.OrderStatusPending,
		CreatedAt:       f.deps.Now(),
	}

	switch f.purchase.Kind {
	case models.PurchaseComponent:
		componentID := f.purchase.ComponentID
		intent.ComponentID = &componentID
		intent.IsComponent = true
	case models.PurchasePack:
		intent.PackID = f.purchase.PackID
		intent.IsPack = true
	case models.PurchaseBundle:
		intent.BundleID = f.purchase.BundleID
		intent.IsBundle = true
	}

	return intent
}

func cloneIntent(intent *models.OrderIntent) *models.OrderIntent {
	c := *intent
	c.Items = pricing.CloneItems(intent.Items)
	if intent.ComponentID != nil {
		componentID := *intent.ComponentID
		c.ComponentID = &componentID
	}

	return &c
}

// sameOrder reports whether next repeats a failed submission of prev unchanged,
// in which case it keeps prev's ID and with it the payment idempotency key.
func sameOrder(prev, next *models.OrderIntent) bool {
	if prev == nil || prev.Status != models.OrderStatusFailed {
		return false
	}

	return prev.PaymentProvider == next.PaymentProvider &&
		prev.Amount == next.Amount &&
		prev.Currency == next.Currency &&
		prev.PromoCode == next.PromoCode &&
		prev.IsComponent == next.IsComponent &&
		prev.IsPack == next.IsPack &&
		prev.IsBundle == next.IsBundle &&
		lo.FromPtr(prev.ComponentID) == lo.FromPtr(next.ComponentID) &&
		prev.PackID == next.PackID &&
		prev.BundleID == next.BundleID &&
		reflect.DeepEqual(prev.Items, next.Items)
}

type recordOutcome struct {
	result *models.OrderResult
	err    error
}

func (f *Flow) record(ctx context.Context, intent *models.OrderIntent) (*models.OrderResult, error) {
	if f.deps.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.deps.SubmitTimeout)
		defer cancel()
	}

	done := make(chan recordOutcome, 1)

	go func() {
		result, err := f.deps.Recorder.RecordOrder(ctx, intent)
		done <- recordOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && stdErrors.Is(out.err, context.DeadlineExceeded) {
			return nil, errors.TimeoutError("The order service did not respond in time").WithError(out.err)
		}
		return out.result, out.err
	case <-ctx.Done():
		if stdErrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.TimeoutError("The order service did not respond in time").WithError(ctx.Err())
		}
		return nil, errors.SubmissionFailedError("Order submission was interrupted").WithError(ctx.Err())
	}
}

// Submit hands the order intent to the recorder. Only one submission may be in
// flight; a failure leaves the flow in the failed step with all data kept.
func (f *Flow) Submit(ctx context.Context) error {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("sessionId", f.id.String()))

	f.mu.Lock()

	if _, err := nextStep(f.step, eventSubmit); err != nil {
		f.mu.Unlock()
		return err
	}

	for _, step := range []Step{StepCart, StepShipping, StepPayment} {
		if err := f.guard(step); err != nil {
			f.mu.Unlock()
			return err
		}
	}

	_ = f.fire(eventSubmit)
	f.lastErr = nil
	f.result = nil
	items := pricing.CloneItems(f.items)
	promoCode := f.promoCode

	f.mu.Unlock()

	quote, err := f.deps.Pricer.Quote(ctx, items, promoCode)
	if err != nil {
		logger.Error("Failed to price order", slog.String("error", err.Error()))
		f.finishFailed(nil, errors.SubmissionFailedError("Could not price the order").WithError(err))
		return nil
	}

	f.mu.Lock()
	intent := f.buildIntent(quote)
	if sameOrder(f.intent, intent) {
		intent.ID = f.intent.ID
	}
	f.intent = intent
	handoff := cloneIntent(intent)
	f.mu.Unlock()

	logger.Info("Submitting order", slog.String("intentId", intent.ID.String()), slog.String("provider", string(intent.PaymentProvider)))

	result, err := f.record(ctx, handoff)

	switch {
	case err != nil:
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = errors.SubmissionFailedError("Order submission failed").WithError(err)
		}
		logger.Warn("Order submission failed", slog.String("code", appErr.Code), slog.String("error", err.Error()))
		f.finishFailed(nil, appErr)
	case result == nil || !result.Success:
		message := "The order could not be completed"
		if result != nil && result.Message != "" {
			message = result.Message
		}
		logger.Warn("Order rejected", slog.String("message", message))
		f.finishFailed(result, errors.SubmissionFailedError(message))
	default:
		logger.Info("Order recorded", slog.String("orderId", result.OrderID))
		f.finishSucceeded(result)
	}

	return nil
}

func (f *Flow) finishFailed(result *models.OrderResult, appErr *errors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_ = f.fire(eventFail)
	f.lastErr = appErr
	f.result = result

	if f.intent != nil {
		f.intent.Status = models.OrderStatusFailed
	}
}

func (f *Flow) finishSucceeded(result *models.OrderResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_ = f.fire(eventSucceed)
	f.result = result
	f.intent.Status = models.OrderStatusSuccess
	if result.Status != "" {
		f.intent.Status = result.Status
	}

	if f.deps.ResetDelay > 0 {
		f.resetTimer = f.deps.AfterFunc(f.deps.ResetDelay, f.resetAfterSuccess)
	}
}

func (f *Flow) resetAfterSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSuccess {
		return
	}

	_ = f.fire(eventReset)
	f.resetTimer = nil
	f.clear()
}

// LastError is the error surfaced by the most recent failed submission.
func (f *Flow) LastError() *errors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastErr
}

// Snapshot returns a copy of the flow state with a fresh quote.
func (f *Flow) Snapshot(ctx context.Context) (*models.CheckoutView, error) {
	f.mu.Lock()
	view := &models.CheckoutView{
		SessionID: f.id,
		Step:      f.step.String(),
		Items:     pricing.CloneItems(f.items),
		PromoCode: f.promoCode,
		Billing:   f.billing,
		Provider:  f.provider,
		Purchase:  f.purchase,
		UpdatedAt: f.updatedAt,
	}

	if f.lastErr != nil {
		view.LastError = f.lastErr.Message
		view.ErrorCode = f.lastErr.Code
	}

	if f.intent != nil {
		intent := *f.intent
		intent.Items = pricing.CloneItems(f.intent.Items)
		view.Intent = &intent
	}

	if f.result != nil {
		result := *f.result
		view.Result = &result
	}
	f.mu.Unlock()

	quote, err := f.deps.Pricer.Quote(ctx, view.Items, view.PromoCode)
	if err != nil {
		return nil, err
	}

	view.Quote = quote

	return view, nil
}
