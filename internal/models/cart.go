package models

type SubscriptionFrequency string

const (
	FrequencyOneTime  SubscriptionFrequency = "one-time"
	FrequencyWeekly   SubscriptionFrequency = "weekly"
	FrequencyBiweekly SubscriptionFrequency = "biweekly"
	FrequencyMonthly  SubscriptionFrequency = "monthly"
)

var subscriptionDiscounts = map[SubscriptionFrequency]int64{
	FrequencyOneTime:  0,
	FrequencyWeekly:   15,
	FrequencyBiweekly: 10,
	FrequencyMonthly:  5,
}

// DiscountPercent returns the cadence discount; the empty frequency counts as one-time.
func (f SubscriptionFrequency) DiscountPercent() (int64, bool) {
	if f == "" {
		return 0, true
	}

	pct, ok := subscriptionDiscounts[f]

	return pct, ok
}

type LineItem struct {
	ID                    string                `json:"id" validate:"required"`
	ProductID             string                `json:"product_id,omitempty"`
	Name                  string                `json:"name,omitempty"`
	UnitPrice             Money                 `json:"unit_price" validate:"gte=0"`
	Quantity              int                   `json:"quantity" validate:"required,min=1"`
	SelectedVariant       map[string]string     `json:"selected_variant,omitempty"`
	SubscriptionFrequency SubscriptionFrequency `json:"subscription_frequency,omitempty" validate:"omitempty,oneof=one-time weekly biweekly monthly"`
}

type SetItemsRequest struct {
	Items []LineItem `json:"items" validate:"dive"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type QuoteRequest struct {
	Items     []LineItem `json:"items" validate:"required,min=1,dive"`
	PromoCode string     `json:"promo_code,omitempty"`
}

// Quote is the full price breakdown of a cart.
type Quote struct {
	Gross               Money  `json:"gross"`
	SubscriptionSavings Money  `json:"subscription_savings"`
	Subtotal            Money  `json:"subtotal"`
	Discount            Money  `json:"discount"`
	Tax                 Money  `json:"tax"`
	Shipping            Money  `json:"shipping"`
	Total               Money  `json:"total"`
	Currency            string `json:"currency"`
	PromoCode           string `json:"promo_code,omitempty"`
	PromoError          string `json:"promo_error,omitempty"`
}
