package checkout

import (
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/samber/lo"
)

var knownProviders = []models.ProviderInfo{
	{ID: models.ProviderStripe, DisplayName: "Card (Stripe)", SupportedMethods: []string{"card"}},
	{ID: models.ProviderPayPal, DisplayName: "PayPal", SupportedMethods: []string{"paypal", "card"}},
	{ID: models.ProviderPesapal, DisplayName: "Pesapal", SupportedMethods: []string{"mpesa", "airtel_money", "card"}},
	{ID: models.ProviderBankTransfer, DisplayName: "Bank transfer", SupportedMethods: []string{"bank_transfer"}},
	{ID: models.ProviderOther, DisplayName: "Other", SupportedMethods: []string{"manual"}},
}

// Catalog is the static list of payment providers enabled for this deployment.
type Catalog struct {
	providers []models.ProviderInfo
}

func NewCatalog(enabled []string) (*Catalog, error) {
	if len(enabled) == 0 {
		return &Catalog{providers: knownProviders}, nil
	}

	for _, id := range enabled {
		if !lo.ContainsBy(knownProviders, func(p models.ProviderInfo) bool { return string(p.ID) == id }) {
			return nil, fmt.Errorf("unknown payment provider %q", id)
		}
	}

	providers := lo.Filter(knownProviders, func(p models.ProviderInfo, _ int) bool {
		return lo.Contains(enabled, string(p.ID))
	})

	return &Catalog{providers: providers}, nil
}

func (c *Catalog) List() []models.ProviderInfo {
	return lo.Map(c.providers, func(p models.ProviderInfo, _ int) models.ProviderInfo {
		p.SupportedMethods = append([]string(nil), p.SupportedMethods...)
		return p
	})
}

func (c *Catalog) Lookup(id models.PaymentProvider) (models.ProviderInfo, bool) {
	return lo.Find(c.providers, func(p models.ProviderInfo) bool { return p.ID == id })
}
