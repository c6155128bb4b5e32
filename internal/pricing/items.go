package pricing

import (
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/samber/lo"
)

// ValidateItem rejects malformed line items before any arithmetic runs.
func ValidateItem(item models.LineItem) error {
	if item.ID == "" {
		return errors.InvalidInputError("Line item id is required")
	}

	if item.UnitPrice < 0 {
		return errors.InvalidInputError(fmt.Sprintf("Line item %s has a negative unit price", item.ID))
	}

	if item.Quantity < 1 {
		return errors.InvalidInputError(fmt.Sprintf("Line item %s must have a quantity of at least 1", item.ID))
	}

	if _, ok := item.SubscriptionFrequency.DiscountPercent(); !ok {
		return errors.InvalidInputError(fmt.Sprintf("Line item %s has an unknown subscription frequency %q", item.ID, item.SubscriptionFrequency))
	}

	return nil
}

// ValidateItems also rejects duplicate ids, which must stay unique per cart.
func ValidateItems(items []models.LineItem) error {
	for _, item := range items {
		if err := ValidateItem(item); err != nil {
			return err
		}
	}

	if dups := lo.FindDuplicatesBy(items, func(item models.LineItem) string { return item.ID }); len(dups) > 0 {
		return errors.InvalidInputError(fmt.Sprintf("Duplicate line item id %s", dups[0].ID))
	}

	return nil
}

// UpdateQuantity returns a copy of items with the quantity of id replaced.
func UpdateQuantity(items []models.LineItem, id string, quantity int) ([]models.LineItem, error) {
	if quantity < 1 {
		return nil, errors.InvalidInputError("Quantity must be at least 1")
	}

	if !lo.ContainsBy(items, func(item models.LineItem) bool { return item.ID == id }) {
		return nil, errors.NotFoundError("Item not found in the cart")
	}

	return lo.Map(items, func(item models.LineItem, _ int) models.LineItem {
		if item.ID == id {
			item.Quantity = quantity
		}
		return item
	}), nil
}

// RemoveItem returns a copy of items without id.
func RemoveItem(items []models.LineItem, id string) ([]models.LineItem, error) {
	remaining := lo.Reject(items, func(item models.LineItem, _ int) bool { return item.ID == id })
	if len(remaining) == len(items) {
		return nil, errors.NotFoundError("Item not found in the cart")
	}

	return remaining, nil
}

// CloneItems deep-copies items including variant maps.
func CloneItems(items []models.LineItem) []models.LineItem {
	return lo.Map(items, func(item models.LineItem, _ int) models.LineItem {
		if item.SelectedVariant != nil {
			item.SelectedVariant = lo.Assign(item.SelectedVariant)
		}
		return item
	})
}
