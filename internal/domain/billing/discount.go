package billing

import (
	"errors"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDiscountValue = errors.New("Please enter a valid discount value (greater than 0)")
	ErrNoItemsToDiscount    = errors.New("No items to apply discount to")
)

// ApplyBulkDiscount spreads one order-level discount over the items in
// proportion to each item's total with tax. Existing item discounts are
// replaced. The rounding remainder lands on the last item that can absorb
// it, so the item discounts add up to the requested discount.
func ApplyBulkDiscount(items []LineItem, kind enum.DiscountType, value decimal.Decimal) ([]LineItem, error) {
	if !value.IsPositive() {
		return items, ErrInvalidDiscountValue
	}

	totalWithTax := decimal.Zero
	for _, li := range items {
		totalWithTax = totalWithTax.Add(li.TotalWithTax())
	}
	if !totalWithTax.IsPositive() {
		return items, ErrNoItemsToDiscount
	}

	discount := value
	if kind == enum.DiscountPercentage {
		discount = totalWithTax.Mul(value).Div(hundred)
	}
	if discount.GreaterThan(totalWithTax) {
		discount = totalWithTax
	}
	discount = formatter.Round2(discount)

	last := -1
	for i, li := range items {
		if li.TotalWithTax().IsPositive() {
			last = i
		}
	}

	out := make([]LineItem, len(items))
	allotted := decimal.Zero
	for i, li := range items {
		itemTotal := li.TotalWithTax()
		if !itemTotal.IsPositive() {
			li.DiscountAmount = decimal.Zero
			out[i] = reprice(li)
			continue
		}
		// shares rounded up can outrun the discount; no item takes more
		// than what is still unallotted
		remaining := discount.Sub(allotted)
		share := formatter.Round2(discount.Mul(itemTotal).Div(totalWithTax))
		if i == last || share.GreaterThan(remaining) {
			share = remaining
		}
		li = withDiscountAmount(li, share)
		allotted = allotted.Add(li.DiscountAmount)
		out[i] = li
	}
	return out, nil
}

// ApplyPercentToAll sets the same discount percentage on every item.
// Items with a zero total are left alone.
func ApplyPercentToAll(items []LineItem, percent decimal.Decimal) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		out[i] = withDiscountPercent(li, percent)
	}
	return out
}
